package service

import (
	"LinkKeeper/internal/ai"
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Ключи настроек. Значения живут в БД и правятся через API;
// encode/decode происходит только здесь, на границе стора.
const (
	KeyAIProvider        = "ai.provider"
	KeyAIModel           = "ai.model"
	KeyAIAPIKey          = "ai.api_key"
	KeyAIBaseURL         = "ai.base_url"
	KeyAITemperature     = "ai.temperature"
	KeyAITimeoutSeconds  = "ai.timeout_seconds"
	KeyAIMaxContentLen   = "ai.max_content_length"
	KeyAIPromptTemplate  = "ai.prompt_template"
	KeyAIUserInstruction = "ai.user_instruction"

	KeyScrapeTimeoutSeconds = "scrape.timeout_seconds"
	KeyScrapeMaxContentLen  = "scrape.max_content_length"

	KeyCatalogPageSize = "catalog.page_size"

	KeyRateLimitRPM   = "ratelimit.rpm"
	KeyRateLimitBurst = "ratelimit.burst"
)

type settingDefault struct {
	Value       string
	Type        string
	Description string
	Secret      bool
}

// defaults — встроенная таблица дефолтов. Отсутствующая или битая строка
// в БД всегда схлопывается в значение отсюда.
var defaults = map[string]settingDefault{
	KeyAIProvider:        {"openai", model.SettingString, "AI provider: openai | openrouter | anthropic", false},
	KeyAIModel:           {"gpt-4o-mini", model.SettingString, "Model name passed to the provider", false},
	KeyAIAPIKey:          {"", model.SettingString, "API key for the AI provider", true},
	KeyAIBaseURL:         {"", model.SettingString, "Override base URL for OpenAI-compatible providers", false},
	KeyAITemperature:     {"0.3", model.SettingNumber, "Sampling temperature", false},
	KeyAITimeoutSeconds:  {"30", model.SettingNumber, "AI request timeout, seconds", false},
	KeyAIMaxContentLen:   {"10000", model.SettingNumber, "Max scraped content length sent to the model", false},
	KeyAIPromptTemplate:  {ai.DefaultPromptTemplate, model.SettingString, "Prompt template with {title} {url} {content} {categories} placeholders", false},
	KeyAIUserInstruction: {"", model.SettingString, "Free-form suffix appended to the prompt", false},

	KeyScrapeTimeoutSeconds: {"30", model.SettingNumber, "Scrape request timeout, seconds", false},
	KeyScrapeMaxContentLen:  {"50000", model.SettingNumber, "Max page content length kept by the scraper", false},

	KeyCatalogPageSize: {"20", model.SettingNumber, "Default page size of the public catalog", false},

	KeyRateLimitRPM:   {"120", model.SettingNumber, "Public API rate limit, requests per minute per IP", false},
	KeyRateLimitBurst: {"20", model.SettingNumber, "Public API rate limit burst", false},
}

// SettingView — настройка, как её видит клиент: секреты маскируются.
type SettingView struct {
	Key         string       `json:"key"`
	Value       any          `json:"value"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Secret      model.Secret `json:"secret_value,omitempty"`
	IsSecret    bool         `json:"is_secret"`
}

// SettingsService — типизированный key/value стор с дефолтами.
type SettingsService struct {
	repo   repo.SettingRepository
	logger *zap.SugaredLogger
}

func NewSettingsService(r repo.SettingRepository, logger *zap.SugaredLogger) *SettingsService {
	return &SettingsService{repo: r, logger: logger}
}

// Seed заливает дефолты, не перетирая уже сохранённые значения.
// Идемпотентен: повторный запуск оставляет ровно одну строку на ключ.
func (s *SettingsService) Seed(ctx context.Context) error {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		d := defaults[k]
		err := s.repo.SeedIfAbsent(ctx, &model.Setting{
			Key:         k,
			Value:       d.Value,
			Type:        d.Type,
			Description: d.Description,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Get возвращает декодированное значение ключа. Никогда не возвращает
// ошибку вызывающему: отсутствие строки и ошибки декодирования
// схлопываются во встроенный дефолт.
func (s *SettingsService) Get(ctx context.Context, key string) any {
	d, known := defaults[key]

	row, err := s.repo.Get(ctx, key)
	if err != nil || row == nil {
		if !known {
			return nil
		}
		v, _ := decode(d.Value, d.Type)
		return v
	}

	v, decErr := decode(row.Value, row.Type)
	if decErr != nil {
		if s.logger != nil {
			s.logger.Warnw("settings: decode failed, falling back to default",
				"key", key, "error", decErr)
		}
		if !known {
			return nil
		}
		v, _ = decode(d.Value, d.Type)
	}
	return v
}

// String / Int / Float / Bool — типизированные обёртки над Get.
func (s *SettingsService) String(ctx context.Context, key string) string {
	if v, ok := s.Get(ctx, key).(string); ok {
		return v
	}
	return ""
}

func (s *SettingsService) Int(ctx context.Context, key string) int {
	if v, ok := s.Get(ctx, key).(float64); ok {
		return int(v)
	}
	return 0
}

func (s *SettingsService) Float(ctx context.Context, key string) float64 {
	if v, ok := s.Get(ctx, key).(float64); ok {
		return v
	}
	return 0
}

func (s *SettingsService) Bool(ctx context.Context, key string) bool {
	if v, ok := s.Get(ctx, key).(bool); ok {
		return v
	}
	return false
}

// Set апсертит настройку. Для секретных ключей присланный сентинел-маска
// означает "оставить как есть" и не трогает сохранённое значение.
func (s *SettingsService) Set(ctx context.Context, key, value, typ, description string) error {
	d, known := defaults[key]
	if known && d.Secret && model.IsMask(value) {
		return nil
	}
	if typ == "" {
		if known {
			typ = d.Type
		} else {
			typ = model.SettingString
		}
	}
	if description == "" && known {
		description = d.Description
	}
	if _, err := decode(value, typ); err != nil {
		return ErrValidation
	}
	return s.repo.Upsert(ctx, &model.Setting{
		Key:         key,
		Value:       value,
		Type:        typ,
		Description: description,
	})
}

// GetAll возвращает таблицу дефолтов, перекрытую сохранёнными строками.
// Секреты наружу не отдаются — вместо значения маска.
func (s *SettingsService) GetAll(ctx context.Context) ([]SettingView, error) {
	merged := make(map[string]model.Setting, len(defaults))
	for k, d := range defaults {
		merged[k] = model.Setting{Key: k, Value: d.Value, Type: d.Type, Description: d.Description}
	}

	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		merged[row.Key] = row
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	views := make([]SettingView, 0, len(keys))
	for _, k := range keys {
		row := merged[k]
		d, known := defaults[k]
		secret := known && d.Secret

		view := SettingView{
			Key:         k,
			Type:        row.Type,
			Description: row.Description,
			IsSecret:    secret,
		}
		if secret {
			view.Secret = model.Secret(row.Value)
		} else {
			v, decErr := decode(row.Value, row.Type)
			if decErr != nil && known {
				v, _ = decode(d.Value, d.Type)
			}
			view.Value = v
		}
		views = append(views, view)
	}
	return views, nil
}

// AISettings собирает параметры AI-вызова из стора; сырое значение ключа
// достаётся только здесь, на серверной стороне.
func (s *SettingsService) AISettings(ctx context.Context) ai.Settings {
	return ai.Settings{
		Provider:        s.String(ctx, KeyAIProvider),
		Model:           s.String(ctx, KeyAIModel),
		APIKey:          model.Secret(s.String(ctx, KeyAIAPIKey)).Reveal(),
		BaseURL:         s.String(ctx, KeyAIBaseURL),
		Temperature:     s.Float(ctx, KeyAITemperature),
		PromptTemplate:  s.String(ctx, KeyAIPromptTemplate),
		UserInstruction: s.String(ctx, KeyAIUserInstruction),
		MaxContentLen:   s.Int(ctx, KeyAIMaxContentLen),
	}
}

// AITimeout — таймаут AI-вызова из настроек.
func (s *SettingsService) AITimeout(ctx context.Context) time.Duration {
	sec := s.Int(ctx, KeyAITimeoutSeconds)
	if sec <= 0 {
		sec = 30
	}
	return time.Duration(sec) * time.Second
}

// decode разбирает строковое значение согласно типу.
func decode(value, typ string) (any, error) {
	switch typ {
	case model.SettingNumber:
		return strconv.ParseFloat(value, 64)
	case model.SettingBoolean:
		return strconv.ParseBool(value)
	case model.SettingJSON:
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return value, nil
	}
}
