package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
)

// Settings — параметры вызова модели. Собираются из SettingsStore на каждый
// запрос, поэтому смена провайдера/ключа не требует рестарта.
type Settings struct {
	Provider        string // "openai" | "openrouter" | "anthropic"
	Model           string
	APIKey          string
	BaseURL         string
	Temperature     float64
	PromptTemplate  string // с плейсхолдерами {title} {url} {content} {categories}
	UserInstruction string // опциональный свободный суффикс к промпту
	MaxContentLen   int
}

// Input — контент для анализа.
type Input struct {
	URL        string
	Title      string
	Content    string
	Categories []string // активные категории, которые модель обязана использовать
}

// Analysis — структурированный ответ модели.
type Analysis struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ReadingTime int      `json:"reading_time"`
}

// Analyzer превращает скрейпнутый контент в структурированный анализ.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// DefaultPromptTemplate — встроенный шаблон промпта; хранится в настройках
// и может быть переопределён оператором.
const DefaultPromptTemplate = `You are a bookmark curator. Analyze the page below and reply with strict JSON only:
{"title": "...", "summary": "...", "category": "...", "tags": ["..."], "reading_time": 1}

Rules:
- summary: 1-2 sentences, same language as the page content
- category: exactly one of: {categories}
- tags: 3-5 short lowercase tags
- reading_time: estimated minutes to read, integer >= 1

Page title: {title}
Page URL: {url}
Page content:
{content}`

// Analyze вызывает модель согласно настройкам и разбирает ответ.
// Любая ошибка (сеть, таймаут, мусорный ответ) возвращается вызывающему,
// который фиксирует её как данные, а не как отказ операции.
func (a *Analyzer) Analyze(ctx context.Context, in Input, cfg Settings) (*Analysis, error) {
	prompt := renderPrompt(cfg, in)

	var response string
	var err error

	switch cfg.Provider {
	case "anthropic":
		response, err = a.completeAnthropic(ctx, prompt, cfg)
	case "openai", "openrouter":
		response, err = a.completeOpenAI(ctx, prompt, cfg)
	default:
		return nil, fmt.Errorf("ai: unsupported provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	res, err := parseAnalysis(response)
	if err != nil {
		return nil, err
	}

	// Категория обязана входить в активный список; иначе — пустая строка,
	// и builder подставит категорию по умолчанию.
	res.Category = coerceCategory(res.Category, in.Categories)
	if res.ReadingTime < 1 {
		res.ReadingTime = 1
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res, nil
}

func renderPrompt(cfg Settings, in Input) string {
	tpl := cfg.PromptTemplate
	if tpl == "" {
		tpl = DefaultPromptTemplate
	}

	content := in.Content
	if cfg.MaxContentLen > 0 && len(content) > cfg.MaxContentLen {
		content = content[:cfg.MaxContentLen]
	}

	r := strings.NewReplacer(
		"{title}", in.Title,
		"{url}", in.URL,
		"{content}", content,
		"{categories}", strings.Join(in.Categories, ", "),
	)
	prompt := r.Replace(tpl)

	if s := strings.TrimSpace(cfg.UserInstruction); s != "" {
		prompt += "\n\nAdditional instruction: " + s
	}
	return prompt
}

func (a *Analyzer) completeAnthropic(ctx context.Context, prompt string, cfg Settings) (string, error) {
	if cfg.APIKey == "" {
		return "", fmt.Errorf("ai: anthropic api key not configured")
	}

	client := anthropic.NewClient(cfg.APIKey)

	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(cfg.Model),
		MaxTokens: 1000,
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{{Type: "text", Text: &prompt}},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("ai: empty response from anthropic")
	}
	return resp.Content[0].GetText(), nil
}

func (a *Analyzer) completeOpenAI(ctx context.Context, prompt string, cfg Settings) (string, error) {
	if cfg.APIKey == "" {
		return "", fmt.Errorf("ai: api key not configured for provider %s", cfg.Provider)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	} else if cfg.Provider == "openrouter" {
		clientCfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	client := openai.NewClientWithConfig(clientCfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cfg.Model,
		MaxTokens:   1000,
		Temperature: float32(cfg.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai: empty response from %s", cfg.Provider)
	}
	return resp.Choices[0].Message.Content, nil
}

// parseAnalysis разбирает ответ модели. Модели любят оборачивать JSON
// в код-блоки — срезаем их до парсинга.
func parseAnalysis(response string) (*Analysis, error) {
	s := strings.TrimSpace(response)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			s = s[i : j+1]
		}
	}

	var res Analysis
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, fmt.Errorf("ai: malformed response: %w", err)
	}
	if strings.TrimSpace(res.Summary) == "" {
		return nil, fmt.Errorf("ai: response missing summary")
	}
	return &res, nil
}

func coerceCategory(got string, allowed []string) string {
	for _, c := range allowed {
		if strings.EqualFold(strings.TrimSpace(got), c) {
			return c
		}
	}
	return ""
}
