package service

import (
	"LinkKeeper/internal/ai"
	"LinkKeeper/internal/model"
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

// ScrapedContent — то, что вернул скрейпер (может быть пустым при отказе).
type ScrapedContent struct {
	Title       string
	Description string
}

// BuildParams — вход чистого построителя записи ссылки.
type BuildParams struct {
	URL     string
	Domain  string
	Scraped ScrapedContent

	// Analysis == nil означает отказ AI; AIError хранит причину.
	Analysis *ai.Analysis
	AIError  string

	SkipConfirm    bool
	PresetCategory string
	PresetTags     []string

	// ForceUserFields — режим прямого ингеста: всегда публикует
	// с минимальным набором пользовательских полей.
	ForceUserFields bool

	DefaultCategory string
	Now             time.Time
}

// BuildLink — чистая функция: превращает результаты скрейпа и анализа в поля
// персистентной ссылки. Без I/O. Поля AI* заполняются дословно из анализа
// (или его фолбэка) независимо от режима подтверждения — это след того,
// что выдала машина; поля User* — то, что реально публикуется.
func BuildLink(p BuildParams) model.Link {
	analysis := p.Analysis
	failed := analysis == nil
	if failed {
		analysis = fallbackAnalysis(p.Scraped, p.DefaultCategory)
	}
	if analysis.Category == "" {
		analysis.Category = p.DefaultCategory
	}
	if analysis.ReadingTime < 1 {
		analysis.ReadingTime = 1
	}

	link := model.Link{
		URL:    p.URL,
		Domain: p.Domain,

		OriginalDescription: p.Scraped.Description,

		AISummary:        analysis.Summary,
		AICategory:       analysis.Category,
		AITags:           encodeTags(analysis.Tags),
		AIReadingTime:    analysis.ReadingTime,
		AIAnalysisFailed: failed,
	}
	if failed && p.AIError != "" {
		e := p.AIError
		link.AIError = &e
	}

	// Заголовок: AI → скрейп → пусто.
	switch {
	case analysis.Title != "":
		link.Title = analysis.Title
	default:
		link.Title = p.Scraped.Title
	}

	now := p.Now
	switch {
	case p.ForceUserFields:
		// Прямой ингест: публикуем сразу, user-поля — только из пресетов.
		if p.PresetCategory != "" {
			c := p.PresetCategory
			link.UserCategory = &c
		}
		if len(p.PresetTags) > 0 {
			t := encodeTags(p.PresetTags)
			link.UserTags = &t
		}
		link.Status = model.StatusPublished
		link.PublishedAt = &now

	case p.SkipConfirm:
		// Авто-подтверждение: user-поля из AI-выхода, пресеты приоритетнее.
		d := analysis.Summary
		link.UserDescription = &d
		c := analysis.Category
		if p.PresetCategory != "" {
			c = p.PresetCategory
		}
		link.UserCategory = &c
		tags := analysis.Tags
		if len(p.PresetTags) > 0 {
			tags = p.PresetTags
		}
		t := encodeTags(tags)
		link.UserTags = &t
		link.Status = model.StatusPublished
		link.PublishedAt = &now

	default:
		// Обычный поток: ждём ревью. Явно переданные пресеты сохраняем
		// даже в pending, остальные user-поля пустые.
		if p.PresetCategory != "" {
			c := p.PresetCategory
			link.UserCategory = &c
		}
		if len(p.PresetTags) > 0 {
			t := encodeTags(p.PresetTags)
			link.UserTags = &t
		}
		link.Status = model.StatusPending
	}

	return link
}

// fallbackSummary — фиксированная заглушка, когда и AI отказал,
// и скрейп не дал описания.
const fallbackSummary = "No description available"

// fallbackAnalysis выводит замену AI-выхода из скрейпнутого контента.
// Ссылка всё равно должна попасть в ревью с заполненными AI-полями.
func fallbackAnalysis(sc ScrapedContent, defaultCategory string) *ai.Analysis {
	summary := strings.TrimSpace(sc.Description)
	if summary == "" {
		summary = fallbackSummary
	}
	return &ai.Analysis{
		Summary:     summary,
		Category:    defaultCategory,
		Tags:        fallbackTags(sc.Title),
		ReadingTime: 1,
	}
}

// fallbackTags берёт до трёх значимых слов из заголовка страницы.
func fallbackTags(title string) []string {
	words := strings.FieldsFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tags := make([]string, 0, 3)
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		tags = append(tags, strings.ToLower(w))
		if len(tags) == 3 {
			break
		}
	}
	return tags
}

// encodeTags сериализует теги в JSON-массив; nil схлопывается в "[]".
func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeTags — обратная операция; битое значение читается как пустой список.
func decodeTags(s string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
