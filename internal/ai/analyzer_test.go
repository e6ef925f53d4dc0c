package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	// чистый JSON
	res, err := parseAnalysis(`{"title":"T","summary":"S","category":"Tech","tags":["go"],"reading_time":3}`)
	require.NoError(t, err)
	assert.Equal(t, "T", res.Title)
	assert.Equal(t, 3, res.ReadingTime)

	// модель обернула JSON в код-блок и болтовню
	res, err = parseAnalysis("Sure! Here is the result:\n```json\n{\"summary\":\"S\",\"tags\":[]}\n```\nHope it helps.")
	require.NoError(t, err)
	assert.Equal(t, "S", res.Summary)

	// мусор без JSON
	_, err = parseAnalysis("I cannot analyze this page.")
	assert.Error(t, err)

	// валидный JSON без summary бесполезен
	_, err = parseAnalysis(`{"title":"T","summary":"  "}`)
	assert.Error(t, err)
}

func TestRenderPrompt(t *testing.T) {
	cfg := Settings{PromptTemplate: "T={title} U={url} C={content} CATS={categories}"}
	in := Input{
		URL:        "https://x.test/a",
		Title:      "Title",
		Content:    "body",
		Categories: []string{"Tech", "Design"},
	}

	got := renderPrompt(cfg, in)
	assert.Equal(t, "T=Title U=https://x.test/a C=body CATS=Tech, Design", got)

	// пустой шаблон падает во встроенный
	cfg.PromptTemplate = ""
	got = renderPrompt(cfg, in)
	assert.Contains(t, got, "Page URL: https://x.test/a")
	assert.Contains(t, got, "Tech, Design")

	// контент усечён до лимита
	cfg.PromptTemplate = "{content}"
	cfg.MaxContentLen = 4
	in.Content = "0123456789"
	assert.Equal(t, "0123", renderPrompt(cfg, in))

	// свободная инструкция оператора дописывается суффиксом
	cfg.MaxContentLen = 0
	cfg.UserInstruction = "always answer in English"
	got = renderPrompt(cfg, in)
	assert.True(t, strings.HasSuffix(got, "Additional instruction: always answer in English"))
}

func TestCoerceCategory(t *testing.T) {
	allowed := []string{"Technology", "Design"}

	// регистронезависимое совпадение нормализуется к каноническому имени
	assert.Equal(t, "Technology", coerceCategory("technology", allowed))
	assert.Equal(t, "Design", coerceCategory("  design ", allowed))

	// выдуманная моделью категория отбрасывается
	assert.Equal(t, "", coerceCategory("Blockchain", allowed))
	assert.Equal(t, "", coerceCategory("", allowed))
}

func TestAnalyze_UnsupportedProvider(t *testing.T) {
	a := NewAnalyzer()

	_, err := a.Analyze(context.Background(), Input{}, Settings{Provider: "llamacpp"})
	assert.Error(t, err)
}

func TestAnalyze_MissingAPIKey(t *testing.T) {
	a := NewAnalyzer()

	for _, provider := range []string{"openai", "openrouter", "anthropic"} {
		_, err := a.Analyze(context.Background(), Input{}, Settings{Provider: provider})
		assert.Error(t, err, "provider %s", provider)
	}
}
