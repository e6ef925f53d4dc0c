package scrape

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Result — что скрейпер извлёк из страницы.
type Result struct {
	Title       string
	Description string
	Content     string // усечённый текст страницы для AI-анализа
}

// Scraper забирает страницу по URL и извлекает заголовок и описание.
type Scraper struct {
	client *http.Client

	// MaxContentLen ограничивает размер контента, передаваемого в AI.
	MaxContentLen int
}

// NewScraper создаёт скрейпер с таймаутом на весь запрос.
func NewScraper(timeout time.Duration, maxContentLen int) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxContentLen <= 0 {
		maxContentLen = 50000
	}
	return &Scraper{
		client:        &http.Client{Timeout: timeout},
		MaxContentLen: maxContentLen,
	}
}

var (
	titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descRe  = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]+content=["']([^"']*)["']`)
	descRe2 = regexp.MustCompile(`(?is)<meta[^>]+content=["']([^"']*)["'][^>]+name=["']description["']`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Scrape скачивает страницу и возвращает заголовок, описание и текст.
func (s *Scraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "LinkKeeper/1.0 (+bookmark scraper)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape: status %d for %s", resp.StatusCode, targetURL)
	}

	// Читаем с запасом над лимитом контента, чтобы не тянуть гигантские страницы.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.MaxContentLen)*4))
	if err != nil {
		return nil, err
	}

	page := string(body)
	res := &Result{
		Title:       extractFirst(titleRe, page),
		Description: extractDescription(page),
	}

	content := stripTags(page)
	if len(content) > s.MaxContentLen {
		content = content[:s.MaxContentLen]
	}
	res.Content = content

	return res, nil
}

func extractDescription(page string) string {
	if d := extractFirst(descRe, page); d != "" {
		return d
	}
	return extractFirst(descRe2, page)
}

func extractFirst(re *regexp.Regexp, page string) string {
	m := re.FindStringSubmatch(page)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(spaceRe.ReplaceAllString(m[1], " ")))
}

func stripTags(page string) string {
	// Выкидываем script/style целиком, затем остальные теги.
	page = scriptRe.ReplaceAllString(page, " ")
	page = tagRe.ReplaceAllString(page, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(html.UnescapeString(page), " "))
}
