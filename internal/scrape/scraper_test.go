package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
  <title>  Go &amp; Concurrency
  </title>
  <meta name="description" content="Channels explained">
  <style>body { color: red; }</style>
  <script>console.log("noise")</script>
</head>
<body>
  <h1>Go & Concurrency</h1>
  <p>Channels are typed conduits.</p>
</body>
</html>`

func TestScraper_Scrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// скрейпер представляется и просит HTML
		assert.Contains(t, r.Header.Get("User-Agent"), "LinkKeeper")
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		w.Write([]byte(testPage))
	}))
	defer srv.Close()

	s := NewScraper(5*time.Second, 50000)
	res, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	// заголовок нормализован: сущности декодированы, пробелы схлопнуты
	assert.Equal(t, "Go & Concurrency", res.Title)
	assert.Equal(t, "Channels explained", res.Description)

	// script/style выкинуты целиком, текст остался
	assert.Contains(t, res.Content, "Channels are typed conduits.")
	assert.NotContains(t, res.Content, "console.log")
	assert.NotContains(t, res.Content, "color: red")
}

func TestScraper_DescriptionAttributeOrder(t *testing.T) {
	// content= раньше name= — второй паттерн
	page := `<html><head><meta content="Reversed order" name="description"></head></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewScraper(5*time.Second, 50000)
	res, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Reversed order", res.Description)
}

func TestScraper_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewScraper(5*time.Second, 50000)
	_, err := s.Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestScraper_ContentCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>" + strings.Repeat("a", 10000) + "</body></html>"))
	}))
	defer srv.Close()

	s := NewScraper(5*time.Second, 100)
	res, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Content), 100)
}

func TestScraper_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	s := NewScraper(5*time.Second, 50000)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Scrape(ctx, srv.URL)
	assert.Error(t, err)
}

func TestScraper_MissingMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>just text</body></html>"))
	}))
	defer srv.Close()

	s := NewScraper(5*time.Second, 50000)
	res, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, res.Title)
	assert.Empty(t, res.Description)
	assert.Equal(t, "just text", res.Content)
}
