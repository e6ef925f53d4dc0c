package service

import (
	"LinkKeeper/internal/ai"
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
	"LinkKeeper/internal/scrape"
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов
// сервисного слоя. Каждый тест получает отдельную базу.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// fakeScraper — управляемая подмена скрейпера.
type fakeScraper struct {
	res *scrape.Result
	err error
}

func (f *fakeScraper) Scrape(_ context.Context, _ string) (*scrape.Result, error) {
	return f.res, f.err
}

// fakeAnalyzer — управляемая подмена AI-анализатора; запоминает вход.
type fakeAnalyzer struct {
	analysis *ai.Analysis
	err      error
	gotInput ai.Input
}

func (f *fakeAnalyzer) Analyze(_ context.Context, in ai.Input, _ ai.Settings) (*ai.Analysis, error) {
	f.gotInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

// testEnv — собранный сервисный слой поверх in-memory базы.
type testEnv struct {
	db         *gorm.DB
	links      *LinkService
	settings   *SettingsService
	categories *CategoryService
	tokens     *TokenService
	activity   *ActivityService
	searchRepo repo.SearchRepository
	scraper    *fakeScraper
	analyzer   *fakeAnalyzer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	logger := zap.NewNop().Sugar()
	ctx := context.Background()

	settings := NewSettingsService(repo.NewSettingRepository(db), logger)
	if err := settings.Seed(ctx); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	activity := NewActivityService(repo.NewActivityRepository(db), logger)

	categories := NewCategoryService(repo.NewCategoryRepository(db), activity, logger)
	if err := categories.Seed(ctx); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}

	searchRepo := repo.NewSearchRepository(db)
	search := NewSearchService(searchRepo, logger)

	scraper := &fakeScraper{res: &scrape.Result{Title: "Scraped Title", Description: "scraped description", Content: "page content"}}
	analyzer := &fakeAnalyzer{analysis: okAnalysis()}

	links := NewLinkService(
		repo.NewLinkRepository(db),
		search, activity, settings, categories,
		scraper, analyzer, logger,
	)

	tokens := NewTokenService(repo.NewTokenRepository(db), activity, logger)

	return &testEnv{
		db:         db,
		links:      links,
		settings:   settings,
		categories: categories,
		tokens:     tokens,
		activity:   activity,
		searchRepo: searchRepo,
		scraper:    scraper,
		analyzer:   analyzer,
	}
}

// indexIDs — текущее содержимое поискового индекса.
func (e *testEnv) indexIDs(t *testing.T) []uint {
	t.Helper()
	ids, err := e.searchRepo.ListIDs(context.Background())
	if err != nil {
		t.Fatalf("failed to list index ids: %v", err)
	}
	return ids
}

var testMeta = Meta{Actor: "token:ci", IP: "10.0.0.1"}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// lastActivity — последняя запись журнала с данным действием.
func (e *testEnv) lastActivity(t *testing.T, action string) *model.ActivityLog {
	t.Helper()
	rows, _, err := e.activity.List(context.Background(), repo.ActivityFilter{Action: action})
	if err != nil {
		t.Fatalf("failed to list activity: %v", err)
	}
	if len(rows) == 0 {
		return nil
	}
	return &rows[0]
}
