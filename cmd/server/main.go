package main

import (
	"LinkKeeper/internal/ai"
	"LinkKeeper/internal/config"
	"LinkKeeper/internal/handlers"
	"LinkKeeper/internal/middleware"
	"LinkKeeper/internal/repo"
	"LinkKeeper/internal/scrape"
	"LinkKeeper/internal/service"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar)
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx := context.Background()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// Repositories
	linkRepo := repo.NewLinkRepository(gormDB)
	categoryRepo := repo.NewCategoryRepository(gormDB)
	tokenRepo := repo.NewTokenRepository(gormDB)
	settingRepo := repo.NewSettingRepository(gormDB)
	activityRepo := repo.NewActivityRepository(gormDB)
	searchRepo := repo.NewSearchRepository(gormDB)

	// Services
	activityService := service.NewActivityService(activityRepo, sugar)
	settingsService := service.NewSettingsService(settingRepo, sugar)
	searchService := service.NewSearchService(searchRepo, sugar)
	tokenService := service.NewTokenService(tokenRepo, activityService, sugar)
	categoryService := service.NewCategoryService(categoryRepo, activityService, sugar)
	authService := service.NewAuthService(cfg.AuthSecret, cfg.AdminPassword, activityService, sugar)

	// Первичный посев: настройки и системные рубрики. Идемпотентно.
	if err := settingsService.Seed(ctx); err != nil {
		sugar.Fatalw("failed to seed settings", "error", err)
	}
	if err := categoryService.Seed(ctx); err != nil {
		sugar.Fatalw("failed to seed categories", "error", err)
	}

	// Бутстрап-токен первого запуска: значение показывается один раз.
	if value, created, err := tokenService.Bootstrap(ctx); err != nil {
		sugar.Fatalw("failed to bootstrap api token", "error", err)
	} else if created {
		sugar.Infow("created bootstrap api token, store it now — it will not be shown again",
			"token", value,
		)
	}

	scraper := scrape.NewScraper(
		time.Duration(settingsService.Int(ctx, service.KeyScrapeTimeoutSeconds))*time.Second,
		settingsService.Int(ctx, service.KeyScrapeMaxContentLen),
	)
	analyzer := ai.NewAnalyzer()

	linkService := service.NewLinkService(
		linkRepo,
		searchService,
		activityService,
		settingsService,
		categoryService,
		scraper,
		analyzer,
		sugar,
	)

	h := handlers.NewHandler(
		linkService,
		categoryService,
		settingsService,
		tokenService,
		activityService,
		authService,
		sugar,
		cfg,
	)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
