package handlers

import (
	"LinkKeeper/internal/config"
	"LinkKeeper/internal/middleware"
	"LinkKeeper/internal/service"
	"context"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	linkService *service.LinkService,
	categoryService *service.CategoryService,
	settingsService *service.SettingsService,
	tokenService *service.TokenService,
	activityService *service.ActivityService,
	authService *service.AuthService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(tokenService, authService, cfg.TrustProxy))

	// Handlers
	linkHandler := NewLinkHandler(linkService, logger)
	categoryHandler := NewCategoryHandler(categoryService, logger)
	settingsHandler := NewSettingsHandler(settingsService, activityService, logger)
	tokenHandler := NewTokenHandler(tokenService, logger)
	activityHandler := NewActivityHandler(activityService, logger)
	authHandler := NewAuthHandler(authService, logger)

	// Публичные ручки под rate limit
	rl := middleware.RateLimit(middleware.RateLimitConfig{
		Burst:        settingsService.Int(context.Background(), service.KeyRateLimitBurst),
		RefillPerMin: settingsService.Int(context.Background(), service.KeyRateLimitRPM),
		TrustProxy:   cfg.TrustProxy,
	})
	r.Group(func(r chi.Router) {
		r.Use(rl)
		r.Post("/api/auth/login", authHandler.Login)
		r.Get("/api/links", linkHandler.List)
		r.Get("/api/categories", categoryHandler.List)
	})

	// Привилегированные ручки: bearer-токен или админская JWT-сессия
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/api/links", linkHandler.Add)
		r.Get("/api/links/pending", linkHandler.ListPending)
		r.Get("/api/links/pending/{id}", linkHandler.GetPending)
		r.Post("/api/links/{id}/confirm", linkHandler.Confirm)
		r.Put("/api/links/{id}", linkHandler.Update)
		r.Delete("/api/links/{id}", linkHandler.Delete)
		r.Post("/api/links/{id}/restore", linkHandler.Restore)
		r.Post("/api/links/batch", linkHandler.Batch)
		r.Post("/api/search/rebuild", linkHandler.RebuildIndex)

		r.Post("/api/categories", categoryHandler.Create)
		r.Put("/api/categories/{id}", categoryHandler.Update)
		r.Delete("/api/categories/{id}", categoryHandler.Delete)
		r.Post("/api/categories/reorder", categoryHandler.Reorder)

		r.Get("/api/settings", settingsHandler.GetAll)
		r.Put("/api/settings", settingsHandler.Update)

		r.Get("/api/tokens", tokenHandler.List)
		r.Post("/api/tokens", tokenHandler.Create)
		r.Post("/api/tokens/{id}/revoke", tokenHandler.Revoke)

		r.Get("/api/activity", activityHandler.List)
	})

	return &Handler{Router: r}
}
