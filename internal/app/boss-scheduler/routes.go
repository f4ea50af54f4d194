package bossscheduler

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mallangdev/boss-scheduler/internal/blob"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/auth/login"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/auth/register"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/profile/update"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/profile/upload"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/schedule/create"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/schedule/list"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/schedule/participate"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/schedule/read"
	"github.com/mallangdev/boss-scheduler/internal/http/handlers/schedule/remove"
	"github.com/mallangdev/boss-scheduler/internal/http/middlewarectx"
	authservice "github.com/mallangdev/boss-scheduler/internal/services/auth"
	schedservice "github.com/mallangdev/boss-scheduler/internal/services/schedule"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, scheduleService *schedservice.ScheduleService, authService *authservice.AuthService, blobs *blob.Store) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Расписания: идентичность участника передаётся в теле запроса,
		// отсутствие userId обрабатывают сами обработчики
		r.Post("/schedules", create.New(logger, scheduleService).ServeHTTP)
		r.Get("/schedules", list.New(logger, scheduleService).ServeHTTP)
		r.Get("/schedules/{id}", read.New(logger, scheduleService).ServeHTTP)
		r.Patch("/schedules/{id}", participate.New(logger, scheduleService).ServeHTTP)
		r.Delete("/schedules/{id}", remove.New(logger, scheduleService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Patch("/profile", update.New(logger, authService).ServeHTTP)
			r.Post("/profile/image", upload.New(logger, blobs, authService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
