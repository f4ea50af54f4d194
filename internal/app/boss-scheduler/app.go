// Package bossscheduler собирает приложение: подключения к Firestore, redis
// и blob-хранилищу, сервисы бизнес-логики и HTTP-сервер с маршрутами.
package bossscheduler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/mallangdev/boss-scheduler/internal/blob"
	"github.com/mallangdev/boss-scheduler/internal/cache"
	"github.com/mallangdev/boss-scheduler/internal/config"
	"github.com/mallangdev/boss-scheduler/internal/lib/jwt"
	authservice "github.com/mallangdev/boss-scheduler/internal/services/auth"
	schedservice "github.com/mallangdev/boss-scheduler/internal/services/schedule"
	storage "github.com/mallangdev/boss-scheduler/internal/storage/firestore"
)

// App держит HTTP-сервер и внешние подключения приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	blobs  *blob.Store
}

// New создаёт приложение из конфигурации: инициализирует хранилища,
// сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.FirestoreProject)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.New(ctx, cfg.BlobBucket)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker, cacheRedis, logger)
	scheduleService := schedservice.NewScheduleService(db, db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, scheduleService, authService, blobs)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		blobs:  blobs,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close firestore client", slog.Any("err", err))
		}
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis client", slog.Any("err", err))
		}
		if err := a.blobs.Close(); err != nil {
			a.logger.Error("failed to close blob client", slog.Any("err", err))
		}
		return nil
	}
}
