// Package dotpoint собирает HTTP-сервис доступа к контенту: хранилище,
// файловое хранилище, сервисы, проверки доступа и маршруты.
package dotpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/dotpoint/internal/access"
	"github.com/magabrotheeeer/dotpoint/internal/config"
	"github.com/magabrotheeeer/dotpoint/internal/filestore"
	"github.com/magabrotheeeer/dotpoint/internal/lib/jwt"
	"github.com/magabrotheeeer/dotpoint/internal/lib/sl"
	"github.com/magabrotheeeer/dotpoint/internal/migrations"
	authservice "github.com/magabrotheeeer/dotpoint/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/dotpoint/internal/services/catalog"
	resourceservice "github.com/magabrotheeeer/dotpoint/internal/services/resource"
	siteconfigservice "github.com/magabrotheeeer/dotpoint/internal/services/siteconfig"
	subscriptionservice "github.com/magabrotheeeer/dotpoint/internal/services/subscription"
	userservice "github.com/magabrotheeeer/dotpoint/internal/services/user"
	"github.com/magabrotheeeer/dotpoint/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App представляет собранное приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New подключается к базе, применяет миграции, готовит файловое хранилище,
// создаёт администратора из конфига и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.dotpoint.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.CheckDatabaseReady(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files, err := filestore.New(cfg.FileStorage)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if bucket, ok := files.(*filestore.MinIO); ok {
		if err = bucket.EnsureBucket(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("using minio file storage", slog.String("bucket", bucket.Bucket()))
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	catalogService := catalogservice.NewCatalogService(db)

	if cfg.BootstrapAdmin.Email != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.BootstrapAdmin.Email, cfg.BootstrapAdmin.Password)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if created {
			logger.Info("bootstrap admin created", slog.String("email", cfg.BootstrapAdmin.Email))
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Dependencies{
		Tokens:        jwtMaker,
		Identifier:    access.NewResolver(db),
		Guard:         access.NewGuard(db, access.NewMetrics(registry)),
		Auth:          authService,
		Users:         userservice.NewUserService(db),
		Products:      catalogService,
		Modules:       catalogService,
		Resources:     resourceservice.NewResourceService(db, files, logger),
		Subscriptions: subscriptionservice.NewSubscriptionService(db),
		SiteConfig:    siteconfigservice.NewSiteConfigService(db),
		DB:            db,
		Metrics:       registry,
		MaxUploadSize: cfg.MaxUploadSize,
	})

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
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if cerr := a.db.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
