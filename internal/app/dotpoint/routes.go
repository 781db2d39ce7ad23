package dotpoint

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/auth"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/health"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/moduleresources"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/modules"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/products"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/resources"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/siteconfig"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/static"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/subscriptions"
	"github.com/magabrotheeeer/dotpoint/internal/http/handlers/users"
	"github.com/magabrotheeeer/dotpoint/internal/http/middlewarectx"
)

// ResourceService объединяет операции над ресурсами, их связями с модулями и файлами.
type ResourceService interface {
	resources.Service
	moduleresources.Service
	static.Opener
}

// Dependencies содержит всё, что нужно маршрутам.
type Dependencies struct {
	Tokens        middlewarectx.TokenParser
	Identifier    middlewarectx.Identifier
	Guard         middlewarectx.Guard
	Auth          auth.Service
	Users         users.Service
	Products      products.Service
	Modules       modules.Service
	Resources     ResourceService
	Subscriptions subscriptions.Service
	SiteConfig    siteconfig.Service
	DB            health.Pinger
	Metrics       prometheus.Gatherer
	MaxUploadSize int64
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Dependencies) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	r.Get("/healthz", health.New(logger, deps.DB).ServeHTTP)
	r.Get("/config", siteconfig.NewGet(logger, deps.SiteConfig).ServeHTTP)
	r.Post("/user/register", auth.NewRegister(logger, deps.Auth).ServeHTTP)
	r.Post("/user/login", auth.NewLogin(logger, deps.Auth).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(deps.Tokens, deps.Identifier, logger))

		r.Put("/user/profile", users.NewProfile(logger, deps.Users).ServeHTTP)
		r.Put("/user/password", users.NewPassword(logger, deps.Users).ServeHTTP)

		r.Get("/products", products.NewList(logger, deps.Products).ServeHTTP)
		r.With(middlewarectx.ProductAccess(deps.Guard, logger)).
			Get("/products/{productId}", products.NewGet(logger, deps.Products).ServeHTTP)

		r.Get("/modules", modules.NewList(logger, deps.Modules).ServeHTTP)
		r.With(middlewarectx.ModuleAccess(deps.Guard, logger)).
			Get("/modules/{moduleId}", modules.NewGet(logger, deps.Modules).ServeHTTP)
		r.With(middlewarectx.ModuleAccess(deps.Guard, logger)).
			Get("/resources/module/{moduleId}", resources.NewListByModule(logger, deps.Resources).ServeHTTP)

		r.With(middlewarectx.PreviewAccess(deps.Guard, logger)).
			Get("/static/*", static.New(logger, deps.Resources).ServeHTTP)

		// Только для администраторов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminOnly(logger))

			r.Get("/user", users.NewList(logger, deps.Users).ServeHTTP)

			r.Get("/products/all", products.NewListAll(logger, deps.Products).ServeHTTP)
			r.Post("/products", products.NewCreate(logger, deps.Products).ServeHTTP)
			r.Put("/products/{productId}", products.NewUpdate(logger, deps.Products).ServeHTTP)
			r.Delete("/products/{productId}", products.NewDelete(logger, deps.Products).ServeHTTP)

			r.Post("/modules", modules.NewCreate(logger, deps.Modules).ServeHTTP)
			r.Put("/modules/{moduleId}", modules.NewUpdate(logger, deps.Modules).ServeHTTP)
			r.Delete("/modules/{moduleId}", modules.NewDelete(logger, deps.Modules).ServeHTTP)

			r.Get("/resources", resources.NewList(logger, deps.Resources).ServeHTTP)
			r.Post("/resources", resources.NewUpload(logger, deps.Resources, deps.MaxUploadSize).ServeHTTP)
			r.Put("/resources/{resourceId}", resources.NewUpdate(logger, deps.Resources).ServeHTTP)
			r.Delete("/resources/{resourceId}", resources.NewDelete(logger, deps.Resources).ServeHTTP)

			r.Post("/module-resources", moduleresources.NewLink(logger, deps.Resources).ServeHTTP)
			r.Delete("/module-resources/{moduleId}/{resourceId}", moduleresources.NewUnlink(logger, deps.Resources).ServeHTTP)

			r.Post("/subscriptions", subscriptions.NewCreate(logger, deps.Subscriptions).ServeHTTP)
			r.Put("/subscriptions/{subscriptionId}", subscriptions.NewUpdate(logger, deps.Subscriptions).ServeHTTP)
			r.Get("/subscriptions/user/{userId}", subscriptions.NewListByUser(logger, deps.Subscriptions).ServeHTTP)
			r.Delete("/subscriptions/{userId}/{productId}", subscriptions.NewDelete(logger, deps.Subscriptions).ServeHTTP)

			r.Put("/config", siteconfig.NewUpdate(logger, deps.SiteConfig).ServeHTTP)
		})
	})
}
