package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dotpoint/internal/access"
	"github.com/magabrotheeeer/dotpoint/internal/http/response"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// Guard проверяет доступ к отдельным сущностям.
type Guard interface {
	Product(ctx context.Context, ident access.Identity, productID int64) (models.Product, error)
	Module(ctx context.Context, ident access.Identity, moduleID int64) (models.Module, error)
	Preview(ctx context.Context, ident access.Identity, path string) error
}

// URLParamInt64 читает числовой параметр маршрута.
func URLParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// ProductAccess проверяет доступ к продукту из параметра productId
// и кладёт найденный продукт в контекст.
func ProductAccess(guard Guard, log *slog.Logger) func(http.Handler) http.Handler {
	return entityAccess(log, "middlewarectx.ProductAccess", "productId", ProductKey,
		func(ctx context.Context, ident access.Identity, id int64) (any, error) {
			return guard.Product(ctx, ident, id)
		})
}

// ModuleAccess проверяет доступ к модулю из параметра moduleId
// и кладёт найденный модуль в контекст.
func ModuleAccess(guard Guard, log *slog.Logger) func(http.Handler) http.Handler {
	return entityAccess(log, "middlewarectx.ModuleAccess", "moduleId", ModuleKey,
		func(ctx context.Context, ident access.Identity, id int64) (any, error) {
			return guard.Module(ctx, ident, id)
		})
}

func entityAccess(
	log *slog.Logger,
	op, param string,
	key Key,
	check func(ctx context.Context, ident access.Identity, id int64) (any, error),
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			ident, ok := IdentityFrom(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			id, err := URLParamInt64(r, param)
			if err != nil {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid "+param))
				return
			}

			entity, err := check(r.Context(), ident, id)
			if err != nil {
				response.Fail(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, entity)))
		})
	}
}

// PreviewAccess проверяет, что все продукты, которым принадлежит файл
// по пути запроса, доступны пользователю.
func PreviewAccess(guard Guard, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.PreviewAccess"

			ident, ok := IdentityFrom(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if err := guard.Preview(r.Context(), ident, r.URL.Path); err != nil {
				response.Fail(w, r, log.With(
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
