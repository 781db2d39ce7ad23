// Package middlewarectx содержит HTTP middleware аутентификации и проверки доступа.
//
// JWTMiddleware проверяет JWT в заголовке Authorization, вычисляет множество
// недоступных продуктов и кладёт access.Identity в контекст запроса.
// Остальные middleware читают эту личность и решают, пропускать ли запрос дальше.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dotpoint/internal/access"
	"github.com/magabrotheeeer/dotpoint/internal/http/response"
	"github.com/magabrotheeeer/dotpoint/internal/lib/jwt"
	"github.com/magabrotheeeer/dotpoint/internal/lib/sl"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// TokenParser разбирает и проверяет токен доступа.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// Identifier строит личность запроса по пользователю и роли.
type Identifier interface {
	Identify(ctx context.Context, userID int64, role models.Role) (access.Identity, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Отсутствующий или невалидный токен даёт 401, неизвестный user_type даёт 403,
// ошибка при вычислении доступов даёт 500.
func JWTMiddleware(parser TokenParser, identifier Identifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			role, err := models.ParseRole(claims.UserType)
			if err != nil {
				log.Warn("token carries unknown user type", slog.Int64("user_id", claims.UserID), sl.Err(err))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("unsupported user type"))
				return
			}

			ident, err := identifier.Identify(r.Context(), claims.UserID, role)
			if err != nil {
				if errors.Is(err, models.ErrUnknownRole) {
					render.Status(r, http.StatusForbidden)
					render.JSON(w, r, response.Error("unsupported user type"))
					return
				}
				log.Error("failed to resolve user access", slog.Int64("user_id", claims.UserID), sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(response.MsgInternal))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// AdminOnly пропускает только администраторов. Запрос без личности даёт 401.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFrom(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if !ident.IsAdmin() {
				log.Info("admin route denied",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.Int64("user_id", ident.SubjectID()),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
