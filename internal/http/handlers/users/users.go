// Package users реализует HTTP-обработчики для списка пользователей
// и изменения собственного профиля.
package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/dotpoint/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dotpoint/internal/http/response"
	"github.com/magabrotheeeer/dotpoint/internal/lib/sl"
	"github.com/magabrotheeeer/dotpoint/internal/models"
	services "github.com/magabrotheeeer/dotpoint/internal/services/user"
)

// Service описывает бизнес-логику работы с пользователями.
type Service interface {
	List(ctx context.Context) ([]models.UserWithProducts, error)
	EditProfile(ctx context.Context, userID int64, req models.ProfileUpdate) (models.User, error)
	ChangePassword(ctx context.Context, userID int64, req models.PasswordChange) error
}

// ListHandler обрабатывает GET /user.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый экземпляр ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.List(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("users listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.StatusOKWithData(users))
}

// ProfileHandler обрабатывает PUT /user/profile.
type ProfileHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewProfile создает новый экземпляр ProfileHandler.
func NewProfile(log *slog.Logger, service Service) *ProfileHandler {
	return &ProfileHandler{log: log, service: service, validate: validator.New()}
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ident, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		log.Error("identity not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.ProfileUpdate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.EditProfile(r.Context(), ident.SubjectID(), req)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("profile updated", slog.Int64("user_id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(user))
}

// PasswordHandler обрабатывает PUT /user/password.
type PasswordHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewPassword создает новый экземпляр PasswordHandler.
func NewPassword(log *slog.Logger, service Service) *PasswordHandler {
	return &PasswordHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP меняет пароль текущего пользователя. Неверный текущий пароль даёт 401.
func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.password"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ident, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		log.Error("identity not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.PasswordChange
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ChangePassword(r.Context(), ident.SubjectID(), req); err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			log.Info("wrong current password", slog.Int64("user_id", ident.SubjectID()))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error(services.ErrInvalidPassword.Error()))
			return
		}
		response.Fail(w, r, log, err)
		return
	}

	log.Info("password changed", slog.Int64("user_id", ident.SubjectID()))
	render.JSON(w, r, response.Response{Status: response.StatusOK})
}
