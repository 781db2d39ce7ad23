// Package auth реализует HTTP-обработчики регистрации и входа пользователей.
//
// Регистрация всегда создаёт пользователя с ролью USER. Вход по email и паролю
// возвращает данные пользователя и JWT токен доступа.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/dotpoint/internal/http/response"
	"github.com/magabrotheeeer/dotpoint/internal/lib/sl"
	"github.com/magabrotheeeer/dotpoint/internal/models"
	services "github.com/magabrotheeeer/dotpoint/internal/services/auth"
	"github.com/magabrotheeeer/dotpoint/internal/storage"
)

// Service описывает бизнес-логику аутентификации.
type Service interface {
	Register(ctx context.Context, req models.NewUser) (models.User, error)
	Login(ctx context.Context, email, password string) (services.Session, error)
}

// RegisterHandler обрабатывает POST /user/register.
type RegisterHandler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// NewRegister создает новый экземпляр RegisterHandler.
func NewRegister(log *slog.Logger, service Service) *RegisterHandler {
	return &RegisterHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.NewUser
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			log.Info("email already registered", slog.String("email", req.Email))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("user with this email already exists"))
			return
		}
		response.Fail(w, r, log, err)
		return
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(user))
}
