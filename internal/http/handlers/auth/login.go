package auth

import (
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
)

// LoginHandler обрабатывает POST /user/login.
type LoginHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewLogin создает новый экземпляр LoginHandler.
func NewLogin(log *slog.Logger, service Service) *LoginHandler {
	return &LoginHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP проверяет учетные данные и возвращает пользователя с токеном.
// Неверный email или пароль дают 401 с одинаковым сообщением.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Credentials
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Info("login failed", slog.String("email", req.Email))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error(services.ErrInvalidCredentials.Error()))
			return
		}
		response.Fail(w, r, log, err)
		return
	}

	log.Info("login success", slog.Int64("user_id", session.ID))
	render.JSON(w, r, response.StatusOKWithData(session))
}
