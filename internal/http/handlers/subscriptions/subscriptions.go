// Package subscriptions реализует административные HTTP-обработчики подписок.
package subscriptions

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
	services "github.com/magabrotheeeer/dotpoint/internal/services/subscription"
)

// Service описывает операции над подписками.
type Service interface {
	Create(ctx context.Context, req models.DummySubscription) (models.Subscription, error)
	Update(ctx context.Context, id int64, req models.SubscriptionUpdate) (models.Subscription, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Subscription, error)
	Delete(ctx context.Context, userID, productID int64) error
}

// fail дополняет response.Fail ошибкой формата даты.
func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	if errors.Is(err, services.ErrInvalidDate) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(services.ErrInvalidDate.Error()))
		return
	}
	response.Fail(w, r, log, err)
}

// CreateHandler обрабатывает POST /subscriptions.
type CreateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreate создает новый экземпляр CreateHandler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP выдаёт пользователю подписку на продукт.
// Повторная подписка на ту же пару даёт 400 "duplicate subscription not allowed".
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscription
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, err := h.service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, log, err)
		return
	}

	log.Info("subscription created", slog.Int64("subscription_id", sub.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(sub.View()))
}

// UpdateHandler обрабатывает PUT /subscriptions/{subscriptionId}.
type UpdateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewUpdate создает новый экземпляр UpdateHandler.
func NewUpdate(log *slog.Logger, service Service) *UpdateHandler {
	return &UpdateHandler{log: log, service: service, validate: validator.New()}
}

func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := middlewarectx.URLParamInt64(r, "subscriptionId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid subscriptionId"))
		return
	}

	var req models.SubscriptionUpdate
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

	sub, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		fail(w, r, log, err)
		return
	}

	log.Info("subscription updated", slog.Int64("subscription_id", id))
	render.JSON(w, r, response.StatusOKWithData(sub.View()))
}

// ListByUserHandler обрабатывает GET /subscriptions/user/{userId}.
type ListByUserHandler struct {
	log     *slog.Logger
	service Service
}

// NewListByUser создает новый экземпляр ListByUserHandler.
func NewListByUser(log *slog.Logger, service Service) *ListByUserHandler {
	return &ListByUserHandler{log: log, service: service}
}

func (h *ListByUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.listbyuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := middlewarectx.URLParamInt64(r, "userId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid userId"))
		return
	}

	subs, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		fail(w, r, log, err)
		return
	}

	views := make([]models.SubscriptionView, 0, len(subs))
	for _, s := range subs {
		views = append(views, s.View())
	}
	render.JSON(w, r, response.StatusOKWithData(views))
}

// DeleteHandler обрабатывает DELETE /subscriptions/{userId}/{productId}.
type DeleteHandler struct {
	log     *slog.Logger
	service Service
}

// NewDelete создает новый экземпляр DeleteHandler.
func NewDelete(log *slog.Logger, service Service) *DeleteHandler {
	return &DeleteHandler{log: log, service: service}
}

func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := middlewarectx.URLParamInt64(r, "userId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid userId"))
		return
	}
	productID, err := middlewarectx.URLParamInt64(r, "productId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid productId"))
		return
	}

	if err := h.service.Delete(r.Context(), userID, productID); err != nil {
		fail(w, r, log, err)
		return
	}

	log.Info("subscription deleted", slog.Int64("user_id", userID), slog.Int64("product_id", productID))
	w.WriteHeader(http.StatusNoContent)
}
