// Package moduleresources реализует привязку ресурсов к модулям.
package moduleresources

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/dotpoint/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dotpoint/internal/http/response"
	"github.com/magabrotheeeer/dotpoint/internal/lib/sl"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// Service описывает операции над связями модуль–ресурс.
type Service interface {
	Link(ctx context.Context, link models.ModuleResource) error
	Unlink(ctx context.Context, link models.ModuleResource) error
}

// LinkHandler обрабатывает POST /module-resources. Повторная привязка не ошибка.
type LinkHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewLink создает новый экземпляр LinkHandler.
func NewLink(log *slog.Logger, service Service) *LinkHandler {
	return &LinkHandler{log: log, service: service, validate: validator.New()}
}

func (h *LinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moduleresources.link"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var link models.ModuleResource
	if err := render.DecodeJSON(r.Body, &link); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(link); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Link(r.Context(), link); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("resource linked", slog.Int64("module_id", link.ModuleID), slog.Int64("resource_id", link.ResourceID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(link))
}

// UnlinkHandler обрабатывает DELETE /module-resources/{moduleId}/{resourceId}.
type UnlinkHandler struct {
	log     *slog.Logger
	service Service
}

// NewUnlink создает новый экземпляр UnlinkHandler.
func NewUnlink(log *slog.Logger, service Service) *UnlinkHandler {
	return &UnlinkHandler{log: log, service: service}
}

func (h *UnlinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moduleresources.unlink"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	moduleID, err := middlewarectx.URLParamInt64(r, "moduleId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid moduleId"))
		return
	}
	resourceID, err := middlewarectx.URLParamInt64(r, "resourceId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid resourceId"))
		return
	}

	link := models.ModuleResource{ModuleID: moduleID, ResourceID: resourceID}
	if err := h.service.Unlink(r.Context(), link); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("resource unlinked", slog.Int64("module_id", moduleID), slog.Int64("resource_id", resourceID))
	w.WriteHeader(http.StatusNoContent)
}
