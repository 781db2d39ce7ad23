// Package modules реализует HTTP-обработчики модулей каталога.
package modules

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/dotpoint/internal/access"
	"github.com/magabrotheeeer/dotpoint/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dotpoint/internal/http/response"
	"github.com/magabrotheeeer/dotpoint/internal/lib/sl"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// Service описывает операции каталога над модулями.
type Service interface {
	Modules(ctx context.Context, ident access.Identity) ([]models.ModuleDetails, error)
	ModuleDetails(ctx context.Context, module models.Module) (models.ModuleDetails, error)
	CreateModule(ctx context.Context, req models.NewModule) (models.Module, error)
	UpdateModule(ctx context.Context, id int64, patch models.ModulePatch) (models.Module, error)
	DeleteModule(ctx context.Context, id int64) error
}

// ListHandler обрабатывает GET /modules.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый экземпляр ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.modules.list"

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

	modules, err := h.service.Modules(r.Context(), ident)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(modules))
}

// GetHandler обрабатывает GET /modules/{moduleId}. Модуль кладёт в контекст ModuleAccess.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает новый экземпляр GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.modules.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	module, ok := middlewarectx.ModuleFrom(r.Context())
	if !ok {
		log.Error("module not found in context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	details, err := h.service.ModuleDetails(r.Context(), module)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(details))
}

// CreateHandler обрабатывает POST /modules.
type CreateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreate создает новый экземпляр CreateHandler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{log: log, service: service, validate: validator.New()}
}

func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.modules.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.NewModule
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

	module, err := h.service.CreateModule(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("module created", slog.Int64("module_id", module.ID), slog.Int64("product_id", module.ProductID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(module))
}

// UpdateHandler обрабатывает PUT /modules/{moduleId}.
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
	const op = "handlers.modules.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := middlewarectx.URLParamInt64(r, "moduleId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid moduleId"))
		return
	}

	var patch models.ModulePatch
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(patch); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	module, err := h.service.UpdateModule(r.Context(), id, patch)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(module))
}

// DeleteHandler обрабатывает DELETE /modules/{moduleId}.
type DeleteHandler struct {
	log     *slog.Logger
	service Service
}

// NewDelete создает новый экземпляр DeleteHandler.
func NewDelete(log *slog.Logger, service Service) *DeleteHandler {
	return &DeleteHandler{log: log, service: service}
}

func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.modules.delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := middlewarectx.URLParamInt64(r, "moduleId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid moduleId"))
		return
	}

	if err := h.service.DeleteModule(r.Context(), id); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("module deleted", slog.Int64("module_id", id))
	w.WriteHeader(http.StatusNoContent)
}
