// Package products реализует HTTP-обработчики каталога продуктов.
//
// Списки фильтруются по множеству недоступных продуктов пользователя.
// Доступ к отдельному продукту проверяется middleware ProductAccess
// до вызова обработчика.
package products

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

// Service описывает операции каталога над продуктами.
type Service interface {
	Catalog(ctx context.Context, ident access.Identity) (models.Catalog, error)
	FullCatalog(ctx context.Context) (models.Catalog, error)
	ProductDetails(ctx context.Context, product models.Product) (models.ProductWithModules, error)
	CreateProduct(ctx context.Context, req models.NewProduct) (models.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

func requestLogger(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// ListHandler обрабатывает GET /products.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый экземпляр ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, "handlers.products.list", r)

	ident, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		log.Error("identity not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	catalog, err := h.service.Catalog(r.Context(), ident)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(catalog))
}

// ListAllHandler обрабатывает GET /products/all: каталог без фильтрации.
type ListAllHandler struct {
	log     *slog.Logger
	service Service
}

// NewListAll создает новый экземпляр ListAllHandler.
func NewListAll(log *slog.Logger, service Service) *ListAllHandler {
	return &ListAllHandler{log: log, service: service}
}

func (h *ListAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, "handlers.products.listall", r)

	catalog, err := h.service.FullCatalog(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(catalog))
}

// GetHandler обрабатывает GET /products/{productId}.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает новый экземпляр GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, "handlers.products.get", r)

	product, ok := middlewarectx.ProductFrom(r.Context())
	if !ok {
		log.Error("product not found in context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	details, err := h.service.ProductDetails(r.Context(), product)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(details))
}

// CreateHandler обрабатывает POST /products.
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
	log := requestLogger(h.log, "handlers.products.create", r)

	var req models.NewProduct
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

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("product created", slog.Int64("product_id", product.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(product))
}

// UpdateHandler обрабатывает PUT /products/{productId}.
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
	log := requestLogger(h.log, "handlers.products.update", r)

	id, err := middlewarectx.URLParamInt64(r, "productId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid productId"))
		return
	}

	var patch models.ProductPatch
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

	product, err := h.service.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("product updated", slog.Int64("product_id", id))
	render.JSON(w, r, response.StatusOKWithData(product))
}

// DeleteHandler обрабатывает DELETE /products/{productId}.
type DeleteHandler struct {
	log     *slog.Logger
	service Service
}

// NewDelete создает новый экземпляр DeleteHandler.
func NewDelete(log *slog.Logger, service Service) *DeleteHandler {
	return &DeleteHandler{log: log, service: service}
}

func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, "handlers.products.delete", r)

	id, err := middlewarectx.URLParamInt64(r, "productId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid productId"))
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("product deleted", slog.Int64("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}
