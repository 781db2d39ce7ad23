// Package resources реализует HTTP-обработчики ресурсов: загрузку файлов,
// список, переименование и удаление.
package resources

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
	services "github.com/magabrotheeeer/dotpoint/internal/services/resource"
)

// multipartMemory задаёт, сколько байт формы держать в памяти.
const multipartMemory = 32 << 20

// Service описывает операции над ресурсами.
type Service interface {
	List(ctx context.Context) ([]models.Resource, error)
	ListByModule(ctx context.Context, moduleID int64) ([]models.Resource, error)
	Upload(ctx context.Context, up services.Upload) (models.Resource, error)
	UpdateDisplayName(ctx context.Context, id int64, displayName string) (models.Resource, error)
	Delete(ctx context.Context, id int64) error
}

// ListHandler обрабатывает GET /resources.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый экземпляр ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resources.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	resources, err := h.service.List(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(resources))
}

// ListByModuleHandler обрабатывает GET /resources/module/{moduleId}.
// Доступ к модулю уже проверен ModuleAccess.
type ListByModuleHandler struct {
	log     *slog.Logger
	service Service
}

// NewListByModule создает новый экземпляр ListByModuleHandler.
func NewListByModule(log *slog.Logger, service Service) *ListByModuleHandler {
	return &ListByModuleHandler{log: log, service: service}
}

func (h *ListByModuleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resources.listbymodule"

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

	resources, err := h.service.ListByModule(r.Context(), module.ID)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	if resources == nil {
		resources = []models.Resource{}
	}
	render.JSON(w, r, response.StatusOKWithData(resources))
}

// UploadHandler обрабатывает POST /resources: multipart-форма с полем file
// и необязательным display_name.
type UploadHandler struct {
	log     *slog.Logger
	service Service
	maxSize int64
}

// NewUpload создает новый экземпляр UploadHandler. maxSize ограничивает размер тела запроса.
func NewUpload(log *slog.Logger, service Service, maxSize int64) *UploadHandler {
	return &UploadHandler{log: log, service: service, maxSize: maxSize}
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resources.upload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Info("upload exceeds size limit", slog.Int64("limit", tooLarge.Limit))
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error("file is too large"))
			return
		}
		log.Info("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer file.Close()

	resource, err := h.service.Upload(r.Context(), services.Upload{
		OriginalName: header.Filename,
		DisplayName:  r.FormValue("display_name"),
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("resource uploaded",
		slog.Int64("resource_id", resource.ID),
		slog.String("name", resource.Name),
		slog.Int64("size", header.Size),
	)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(resource))
}

// UpdateHandler обрабатывает PUT /resources/{resourceId}.
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
	const op = "handlers.resources.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := middlewarectx.URLParamInt64(r, "resourceId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid resourceId"))
		return
	}

	var req models.ResourceUpdate
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

	resource, err := h.service.UpdateDisplayName(r.Context(), id, req.DisplayName)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(resource))
}

// DeleteHandler обрабатывает DELETE /resources/{resourceId}.
type DeleteHandler struct {
	log     *slog.Logger
	service Service
}

// NewDelete создает новый экземпляр DeleteHandler.
func NewDelete(log *slog.Logger, service Service) *DeleteHandler {
	return &DeleteHandler{log: log, service: service}
}

func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resources.delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := middlewarectx.URLParamInt64(r, "resourceId")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid resourceId"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("resource deleted", slog.Int64("resource_id", id))
	w.WriteHeader(http.StatusNoContent)
}
