// Package static отдаёт загруженные файлы ресурсов.
package static

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dotpoint/internal/filestore"
	"github.com/magabrotheeeer/dotpoint/internal/http/response"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// Opener открывает файл ресурса по имени в хранилище.
type Opener interface {
	Open(ctx context.Context, name string) (*filestore.Object, error)
}

// Handler обрабатывает GET /static/*. Проверка доступа выполняется PreviewAccess.
type Handler struct {
	log   *slog.Logger
	files Opener
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, files Opener) *Handler {
	return &Handler{log: log, files: files}
}

// ServeHTTP отдаёт файл с поддержкой Range и условных запросов.
// Имя берётся из пути запроса, а не из параметра маршрута: URLFormat
// отрезает расширение от пути маршрутизации.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.static.serve"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	name := strings.TrimPrefix(r.URL.Path, models.StaticPrefix)
	if name == "" || name == r.URL.Path {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("not found"))
		return
	}

	obj, err := h.files.Open(r.Context(), name)
	if err != nil {
		response.Fail(w, r, log.With(slog.String("name", name)), err)
		return
	}
	defer obj.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	http.ServeContent(w, r, name, obj.ModTime, obj)
}
