// Package services содержит логику работы с ресурсами: загрузку файлов,
// их описание в хранилище, привязку к модулям и удаление.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/dotpoint/internal/filestore"
	"github.com/magabrotheeeer/dotpoint/internal/lib/sl"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// Repository описывает операции хранилища над ресурсами и их связями с модулями.
type Repository interface {
	ListResources(ctx context.Context) ([]models.Resource, error)
	ListResourcesByModule(ctx context.Context, moduleID int64) ([]models.Resource, error)
	GetResource(ctx context.Context, id int64) (models.Resource, error)
	CreateResource(ctx context.Context, r models.Resource) (int64, error)
	UpdateResourceDisplayName(ctx context.Context, id int64, displayName string) error
	DeleteResource(ctx context.Context, id int64) error
	LinkModuleResource(ctx context.Context, link models.ModuleResource) error
	UnlinkModuleResource(ctx context.Context, link models.ModuleResource) error
}

// Upload описывает загружаемый файл.
type Upload struct {
	OriginalName string
	DisplayName  string
	ContentType  string
	Size         int64
	Body         io.Reader
}

// ResourceService реализует операции над ресурсами.
type ResourceService struct {
	repo  Repository
	files filestore.Store
	log   *slog.Logger
}

// NewResourceService создает новый экземпляр ResourceService.
func NewResourceService(repo Repository, files filestore.Store, log *slog.Logger) *ResourceService {
	return &ResourceService{
		repo:  repo,
		files: files,
		log:   log,
	}
}

// storageName строит уникальное имя файла: uuid и исходное расширение.
func storageName(originalName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
}

// Upload сохраняет файл и создаёт ресурс. Тип определяется по MIME:
// видео, изображение или pdf, остальное даёт models.ErrUnsupportedFileType.
// Если запись в базу не удалась, сохранённый файл удаляется.
func (s *ResourceService) Upload(ctx context.Context, up Upload) (models.Resource, error) {
	const op = "services.resource.Upload"

	fileType, err := models.FileTypeFromMIME(up.ContentType)
	if err != nil {
		return models.Resource{}, fmt.Errorf("%s: %w", op, err)
	}

	originalName := filepath.Base(up.OriginalName)
	displayName := strings.TrimSpace(up.DisplayName)
	if displayName == "" {
		displayName = originalName
	}
	if len([]rune(displayName)) > models.MaxDisplayNameLength {
		displayName = string([]rune(displayName)[:models.MaxDisplayNameLength])
	}

	name := storageName(originalName)
	if err := s.files.Save(ctx, name, up.Body, up.Size, up.ContentType); err != nil {
		return models.Resource{}, fmt.Errorf("%s: %w", op, err)
	}

	resource := models.Resource{
		OriginalName: originalName,
		Name:         name,
		DisplayName:  displayName,
		Path:         models.StaticPrefix + name,
		FileType:     fileType,
	}
	id, err := s.repo.CreateResource(ctx, resource)
	if err != nil {
		if rmErr := s.files.Remove(context.WithoutCancel(ctx), name); rmErr != nil {
			s.log.Error("failed to remove orphaned upload", slog.String("op", op), slog.String("name", name), sl.Err(rmErr))
		}
		return models.Resource{}, fmt.Errorf("%s: %w", op, err)
	}
	resource.ID = id
	return resource, nil
}

// List возвращает все ресурсы.
func (s *ResourceService) List(ctx context.Context) ([]models.Resource, error) {
	const op = "services.resource.List"

	resources, err := s.repo.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resources, nil
}

// ListByModule возвращает ресурсы модуля.
func (s *ResourceService) ListByModule(ctx context.Context, moduleID int64) ([]models.Resource, error) {
	const op = "services.resource.ListByModule"

	resources, err := s.repo.ListResourcesByModule(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resources, nil
}

// UpdateDisplayName меняет отображаемое имя и возвращает обновлённый ресурс.
func (s *ResourceService) UpdateDisplayName(ctx context.Context, id int64, displayName string) (models.Resource, error) {
	const op = "services.resource.UpdateDisplayName"

	if err := s.repo.UpdateResourceDisplayName(ctx, id, strings.TrimSpace(displayName)); err != nil {
		return models.Resource{}, fmt.Errorf("%s: %w", op, err)
	}
	resource, err := s.repo.GetResource(ctx, id)
	if err != nil {
		return models.Resource{}, fmt.Errorf("%s: %w", op, err)
	}
	return resource, nil
}

// Delete удаляет ресурс, его связи и сам файл. Файл, которого уже нет,
// только логируется: запись в базе к этому моменту уже удалена.
func (s *ResourceService) Delete(ctx context.Context, id int64) error {
	const op = "services.resource.Delete"

	resource, err := s.repo.GetResource(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteResource(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.String("name", resource.Name))
	if err := s.files.Remove(ctx, resource.Name); err != nil {
		if errors.Is(err, filestore.ErrNotExist) {
			log.Warn("resource file already missing")
			return nil
		}
		log.Error("failed to remove resource file", sl.Err(err))
	}
	return nil
}

// Link привязывает ресурс к модулю.
func (s *ResourceService) Link(ctx context.Context, link models.ModuleResource) error {
	const op = "services.resource.Link"

	if err := s.repo.LinkModuleResource(ctx, link); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Unlink отвязывает ресурс от модуля.
func (s *ResourceService) Unlink(ctx context.Context, link models.ModuleResource) error {
	const op = "services.resource.Unlink"

	if err := s.repo.UnlinkModuleResource(ctx, link); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Open открывает файл ресурса по имени в хранилище.
func (s *ResourceService) Open(ctx context.Context, name string) (*filestore.Object, error) {
	const op = "services.resource.Open"

	obj, err := s.files.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return obj, nil
}
