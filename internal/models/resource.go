package models

import (
	"errors"
	"strings"
)

// FileType — тип загруженного файла.
type FileType string

const (
	FileTypeVideo FileType = "VIDEO"
	FileTypeImage FileType = "IMAGE"
	FileTypePDF   FileType = "PDF"
)

// ErrUnsupportedFileType — MIME-тип не относится к video, image или pdf.
var ErrUnsupportedFileType = errors.New("invalid file type, supported types: video, image, pdf")

// FileTypeFromMIME определяет тип ресурса по MIME-типу загрузки:
// video/* и image/* по первой части, application/pdf по второй.
func FileTypeFromMIME(mime string) (FileType, error) {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	family, sub, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mime)), "/")
	if family == "application" {
		family = sub
	}
	switch family {
	case "video":
		return FileTypeVideo, nil
	case "image":
		return FileTypeImage, nil
	case "pdf":
		return FileTypePDF, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// StaticPrefix — URL-префикс, под которым раздаются загруженные файлы.
const StaticPrefix = "/static/"

// Resource — сохранённый файл. Name уникален и совпадает с ключом в файловом хранилище.
type Resource struct {
	ID           int64    `json:"id"`
	OriginalName string   `json:"original_name"`
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	Path         string   `json:"path"`
	FileType     FileType `json:"file_type"`
}

// ModuleResource связывает модуль и ресурс.
type ModuleResource struct {
	ModuleID   int64 `json:"module_id" validate:"required,gt=0"`
	ResourceID int64 `json:"resource_id" validate:"required,gt=0"`
}

// MaxDisplayNameLength — ограничение колонки display_name.
const MaxDisplayNameLength = 128

// ResourceUpdate — изменение отображаемого имени ресурса.
type ResourceUpdate struct {
	DisplayName string `json:"display_name" validate:"required,max=128"`
}
