// Package filestore хранит загруженные файлы ресурсов: в локальном каталоге
// или в бакете S3-совместимого хранилища (MinIO). Ключ файла совпадает
// с уникальным именем ресурса.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/magabrotheeeer/dotpoint/internal/config"
)

var (
	// ErrNotExist — файла с таким именем нет.
	ErrNotExist = errors.New("file does not exist")
	// ErrInvalidName — имя содержит путь или пустое.
	ErrInvalidName = errors.New("invalid file name")
)

// Object — открытый файл. Вызывающий обязан закрыть его.
type Object struct {
	io.ReadSeekCloser
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Store — хранилище файлов.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (*Object, error)
	Remove(ctx context.Context, name string) error
}

// New создаёт хранилище по настройкам из конфига.
func New(cfg config.FileStorage) (Store, error) {
	const op = "filestore.New"

	switch cfg.Driver {
	case config.FileStorageLocal:
		store, err := NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return store, nil
	case config.FileStorageMinIO:
		store, err := NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}

// checkName допускает только имя файла без каталогов.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
