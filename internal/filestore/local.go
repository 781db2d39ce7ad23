package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// Local хранит файлы в каталоге на диске.
type Local struct {
	dir string
}

// NewLocal создаёт каталог dir, если его нет.
func NewLocal(dir string) (*Local, error) {
	const op = "filestore.NewLocal"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Local{dir: dir}, nil
}

// Save записывает файл целиком. При ошибке частично записанный файл удаляется.
func (l *Local) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) error {
	const op = "filestore.Local.Save"

	if err := checkName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	path := filepath.Join(l.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Open открывает файл на чтение.
func (l *Local) Open(_ context.Context, name string) (*Object, error) {
	const op = "filestore.Local.Open"

	if err := checkName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotExist)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", op, ErrNotExist)
	}
	return &Object{
		ReadSeekCloser: f,
		Size:           info.Size(),
		ModTime:        info.ModTime(),
		ContentType:    mime.TypeByExtension(filepath.Ext(name)),
	}, nil
}

// Remove удаляет файл. Отсутствующий файл даёт ErrNotExist.
func (l *Local) Remove(_ context.Context, name string) error {
	const op = "filestore.Local.Remove"

	if err := checkName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", op, ErrNotExist)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
