package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/magabrotheeeer/dotpoint/internal/config"
)

// MinIO хранит файлы в бакете S3-совместимого хранилища.
type MinIO struct {
	mc     *minio.Client
	bucket string
}

// NewMinIO создаёт клиента. Соединение не устанавливается до первого запроса.
func NewMinIO(cfg config.MinIO) (*MinIO, error) {
	const op = "filestore.NewMinIO"

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%s: minio endpoint is required", op)
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%s: minio access_key and secret_key are required", op)
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "dotpoint"
	}
	return &MinIO{mc: mc, bucket: bucket}, nil
}

// Bucket возвращает имя бакета.
func (m *MinIO) Bucket() string { return m.bucket }

// EnsureBucket создаёт бакет, если его ещё нет.
func (m *MinIO) EnsureBucket(ctx context.Context) error {
	const op = "filestore.MinIO.EnsureBucket"

	exists, err := m.mc.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("%s: check bucket: %w", op, err)
	}
	if !exists {
		if err := m.mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%s: create bucket: %w", op, err)
		}
	}
	return nil
}

// Save загружает объект. size может быть -1, если размер неизвестен.
func (m *MinIO) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	const op = "filestore.MinIO.Save"

	if err := checkName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.mc.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%s: upload %s: %w", op, name, err)
	}
	return nil
}

// Open открывает объект. GetObject не проверяет существование, поэтому сразу делается Stat.
func (m *MinIO) Open(ctx context.Context, name string) (*Object, error) {
	const op = "filestore.MinIO.Open"

	if err := checkName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	obj, err := m.mc.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateMinIO(err))
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, fmt.Errorf("%s: %w", op, translateMinIO(err))
	}
	return &Object{
		ReadSeekCloser: obj,
		Size:           info.Size,
		ModTime:        info.LastModified,
		ContentType:    info.ContentType,
	}, nil
}

// Remove удаляет объект.
func (m *MinIO) Remove(ctx context.Context, name string) error {
	const op = "filestore.MinIO.Remove"

	if err := checkName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := m.mc.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, translateMinIO(err))
	}
	if err := m.mc.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func translateMinIO(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return errors.Join(ErrNotExist, err)
	}
	return err
}
