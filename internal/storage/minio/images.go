package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// PutImage записывает объект целиком. Размер должен быть известен заранее.
func (s *ImagesStorage) PutImage(ctx context.Context, img models.Image, body io.Reader) error {
	const op = "storage.minio.PutImage"

	_, err := s.client.PutObject(ctx, s.bucket, img.Key, body, img.Size, mclient.PutObjectOptions{
		ContentType:  img.ContentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetImage открывает объект на чтение. Stat выполняется сразу,
// чтобы отсутствие ключа превратилось в ErrNotFound до начала ответа клиенту.
func (s *ImagesStorage) GetImage(ctx context.Context, key string) (*models.ImageObject, error) {
	const op = "storage.minio.GetImage"

	obj, err := s.client.GetObject(ctx, s.bucket, key, mclient.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return &models.ImageObject{
		Image: models.Image{
			Key:         key,
			ContentType: info.ContentType,
			Size:        info.Size,
		},
		Body: obj,
	}, nil
}

func mapError(err error) error {
	resp := mclient.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return storage.ErrNotFound
	}

	return err
}
