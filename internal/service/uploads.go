package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// imagesPrefix — префикс ключей изображений в бакете.
const imagesPrefix = "images/"

// UploadsURLPrefix — публичный префикс, под которым отдаются объекты.
const UploadsURLPrefix = "/uploads/"

// UploadInput — загружаемый файл. Size — заявленный размер в байтах.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadImage сохраняет изображение и возвращает относительный URL вида
// /uploads/images/<uuid>.<ext>. URL возвращается только после успешной записи.
func (s *Service) UploadImage(ctx context.Context, in UploadInput) (string, error) {
	const op = "service.uploads.UploadImage"

	ext := strings.ToLower(filepath.Ext(in.FileName))
	lg := log.From(ctx).With("op", op, "ext", ext, "size", in.Size)

	if !s.extensionAllowed(ext) {
		lg.Warn("upload_rejected", slog.String("reason", "extension"))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidFile)
	}
	if in.Size <= 0 || in.Body == nil {
		lg.Warn("upload_rejected", slog.String("reason", "empty"))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidFile)
	}
	if in.Size > s.cfg.Upload.MaxBytes {
		lg.Warn("upload_rejected", slog.String("reason", "too_large"))
		return "", fmt.Errorf("%s: %w", op, ErrFileTooLarge)
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = in.ContentType
	}

	img := models.Image{
		Key:         imagesPrefix + uuid.NewString() + ext,
		ContentType: contentType,
		Size:        in.Size,
	}

	if err := s.images.PutImage(ctx, img, io.LimitReader(in.Body, in.Size)); err != nil {
		lg.Error("upload_failed", slog.String("err", err.Error()))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("image_uploaded", slog.String("key", img.Key))

	return UploadsURLPrefix + img.Key, nil
}

// OpenImage открывает ранее загруженное изображение. Ключи вне images/ не отдаются.
func (s *Service) OpenImage(ctx context.Context, key string) (*models.ImageObject, error) {
	const op = "service.uploads.OpenImage"

	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, imagesPrefix) || path.Clean(key) != key || strings.Contains(key, "..") {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	obj, err := s.images.GetImage(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return obj, nil
}

func (s *Service) extensionAllowed(ext string) bool {
	if ext == "" {
		return false
	}

	for _, a := range s.cfg.Upload.AllowedExtensions {
		if strings.EqualFold(strings.TrimSpace(a), ext) {
			return true
		}
	}

	return false
}
