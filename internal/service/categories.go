package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// CategoryInput — создание категории. Пустой Slug выводится из NameEn.
type CategoryInput struct {
	NameEn       string
	NameTr       string
	Slug         string
	DisplayOrder int
	IsActive     bool
}

func (s *Service) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	const op = "service.categories.ListCategories"

	items, err := s.storage.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	const op = "service.categories.CreateCategory"

	in.NameEn = strings.TrimSpace(in.NameEn)
	in.NameTr = strings.TrimSpace(in.NameTr)
	in.Slug = Slugify(in.Slug)
	if in.Slug == "" {
		in.Slug = Slugify(in.NameEn)
	}

	lg := log.From(ctx).With("op", op, "slug", in.Slug)

	if in.NameEn == "" || in.Slug == "" {
		lg.Warn("invalid argument: category name")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	c := &models.Category{
		ID:           uuid.New(),
		NameEn:       in.NameEn,
		NameTr:       in.NameTr,
		Slug:         in.Slug,
		DisplayOrder: in.DisplayOrder,
		IsActive:     in.IsActive,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.storage.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			lg.Warn("category_slug_taken")
			return nil, fmt.Errorf("%s: %w", op, ErrSlugTaken)
		}

		lg.Error("create_category_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("category_created", slog.String("category_id", c.ID.String()))

	return c, nil
}

// DeleteCategory удаляет категорию физически.
// ErrCategoryInUse, пока на неё ссылается хотя бы один пост, включая удалённые.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "service.categories.DeleteCategory"

	lg := log.From(ctx).With("op", op, "category_id", id.String())

	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrInUse):
			lg.Warn("category_in_use")
			return fmt.Errorf("%s: %w", op, ErrCategoryInUse)
		default:
			lg.Error("delete_category_failed", slog.String("err", err.Error()))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	lg.Info("category_deleted")

	return nil
}
