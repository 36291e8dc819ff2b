package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// PostInput — редактируемые поля поста.
// Пустой Slug означает «вывести из TitleEn».
type PostInput struct {
	TitleEn       string
	TitleTr       string
	SummaryEn     string
	SummaryTr     string
	ContentEn     string
	ContentTr     string
	Slug          string
	CoverImageURL string
	IsPublished   bool
	CategoryID    uuid.UUID
}

func (in *PostInput) normalize() {
	in.TitleEn = strings.TrimSpace(in.TitleEn)
	in.TitleTr = strings.TrimSpace(in.TitleTr)
	in.SummaryEn = strings.TrimSpace(in.SummaryEn)
	in.SummaryTr = strings.TrimSpace(in.SummaryTr)
	in.Slug = Slugify(in.Slug)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
}

func (in PostInput) validate() error {
	if in.TitleEn == "" || in.CategoryID == uuid.Nil {
		return ErrInvalidArgument
	}

	if in.Slug == "" && Slugify(in.TitleEn) == "" {
		return ErrInvalidArgument
	}

	return nil
}

// ListPosts возвращает страницу постов.
// Page < 1 приводится к 1; PageSize ограничивается blog.max_page_size.
func (s *Service) ListPosts(ctx context.Context, f models.PostFilter) (*models.PostPage, error) {
	const op = "service.posts.ListPosts"

	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize <= 0:
		f.PageSize = s.cfg.Blog.DefaultPageSize
	case f.PageSize > s.cfg.Blog.MaxPageSize:
		f.PageSize = s.cfg.Blog.MaxPageSize
	}
	f.CategorySlug = strings.TrimSpace(f.CategorySlug)
	f.Search = strings.TrimSpace(f.Search)

	items, total, err := s.storage.ListPosts(ctx, f)
	if err != nil {
		log.From(ctx).Error("list_posts_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.PostPage{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// PostBySlug возвращает пост с HTML-рендером и увеличивает счётчик просмотров.
func (s *Service) PostBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.PostView, error) {
	const op = "service.posts.PostBySlug"

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	post, err := s.storage.ViewPostBySlug(ctx, slug, includeDrafts)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	view := &models.PostView{Post: *post}
	if view.ContentHTMLEn, err = s.renderMarkdown(post.ContentEn); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if view.ContentHTMLTr, err = s.renderMarkdown(post.ContentTr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

// CreatePost создаёт пост от имени автора.
//
// Slug:
//   - явный slug нормализуется; если он занят — ErrSlugTaken;
//   - без явного slug он выводится из TitleEn, при коллизии добавляется -2, -3, ...
func (s *Service) CreatePost(ctx context.Context, authorID uuid.UUID, in PostInput) (*models.Post, error) {
	const op = "service.posts.CreatePost"

	in.normalize()
	lg := log.From(ctx).With("op", op, "author_id", authorID.String())

	if err := in.validate(); err != nil {
		lg.Warn("invalid argument: post input")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slug, err := s.resolveSlug(ctx, in, "")
	if err != nil {
		lg.Warn("slug_unavailable", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if authorID != uuid.Nil {
		post.AuthorID = &authorID
	}
	applyPostInput(post, in, slug, now)

	if err := s.storage.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPostError(lg, err))
	}

	lg.Info("post_created", slog.String("post_id", post.ID.String()), slog.String("slug", post.Slug))

	return post, nil
}

// UpdatePost перезаписывает поля неудалённого поста.
// Собственный slug поста коллизией не считается.
func (s *Service) UpdatePost(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
	const op = "service.posts.UpdatePost"

	in.normalize()
	lg := log.From(ctx).With("op", op, "post_id", id.String())

	if err := in.validate(); err != nil {
		lg.Warn("invalid argument: post input")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post, err := s.storage.PostByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slug, err := s.resolveSlug(ctx, in, post.Slug)
	if err != nil {
		lg.Warn("slug_unavailable", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	applyPostInput(post, in, slug, now)
	post.UpdatedAt = now

	if err := s.storage.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPostError(lg, err))
	}

	lg.Info("post_updated", slog.String("slug", post.Slug))

	return post, nil
}

// DeletePost — мягкое удаление.
func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	const op = "service.posts.DeletePost"

	if err := s.storage.SoftDeletePost(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("post_deleted", slog.String("op", op), slog.String("post_id", id.String()))

	return nil
}

// resolveSlug выбирает slug для записи. current — slug редактируемого поста.
func (s *Service) resolveSlug(ctx context.Context, in PostInput, current string) (string, error) {
	if in.Slug != "" {
		if in.Slug == current {
			return current, nil
		}

		taken, err := s.storage.SlugExists(ctx, in.Slug)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrSlugTaken
		}

		return in.Slug, nil
	}

	base := Slugify(in.TitleEn)
	if current != "" && sameSlugBase(current, base) {
		return current, nil
	}

	return s.uniqueSlug(ctx, base)
}

// sameSlugBase: slug равен base или base-N, выданному uniqueSlug.
func sameSlugBase(slug, base string) bool {
	if slug == base {
		return true
	}

	suffix, ok := strings.CutPrefix(slug, base+"-")
	if !ok || suffix == "" {
		return false
	}

	_, err := strconv.Atoi(suffix)
	return err == nil
}

// applyPostInput переносит поля ввода; published_at фиксируется при первой публикации.
func applyPostInput(p *models.Post, in PostInput, slug string, now time.Time) {
	p.TitleEn, p.TitleTr = in.TitleEn, in.TitleTr
	p.SummaryEn, p.SummaryTr = in.SummaryEn, in.SummaryTr
	p.ContentEn, p.ContentTr = in.ContentEn, in.ContentTr
	p.Slug = slug
	p.CoverImageURL = in.CoverImageURL
	p.IsPublished = in.IsPublished
	p.CategoryID = in.CategoryID

	if p.IsPublished && p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
}

func mapPostError(lg *slog.Logger, err error) error {
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		lg.Warn("slug_taken_on_write")
		return ErrSlugTaken
	case errors.Is(err, storage.ErrInvalidReference):
		lg.Warn("invalid argument: unknown category")
		return ErrInvalidArgument
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	default:
		lg.Error("storage_write_failed", slog.String("err", err.Error()))
		return err
	}
}
