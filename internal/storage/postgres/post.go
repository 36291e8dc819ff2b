package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

const postColumns = `
	p.id, p.title_en, p.title_tr, p.summary_en, p.summary_tr, p.content_en, p.content_tr,
	p.slug, p.cover_image_url, p.is_published, p.is_deleted,
	p.view_count, p.like_count, p.dislike_count,
	p.category_id, c.slug, p.author_id, p.published_at, p.created_at, p.updated_at`

// CreatePost сохраняет новый пост.
// Возможные ошибки: ErrAlreadyExists (slug), ErrInvalidReference (категория/автор).
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	const op = "storage.postgres.CreatePost"

	query := `
        INSERT INTO blog_posts(
            id, title_en, title_tr, summary_en, summary_tr, content_en, content_tr,
            slug, cover_image_url, is_published, category_id, author_id,
            published_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    `

	_, err := s.db.Exec(ctx, query,
		post.ID,
		post.TitleEn, post.TitleTr,
		post.SummaryEn, post.SummaryTr,
		post.ContentEn, post.ContentTr,
		post.Slug,
		post.CoverImageURL,
		post.IsPublished,
		post.CategoryID,
		post.AuthorID,
		post.PublishedAt,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return mapError(op, err)
	}

	return nil
}

// UpdatePost перезаписывает редактируемые поля неудалённого поста.
func (s *Storage) UpdatePost(ctx context.Context, post *models.Post) error {
	const op = "storage.postgres.UpdatePost"

	query := `
        UPDATE blog_posts SET
            title_en = $2, title_tr = $3, summary_en = $4, summary_tr = $5,
            content_en = $6, content_tr = $7, slug = $8, cover_image_url = $9,
            is_published = $10, category_id = $11, published_at = $12, updated_at = $13
        WHERE id = $1 AND is_deleted = FALSE
    `

	tag, err := s.db.Exec(ctx, query,
		post.ID,
		post.TitleEn, post.TitleTr,
		post.SummaryEn, post.SummaryTr,
		post.ContentEn, post.ContentTr,
		post.Slug,
		post.CoverImageURL,
		post.IsPublished,
		post.CategoryID,
		post.PublishedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return mapError(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// PostByID возвращает пост по ID.
func (s *Storage) PostByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Post, error) {
	const op = "storage.postgres.PostByID"

	query := `
        SELECT ` + postColumns + `
        FROM blog_posts p
        JOIN blog_categories c ON c.id = p.category_id
        WHERE p.id = $1 AND ($2 OR p.is_deleted = FALSE)
    `

	post, err := scanPost(s.db.QueryRow(ctx, query, id, includeDeleted))
	if err != nil {
		return nil, mapError(op, err)
	}

	return post, nil
}

// ViewPostBySlug увеличивает view_count и возвращает пост одним запросом.
// Удалённые посты не видны никогда; черновики — только при includeDrafts.
func (s *Storage) ViewPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.Post, error) {
	const op = "storage.postgres.ViewPostBySlug"

	query := `
        WITH p AS (
            UPDATE blog_posts
            SET view_count = view_count + 1
            WHERE slug = $1 AND is_deleted = FALSE AND ($2 OR is_published = TRUE)
            RETURNING *
        )
        SELECT ` + postColumns + `
        FROM p
        JOIN blog_categories c ON c.id = p.category_id
    `

	post, err := scanPost(s.db.QueryRow(ctx, query, slug, includeDrafts))
	if err != nil {
		return nil, mapError(op, err)
	}

	return post, nil
}

// ListPosts возвращает страницу постов и общее количество по фильтру.
// Порядок: сначала свежие по дате публикации (для черновиков — по дате создания).
func (s *Storage) ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, int64, error) {
	const op = "storage.postgres.ListPosts"

	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if !f.IncludeDeleted {
		conds = append(conds, "p.is_deleted = FALSE")
	}
	if !f.IncludeDrafts {
		conds = append(conds, "p.is_published = TRUE")
	}
	if f.CategorySlug != "" {
		add("c.slug = $%d", f.CategorySlug)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		add(`(p.title_en ILIKE $%[1]d OR p.title_tr ILIKE $%[1]d
			OR p.summary_en ILIKE $%[1]d OR p.summary_tr ILIKE $%[1]d)`, "%"+escapeLike(q)+"%")
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	from := `FROM blog_posts p JOIN blog_categories c ON c.id = p.category_id ` + where

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s %s
		ORDER BY COALESCE(p.published_at, p.created_at) DESC, p.id DESC
		LIMIT $%d OFFSET $%d`, postColumns, from, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return items, total, nil
}

// SlugExists проверяет занятость slug среди всех постов, включая удалённые.
func (s *Storage) SlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "storage.postgres.SlugExists"

	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// SoftDeletePost помечает пост удалённым. Повторное удаление — ErrNotFound.
func (s *Storage) SoftDeletePost(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.SoftDeletePost"

	tag, err := s.db.Exec(ctx,
		`UPDATE blog_posts SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(
		&p.ID,
		&p.TitleEn, &p.TitleTr,
		&p.SummaryEn, &p.SummaryTr,
		&p.ContentEn, &p.ContentTr,
		&p.Slug,
		&p.CoverImageURL,
		&p.IsPublished,
		&p.IsDeleted,
		&p.ViewCount,
		&p.LikeCount,
		&p.DislikeCount,
		&p.CategoryID,
		&p.CategorySlug,
		&p.AuthorID,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
