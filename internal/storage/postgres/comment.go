package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

const commentColumns = `id, post_id, user_id, author_name, parent_comment_id, content,
	is_approved, is_deleted, like_count, created_at, updated_at`

// CreateComment сохраняет комментарий.
// Принадлежность родителя тому же посту проверяется сервисом.
func (s *Storage) CreateComment(ctx context.Context, c *models.Comment) error {
	const op = "storage.postgres.CreateComment"

	query := `
        INSERT INTO blog_comments(` + commentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, 0, $8, $9)
    `

	_, err := s.db.Exec(ctx, query,
		c.ID,
		c.PostID,
		c.UserID,
		c.AuthorName,
		c.ParentID,
		c.Content,
		c.IsApproved,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return mapError(op, err)
	}

	return nil
}

// CommentByID возвращает комментарий по ID.
func (s *Storage) CommentByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Comment, error) {
	const op = "storage.postgres.CommentByID"

	query := `SELECT ` + commentColumns + ` FROM blog_comments WHERE id = $1 AND ($2 OR is_deleted = FALSE)`

	c, err := scanComment(s.db.QueryRow(ctx, query, id, includeDeleted))
	if err != nil {
		return nil, mapError(op, err)
	}

	return c, nil
}

// CommentsByPost возвращает комментарии поста в порядке created_at ASC.
func (s *Storage) CommentsByPost(ctx context.Context, postID uuid.UUID, q storage.CommentQuery) ([]models.Comment, error) {
	const op = "storage.postgres.CommentsByPost"

	query := `
        SELECT ` + commentColumns + `
        FROM blog_comments
        WHERE post_id = $1
          AND ($2 OR is_approved = TRUE)
          AND ($3 OR is_deleted = FALSE)
        ORDER BY created_at, id
    `

	return s.queryComments(ctx, op, query, postID, q.IncludeUnapproved, q.IncludeDeleted)
}

// PendingComments — очередь модерации, старые первыми.
func (s *Storage) PendingComments(ctx context.Context, limit int) ([]models.Comment, error) {
	const op = "storage.postgres.PendingComments"

	query := `
        SELECT ` + commentColumns + `
        FROM blog_comments
        WHERE is_approved = FALSE AND is_deleted = FALSE
        ORDER BY created_at, id
        LIMIT $1
    `

	return s.queryComments(ctx, op, query, limit)
}

// ApproveComment одобряет неудалённый комментарий.
func (s *Storage) ApproveComment(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.ApproveComment"

	return s.execOne(ctx, op,
		`UPDATE blog_comments SET is_approved = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`, id)
}

// SoftDeleteComment помечает комментарий удалённым. Ответы остаются в БД.
func (s *Storage) SoftDeleteComment(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.SoftDeleteComment"

	return s.execOne(ctx, op,
		`UPDATE blog_comments SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`, id)
}

func (s *Storage) queryComments(ctx context.Context, op, query string, args ...any) ([]models.Comment, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// execOne выполняет UPDATE, который должен затронуть ровно одну строку.
func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.UserID,
		&c.AuthorName,
		&c.ParentID,
		&c.Content,
		&c.IsApproved,
		&c.IsDeleted,
		&c.LikeCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}
