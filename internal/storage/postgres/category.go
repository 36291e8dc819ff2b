package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// ListCategories возвращает категории в порядке display_order.
func (s *Storage) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	const op = "storage.postgres.ListCategories"

	query := `
        SELECT id, name_en, name_tr, slug, display_order, is_active, created_at
        FROM blog_categories
        WHERE $1 OR is_active = TRUE
        ORDER BY display_order, name_en
    `

	rows, err := s.db.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.NameEn, &c.NameTr, &c.Slug, &c.DisplayOrder, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CreateCategory сохраняет новую категорию (ErrAlreadyExists при занятом slug).
func (s *Storage) CreateCategory(ctx context.Context, c *models.Category) error {
	const op = "storage.postgres.CreateCategory"

	query := `
        INSERT INTO blog_categories(id, name_en, name_tr, slug, display_order, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := s.db.Exec(ctx, query, c.ID, c.NameEn, c.NameTr, c.Slug, c.DisplayOrder, c.IsActive, c.CreatedAt)
	if err != nil {
		return mapError(op, err)
	}

	return nil
}

// DeleteCategory удаляет категорию физически.
// Пока на неё ссылается хотя бы один пост (включая удалённые), FK RESTRICT не даст
// удалить строку — возвращаем ErrInUse.
func (s *Storage) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteCategory"

	tag, err := s.db.Exec(ctx, `DELETE FROM blog_categories WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrInUse)
		}

		return mapError(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
