package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// likeTarget описывает пару "сущность — таблица лайков".
type likeTarget struct {
	entity    string // таблица с like_count
	likes     string // таблица лайков с составным PK
	keyColumn string // колонка ссылки на сущность в таблице лайков
	// lock блокирует строку сущности, видимую читателям, и возвращает её like_count.
	lock string
}

var (
	postLikes = likeTarget{
		entity:    "blog_posts",
		likes:     "blog_post_likes",
		keyColumn: "post_id",
		lock: `SELECT like_count FROM blog_posts
			WHERE id = $1 AND is_deleted = FALSE AND is_published = TRUE
			FOR UPDATE`,
	}
	commentLikes = likeTarget{
		entity:    "blog_comments",
		likes:     "blog_comment_likes",
		keyColumn: "comment_id",
		lock: `SELECT c.like_count FROM blog_comments c
			JOIN blog_posts p ON p.id = c.post_id
			WHERE c.id = $1 AND c.is_deleted = FALSE AND c.is_approved = TRUE
			  AND p.is_deleted = FALSE AND p.is_published = TRUE
			FOR UPDATE OF c`,
	}
)

// recountBatch — сколько строк сущности пересчитывается в одной транзакции.
const recountBatch = 500

// TogglePostLike переключает лайк пользователя на посте.
func (s *Storage) TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (models.LikeResult, error) {
	const op = "storage.postgres.TogglePostLike"

	res, err := s.toggle(ctx, postLikes, postID, userID)
	if err != nil {
		return models.LikeResult{}, mapError(op, err)
	}

	return res, nil
}

// ToggleCommentLike переключает лайк пользователя на комментарии.
func (s *Storage) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (models.LikeResult, error) {
	const op = "storage.postgres.ToggleCommentLike"

	res, err := s.toggle(ctx, commentLikes, commentID, userID)
	if err != nil {
		return models.LikeResult{}, mapError(op, err)
	}

	return res, nil
}

// toggle выполняет переключение в одной транзакции:
//   - строка сущности блокируется (FOR UPDATE); отсутствующая, удалённая, черновик,
//     неодобренный комментарий или комментарий к скрытому посту — ErrNotFound;
//   - DELETE пары; если строка была — счётчик уменьшается, но не ниже нуля;
//   - иначе INSERT ... ON CONFLICT DO NOTHING, счётчик растёт только при реальной вставке.
//
// Составной PK таблицы лайков гарантирует не более одной строки на пару.
func (s *Storage) toggle(ctx context.Context, t likeTarget, targetID, userID uuid.UUID) (models.LikeResult, error) {
	var res models.LikeResult

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, t.lock, targetID).Scan(&res.LikeCount); err != nil {
			return err
		}

		del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND user_id = $2`, t.likes, t.keyColumn)
		tag, err := tx.Exec(ctx, del, targetID, userID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() > 0 {
			dec := fmt.Sprintf(`UPDATE %s SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1 RETURNING like_count`, t.entity)
			res.Liked = false
			return tx.QueryRow(ctx, dec, targetID).Scan(&res.LikeCount)
		}

		ins := fmt.Sprintf(`INSERT INTO %s (%s, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, t.likes, t.keyColumn)
		tag, err = tx.Exec(ctx, ins, targetID, userID)
		if err != nil {
			return err
		}

		res.Liked = true
		if tag.RowsAffected() == 0 {
			return nil
		}

		inc := fmt.Sprintf(`UPDATE %s SET like_count = like_count + 1 WHERE id = $1 RETURNING like_count`, t.entity)
		return tx.QueryRow(ctx, inc, targetID).Scan(&res.LikeCount)
	})
	if err != nil {
		return models.LikeResult{}, err
	}

	return res, nil
}

// LikedComments возвращает подмножество ids, которые лайкнул пользователь, одним запросом.
func (s *Storage) LikedComments(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	const op = "storage.postgres.LikedComments"

	out := make(map[uuid.UUID]bool)
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT comment_id FROM blog_comment_likes WHERE user_id = $1 AND comment_id = ANY($2)`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// RecountLikes приводит like_count к фактическому числу строк в таблицах лайков.
//
// Сущности обходятся пачками по id. В транзакции пачки строки сначала
// блокируются (те же FOR UPDATE, что и в toggle), и только следующий
// оператор считает лайки: в READ COMMITTED он видит снимок, сделанный
// после всех переключений, успевших захватить строку раньше.
func (s *Storage) RecountLikes(ctx context.Context) (int64, error) {
	const op = "storage.postgres.RecountLikes"

	var fixed int64
	for _, t := range []likeTarget{postLikes, commentLikes} {
		n, err := s.recountTarget(ctx, t)
		fixed += n
		if err != nil {
			return fixed, fmt.Errorf("%s: %w", op, err)
		}
	}

	return fixed, nil
}

func (s *Storage) recountTarget(ctx context.Context, t likeTarget) (int64, error) {
	lock := fmt.Sprintf(`SELECT id FROM %s WHERE id > $1 ORDER BY id LIMIT $2 FOR UPDATE`, t.entity)
	update := fmt.Sprintf(`
		UPDATE %[1]s e
		SET like_count = sub.cnt
		FROM (
			SELECT x.id, (SELECT count(*) FROM %[2]s l WHERE l.%[3]s = x.id) AS cnt
			FROM %[1]s x
			WHERE x.id = ANY($1)
		) sub
		WHERE e.id = sub.id AND e.like_count <> sub.cnt
	`, t.entity, t.likes, t.keyColumn)

	var (
		fixed int64
		after uuid.UUID // uuid.Nil меньше любого id
	)
	for {
		var ids []uuid.UUID

		err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, lock, after, recountBatch)
			if err != nil {
				return err
			}

			ids, err = pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
			if err != nil || len(ids) == 0 {
				return err
			}

			tag, err := tx.Exec(ctx, update, ids)
			if err != nil {
				return err
			}
			fixed += tag.RowsAffected()

			return nil
		})
		if err != nil {
			return fixed, err
		}

		if len(ids) < recountBatch {
			return fixed, nil
		}
		after = ids[len(ids)-1]
	}
}

var _ storage.LikeStorage = (*Storage)(nil)
