package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/metrics"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// TogglePostLike ставит или снимает лайк пользователя на пост.
// Удалённый, отсутствующий или неопубликованный пост — ErrNotFound.
func (s *Service) TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (models.LikeResult, error) {
	const op = "service.likes.TogglePostLike"

	res, err := s.storage.TogglePostLike(ctx, postID, userID)
	if err != nil {
		return models.LikeResult{}, fmt.Errorf("%s: %w", op, mapLikeError(err))
	}

	metrics.LikeToggles.WithLabelValues("post", strconv.FormatBool(res.Liked)).Inc()
	log.From(ctx).Debug("post_like_toggled",
		slog.String("op", op),
		slog.String("post_id", postID.String()),
		slog.Bool("liked", res.Liked),
		slog.Int64("like_count", res.LikeCount),
	)

	return res, nil
}

// ToggleCommentLike ставит или снимает лайк пользователя на комментарий.
// Комментарий должен быть виден читателям: одобрен, не удалён, пост опубликован.
func (s *Service) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (models.LikeResult, error) {
	const op = "service.likes.ToggleCommentLike"

	res, err := s.storage.ToggleCommentLike(ctx, commentID, userID)
	if err != nil {
		return models.LikeResult{}, fmt.Errorf("%s: %w", op, mapLikeError(err))
	}

	metrics.LikeToggles.WithLabelValues("comment", strconv.FormatBool(res.Liked)).Inc()
	log.From(ctx).Debug("comment_like_toggled",
		slog.String("op", op),
		slog.String("comment_id", commentID.String()),
		slog.Bool("liked", res.Liked),
		slog.Int64("like_count", res.LikeCount),
	)

	return res, nil
}

func mapLikeError(err error) error {
	// ErrInvalidReference — пользователь удалён, пока держал сессию.
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidReference) {
		return ErrNotFound
	}

	return err
}
