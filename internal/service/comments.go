package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/events"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// Границы очереди модерации.
const (
	defaultPendingLimit = 50
	maxPendingLimit     = 200
)

// CreateCommentInput — создание комментария или ответа.
// Правила:
//   - PostID обязателен, пост должен быть опубликован и не удалён;
//   - ParentID, если задан, должен ссылаться на видимый комментарий того же поста;
//   - AuthorName необязателен: для гостя подставляется comments.guest_name,
//     для пользователя — его логин.
type CreateCommentInput struct {
	PostID     uuid.UUID
	AuthorName string
	Content    string
	ParentID   *uuid.UUID
}

// CreateComment создаёт комментарий. viewer == nil — гость.
//
// Поведение:
//   - комментарии пользователей одобряются сразу;
//   - гостевые ждут модерации, если не включён comments.auto_approve_guests;
//   - отвечать можно только на одобренный комментарий того же поста;
//   - после сохранения публикуется событие comment.created.
func (s *Service) CreateComment(ctx context.Context, viewer *models.Principal, in CreateCommentInput) (*models.Comment, error) {
	const op = "service.comments.CreateComment"

	lg := log.From(ctx).With("op", op, "post_id", in.PostID.String())

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		lg.Warn("invalid argument: empty content")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}
	if maxLen := s.cfg.Comments.MaxLength; maxLen > 0 && utf8.RuneCountInString(in.Content) > maxLen {
		lg.Warn("invalid argument: content too long")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.ensurePostVisible(ctx, in.PostID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if in.ParentID != nil {
		parent, err := s.storage.CommentByID(ctx, *in.ParentID, false)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				lg.Warn("invalid argument: parent not found", slog.String("parent_id", in.ParentID.String()))
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
			}

			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if parent.PostID != in.PostID {
			lg.Warn("invalid argument: parent belongs to another post", slog.String("parent_id", parent.ID.String()))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		// Ответ на комментарий из очереди модерации был бы невидим до его одобрения.
		if !parent.IsApproved {
			lg.Warn("invalid argument: parent pending moderation", slog.String("parent_id", parent.ID.String()))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
	}

	now := time.Now().UTC()
	c := &models.Comment{
		ID:         uuid.New(),
		PostID:     in.PostID,
		AuthorName: strings.TrimSpace(in.AuthorName),
		ParentID:   in.ParentID,
		Content:    in.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if viewer != nil {
		uid := viewer.UserID
		c.UserID = &uid
		c.IsApproved = true
		if c.AuthorName == "" {
			c.AuthorName = viewer.Username
		}
	} else {
		c.IsApproved = s.cfg.Comments.AutoApproveGuests
		if c.AuthorName == "" {
			c.AuthorName = s.cfg.Comments.GuestName
		}
	}

	if err := s.storage.CreateComment(ctx, c); err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			// Пост удалён между проверкой и вставкой.
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("create_comment_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("comment_created",
		slog.String("comment_id", c.ID.String()),
		slog.Bool("approved", c.IsApproved),
	)

	s.publish(ctx, events.New(events.TypeCommentCreated, events.CommentCreated{
		CommentID:  c.ID.String(),
		PostID:     c.PostID.String(),
		AuthorName: c.AuthorName,
		Pending:    !c.IsApproved,
	}))

	return c, nil
}

// CommentTree возвращает дерево одобренных неудалённых комментариев поста.
// Если viewer задан, отметки его лайков подтягиваются одним запросом.
func (s *Service) CommentTree(ctx context.Context, postID uuid.UUID, viewer *uuid.UUID) ([]*models.CommentNode, error) {
	const op = "service.comments.CommentTree"

	if err := s.ensurePostVisible(ctx, postID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comments, err := s.storage.CommentsByPost(ctx, postID, storage.CommentQuery{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var liked map[uuid.UUID]bool
	if viewer != nil && len(comments) > 0 {
		ids := make([]uuid.UUID, 0, len(comments))
		for _, c := range comments {
			ids = append(ids, c.ID)
		}

		liked, err = s.storage.LikedComments(ctx, *viewer, ids)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return buildTree(comments, liked, s.cfg.Comments.OrphanPolicy), nil
}

// DeleteComment мягко удаляет комментарий. Разрешено автору и администратору.
func (s *Service) DeleteComment(ctx context.Context, viewer models.Principal, id uuid.UUID) error {
	const op = "service.comments.DeleteComment"

	lg := log.From(ctx).With("op", op, "comment_id", id.String(), "user_id", viewer.UserID.String())

	c, err := s.storage.CommentByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	owner := c.UserID != nil && *c.UserID == viewer.UserID
	if !owner && !viewer.HasRole(models.RoleAdmin) {
		lg.Warn("delete_comment_forbidden")
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := s.storage.SoftDeleteComment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("comment_deleted")

	return nil
}

// ApproveComment одобряет комментарий из очереди модерации.
func (s *Service) ApproveComment(ctx context.Context, id uuid.UUID) error {
	const op = "service.comments.ApproveComment"

	if err := s.storage.ApproveComment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("comment_approved", slog.String("op", op), slog.String("comment_id", id.String()))

	return nil
}

// PendingComments — очередь модерации, старые первыми.
func (s *Service) PendingComments(ctx context.Context, limit int) ([]models.Comment, error) {
	const op = "service.comments.PendingComments"

	switch {
	case limit <= 0:
		limit = defaultPendingLimit
	case limit > maxPendingLimit:
		limit = maxPendingLimit
	}

	items, err := s.storage.PendingComments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// ensurePostVisible: пост существует, опубликован и не удалён.
func (s *Service) ensurePostVisible(ctx context.Context, postID uuid.UUID) error {
	if postID == uuid.Nil {
		return ErrInvalidArgument
	}

	post, err := s.storage.PostByID(ctx, postID, false)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}

		return err
	}

	if !post.IsPublished {
		return ErrNotFound
	}

	return nil
}
