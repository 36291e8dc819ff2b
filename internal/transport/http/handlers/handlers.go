// handlers — HTTP-обработчики публичного API портфолио.
// Обработчики только разбирают запрос и сериализуют ответ; вся логика в service.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/go-portfolio/internal/errors"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/service"
)

// Service — операции бизнес-слоя, которые нужны обработчикам.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Renew(ctx context.Context, sessionToken, refreshToken string) (*models.Session, error)
	Revoke(ctx context.Context, refreshToken string) (bool, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, in service.CreateUserInput) (*models.User, error)

	ListPosts(ctx context.Context, f models.PostFilter) (*models.PostPage, error)
	PostBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.PostView, error)
	CreatePost(ctx context.Context, authorID uuid.UUID, in service.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, in service.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, in service.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateComment(ctx context.Context, viewer *models.Principal, in service.CreateCommentInput) (*models.Comment, error)
	CommentTree(ctx context.Context, postID uuid.UUID, viewer *uuid.UUID) ([]*models.CommentNode, error)
	DeleteComment(ctx context.Context, viewer models.Principal, id uuid.UUID) error
	ApproveComment(ctx context.Context, id uuid.UUID) error
	PendingComments(ctx context.Context, limit int) ([]models.Comment, error)

	TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (models.LikeResult, error)
	ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (models.LikeResult, error)

	UploadImage(ctx context.Context, in service.UploadInput) (string, error)
	OpenImage(ctx context.Context, key string) (*models.ImageObject, error)

	SubmitContactMessage(ctx context.Context, in service.ContactInput) (*models.ContactMessage, error)
	ListContactMessages(ctx context.Context, params models.ListParams) (*models.ContactPage, error)
	MarkContactMessageRead(ctx context.Context, id string) error
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc            Service
	maxUploadBytes int64
}

// New создаёт обработчики. maxUploadBytes ограничивает тело multipart-запроса.
func New(svc Service, maxUploadBytes int64) *Handlers {
	return &Handlers{svc: svc, maxUploadBytes: maxUploadBytes}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrBadRequest, err)
	}

	return nil
}

// uuidParam достаёт UUID из параметра маршрута.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", apierrors.ErrBadRequest, name)
	}

	return id, nil
}

// intQuery читает целочисленный query-параметр; пустое значение даёт def.
func intQuery(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", apierrors.ErrBadRequest, name)
	}

	return n, nil
}

// boolQuery — "true"/"1" включают флаг, всё прочее выключает.
func boolQuery(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
