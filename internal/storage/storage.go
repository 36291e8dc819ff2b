// storage задаёт контракты хранилищ и их sentinel-ошибки.
// Реализации: postgres (пользователи, сессии, блог), minio (изображения),
// mongo (входящие сообщения).
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/models"
)

var (
	// ErrNotFound — запись не найдена (или скрыта мягким удалением).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username/slug/token).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInUse — запись нельзя удалить, на неё есть ссылки.
	ErrInUse = errors.New("in use")
	// ErrInvalidReference — внешний ключ указывает на несуществующую запись.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidCursor — битый токен страницы.
	ErrInvalidCursor = errors.New("invalid cursor")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByUsername находит пользователя по логину без учёта регистра.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новый refresh-токен.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByHash находит refresh-токен по его хэшу.
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// ConsumeRefreshToken атомарно отзывает активный токен и возвращает владельца.
	// Неизвестный, отозванный или истёкший токен — ErrNotFound.
	ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) (uuid.UUID, error)
	// RevokeRefreshToken отзывает токен; true — если он был активен.
	RevokeRefreshToken(ctx context.Context, hash string) (bool, error)
	// DeleteExpiredTokens удаляет токены, истёкшие не позже before.
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}

// PostStorage выполняет операции над постами блога.
type PostStorage interface {
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	PostByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Post, error)
	// ViewPostBySlug возвращает пост и атомарно увеличивает счётчик просмотров.
	ViewPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int64, error)
	// SlugExists учитывает и удалённые посты: slug уникален глобально.
	SlugExists(ctx context.Context, slug string) (bool, error)
	SoftDeletePost(ctx context.Context, id uuid.UUID) error
}

// CategoryStorage выполняет операции над категориями.
type CategoryStorage interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	// DeleteCategory удаляет категорию физически; ErrInUse, если на неё ссылаются посты.
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// CommentQuery — фильтр выборки комментариев поста.
type CommentQuery struct {
	IncludeUnapproved bool
	IncludeDeleted    bool
}

// CommentStorage выполняет операции над комментариями.
type CommentStorage interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Comment, error)
	// CommentsByPost возвращает комментарии поста в порядке created_at ASC.
	CommentsByPost(ctx context.Context, postID uuid.UUID, q CommentQuery) ([]models.Comment, error)
	// PendingComments — очередь модерации (неодобренные, неудалённые), старые первыми.
	PendingComments(ctx context.Context, limit int) ([]models.Comment, error)
	ApproveComment(ctx context.Context, id uuid.UUID) error
	SoftDeleteComment(ctx context.Context, id uuid.UUID) error
}

// LikeStorage ведёт учёт лайков. Переключение выполняется в одной транзакции.
type LikeStorage interface {
	TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (models.LikeResult, error)
	ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (models.LikeResult, error)
	// LikedComments одним запросом возвращает подмножество ids, лайкнутых пользователем.
	LikedComments(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	// RecountLikes пересчитывает счётчики по таблицам лайков; возвращает число исправленных строк.
	RecountLikes(ctx context.Context) (int64, error)
}

// Storage задаёт контракт работы с реляционной БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	PostStorage
	CategoryStorage
	CommentStorage
	LikeStorage
	Close()
}

// ImageStorage — объектное хранилище изображений.
type ImageStorage interface {
	PutImage(ctx context.Context, img models.Image, body io.Reader) error
	// GetImage открывает объект на чтение; ErrNotFound, если ключа нет.
	GetImage(ctx context.Context, key string) (*models.ImageObject, error)
}

// MessageStorage — хранилище сообщений формы обратной связи.
type MessageStorage interface {
	SaveMessage(ctx context.Context, msg *models.ContactMessage) error
	// ListMessages — новые первыми, курсорная пагинация.
	ListMessages(ctx context.Context, params models.ListParams) (*models.ContactPage, error)
	MarkMessageRead(ctx context.Context, id string) error
}
