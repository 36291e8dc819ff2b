// service содержит бизнес-логику портфолио-бэкенда:
// аутентификацию и ротацию сессий, посты и категории блога,
// дерево комментариев, лайки, загрузку изображений и форму обратной связи.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для
//     конкурентного использования при потокобезопасных хранилищах.
//   - Ошибки возвращаются как sentinel-значения ниже, обёрнутые через
//     fmt.Errorf("%s: %w", op, err); транспорт маппит их через errors.Is.
//   - Проверка ролей выполняется транспортом; сервис проверяет только
//     владение (удаление комментария).
package service

import (
	"errors"

	"github.com/yuin/goldmark"

	"github.com/pribylovaa/go-portfolio/internal/cache"
	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/internal/events"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

var (
	// ErrInvalidCredentials — неизвестный логин, неверный пароль или неактивный пользователь.
	// Причина различается только в логах. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен некорректен по формату/подписи, неизвестен
	// или принадлежит другому пользователю. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен отозван (logout/ротация). HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUnauthorized — операция требует аутентификации. HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden — недостаточно прав (роль/владение). HTTP 401.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound — сущность отсутствует или скрыта мягким удалением. HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument — неверные входные данные. HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrWeakPassword — пароль не проходит политику сложности. HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrUsernameTaken — логин занят. HTTP 400.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrSlugTaken — slug занят, либо исчерпаны попытки подобрать свободный. HTTP 400.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrCategoryInUse — на категорию ссылаются посты. HTTP 400.
	ErrCategoryInUse = errors.New("category in use")

	// ErrInvalidFile — недопустимое расширение или пустой файл. HTTP 400.
	ErrInvalidFile = errors.New("invalid file type")

	// ErrFileTooLarge — файл больше upload.max_bytes. HTTP 400.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidCursor — битый page_token. HTTP 400.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrRefreshTokenCollision — исчерпаны попытки сгенерировать уникальный refresh-токен. HTTP 500.
	ErrRefreshTokenCollision = errors.New("refresh token collision")
)

// Service описывает бизнес-логику портфолио-бэкенда.
type Service struct {
	storage storage.Storage
	images  storage.ImageStorage
	inbox   storage.MessageStorage
	cfg     config.Config
	rcache  cache.RefreshCache // может быть nil, если кэш не сконфигурирован
	events  events.Publisher
	md      goldmark.Markdown
}

// New создаёт новый экземпляр Service.
func New(st storage.Storage, images storage.ImageStorage, inbox storage.MessageStorage, cfg config.Config) *Service {
	return &Service{
		storage: st,
		images:  images,
		inbox:   inbox,
		cfg:     cfg,
		events:  events.Nop{},
		md:      newMarkdown(),
	}
}

// SetRefreshCache устанавливает кэш refresh-токенов (опционально).
func (s *Service) SetRefreshCache(c cache.RefreshCache) {
	s.rcache = c
}

// SetPublisher устанавливает публикатор доменных событий (опционально).
func (s *Service) SetPublisher(p events.Publisher) {
	if p == nil {
		p = events.Nop{}
	}
	s.events = p
}
