package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-portfolio/internal/metrics"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/pkg/redact"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// CreateUserInput — регистрация пользователя администратором.
type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Role     models.Role
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming выполняет bcrypt-сравнение с заглушкой, чтобы ответ на
// неизвестный логин занимал столько же времени, сколько на неверный пароль.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login выполняет вход по логину и паролю.
// Неизвестный логин, неверный пароль и неактивный пользователь неразличимы
// для клиента: всегда ErrInvalidCredentials, причина — только в логах.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	const op = "service.auth.Login"

	username = strings.TrimSpace(username)
	lg := log.From(ctx).With("op", op, "username", redact.Username(username))

	if username == "" || password == "" {
		lg.Warn("login_rejected", slog.String("reason", "empty_credentials"))
		metrics.AuthEvents.WithLabelValues(metrics.AuthLoginFailed).Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			equalizeTiming(password)
			lg.Warn("login_rejected", slog.String("reason", "unknown_user"))
			metrics.AuthEvents.WithLabelValues(metrics.AuthLoginFailed).Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		lg.Error("user_lookup_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		lg.Warn("login_rejected", slog.String("reason", "wrong_password"))
		metrics.AuthEvents.WithLabelValues(metrics.AuthLoginFailed).Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if !user.IsActive {
		lg.Warn("login_rejected", slog.String("reason", "inactive_user"))
		metrics.AuthEvents.WithLabelValues(metrics.AuthLoginFailed).Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	sess, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.AuthEvents.WithLabelValues(metrics.AuthLoginOK).Inc()
	lg.Info("login_succeeded", slog.String("user_id", user.ID.String()))

	return sess, nil
}

// Renew обменивает refresh-токен на новую пару.
//
// Поведение:
//   - неизвестный/истёкший/отозванный токен и неактивный владелец — отказ;
//   - если передан session-токен (допускается истёкший), его подпись проверяется,
//     а субъект обязан совпадать с владельцем refresh-токена;
//   - старый токен отзывается одним условным UPDATE, поэтому из двух
//     конкурентных обновлений с одним токеном успешно ровно одно.
func (s *Service) Renew(ctx context.Context, sessionToken, refreshToken string) (*models.Session, error) {
	const op = "service.auth.Renew"

	lg := log.From(ctx).With("op", op)

	sess, err := s.renew(ctx, lg, sessionToken, refreshToken)
	if err != nil {
		metrics.AuthEvents.WithLabelValues(metrics.AuthRenewRejected).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.AuthEvents.WithLabelValues(metrics.AuthRenewOK).Inc()

	return sess, nil
}

func (s *Service) renew(ctx context.Context, lg *slog.Logger, sessionToken, refreshToken string) (*models.Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		lg.Warn("renew_rejected", slog.String("reason", "empty_refresh_token"))
		return nil, ErrInvalidToken
	}

	hash := hashRefreshToken(refreshToken)

	token, err := s.lookupRefreshToken(ctx, hash)
	if err != nil {
		return nil, err
	}

	if sessionToken = strings.TrimSpace(sessionToken); sessionToken != "" {
		claims, err := s.parseSessionToken(sessionToken, true)
		if err != nil {
			lg.Warn("renew_rejected", slog.String("reason", "bad_session_token"))
			return nil, err
		}

		if claims.UserID != token.UserID.String() {
			lg.Warn("renew_rejected",
				slog.String("reason", "subject_mismatch"),
				slog.String("user_id", token.UserID.String()),
			)
			return nil, ErrInvalidToken
		}
	}

	user, err := s.storage.UserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("renew_rejected", slog.String("reason", "owner_not_found"))
			return nil, ErrInvalidToken
		}

		return nil, err
	}

	if !user.IsActive {
		lg.Warn("renew_rejected",
			slog.String("reason", "owner_inactive"),
			slog.String("user_id", user.ID.String()),
		)
		return nil, ErrInvalidCredentials
	}

	if _, err := s.storage.ConsumeRefreshToken(ctx, hash, time.Now().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Токен успели использовать или отозвать между чтением и UPDATE.
			lg.Warn("renew_rejected",
				slog.String("reason", "lost_rotation_race"),
				slog.String("user_id", user.ID.String()),
			)
			return nil, ErrTokenRevoked
		}

		return nil, err
	}
	s.cacheRevoked(ctx, hash)

	return s.issueTokenPair(ctx, user)
}

// Revoke отзывает refresh-токен. true — токен был активен и отозван сейчас.
// Неизвестный или уже неактивный токен — (false, nil).
func (s *Service) Revoke(ctx context.Context, refreshToken string) (bool, error) {
	const op = "service.auth.Revoke"

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	hash := hashRefreshToken(refreshToken)

	revoked, err := s.storage.RevokeRefreshToken(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	if revoked {
		s.cacheRevoked(ctx, hash)
		metrics.AuthEvents.WithLabelValues(metrics.AuthRevoked).Inc()
		log.From(ctx).Info("refresh_revoked", slog.String("op", op))
	}

	return revoked, nil
}

// ValidateSessionToken — stateless-проверка подписи и срока session-токена.
func (s *Service) ValidateSessionToken(ctx context.Context, token string) (*models.Principal, error) {
	const op = "service.auth.ValidateSessionToken"

	claims, err := s.parseSessionToken(token, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := principalFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// Me возвращает профиль текущего пользователя.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "service.auth.Me"

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// CreateUser регистрирует пользователя (операция администратора).
// Роль по умолчанию — User.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	const op = "service.auth.CreateUser"

	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	lg := log.From(ctx).With("op", op, "username", redact.Username(in.Username))

	if err := validateUsername(in.Username); err != nil {
		lg.Warn("invalid argument: username")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		lg.Warn("invalid argument: role", slog.String("role", string(in.Role)))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := validatePassword(in.Password, s.cfg.Auth.MinPasswordLength); err != nil {
		lg.Warn("weak_password")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     in.Username,
		FullName:     in.FullName,
		PasswordHash: hashed,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			lg.Warn("username_taken")
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		lg.Error("save_user_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user_created", slog.String("user_id", user.ID.String()), slog.String("role", string(user.Role)))

	return user, nil
}

// issueTokenPair — единственный путь выпуска пары session+refresh.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.Session, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	session, exp, err := s.generateSessionToken(ctx, user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plain, stored, err := s.generateRefreshToken(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.cacheRefresh(ctx, stored)

	return &models.Session{
		Tokens: models.TokenPair{
			SessionToken:     session,
			RefreshToken:     plain,
			SessionExpiresAt: exp,
		},
		User: *user,
	}, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateUsername: 3..50 символов, буквы, цифры и . _ -
func validateUsername(u string) error {
	n := len([]rune(u))
	if n < 3 || n > 50 {
		return ErrInvalidArgument
	}

	for _, r := range u {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-') {
			return ErrInvalidArgument
		}
	}

	return nil
}

// validatePassword проверяет минимальные требования к паролю:
// длина >= minLen, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string, minLen int) error {
	if minLen <= 0 {
		minLen = 8
	}

	if len([]rune(pw)) < minLen {
		return ErrWeakPassword
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return ErrWeakPassword
	}

	return nil
}
