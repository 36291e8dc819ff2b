package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-portfolio/internal/cache"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// refreshTokenBytes — энтропия refresh-токена до кодирования.
const refreshTokenBytes = 64

type sessionClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// generateSessionToken выпускает подписанный HS256 JWT и возвращает момент его истечения.
func (s *Service) generateSessionToken(ctx context.Context, user *models.User, now time.Time) (string, time.Time, error) {
	const op = "service.token.generateSessionToken"

	exp := now.Add(s.cfg.Auth.SessionTokenTTL)
	claims := sessionClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Auth.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Auth.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		log.From(ctx).Error("session_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, exp, nil
}

// parseSessionToken проверяет подпись, издателя и аудиторию.
// При allowExpired срок действия не проверяется: так Renew принимает
// истёкший session-токен для сверки владельца.
func (s *Service) parseSessionToken(tokenStr string, allowExpired bool) (*sessionClaims, error) {
	const op = "service.token.parseSessionToken"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5 * time.Second),
		jwt.WithIssuer(s.cfg.Auth.Issuer),
		jwt.WithAudience(s.cfg.Auth.Audience),
		jwt.WithExpirationRequired(),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	// WithoutClaimsValidation отключает и проверку iss/aud — сверяем вручную.
	if allowExpired && (claims.Issuer != s.cfg.Auth.Issuer || !audienceContains(claims.Audience, s.cfg.Auth.Audience)) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

func audienceContains(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}

	return false
}

// principalFromClaims собирает субъекта запроса из claims.
func principalFromClaims(c *sessionClaims) (*models.Principal, error) {
	uid, err := uuid.Parse(c.UserID)
	if err != nil || c.Subject != c.UserID {
		return nil, ErrInvalidToken
	}

	role := models.Role(c.Role)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	return &models.Principal{UserID: uid, Username: c.Username, Role: role}, nil
}

// hashRefreshToken — sha256 от plain-токена в base64url; в БД хранится только он.
func hashRefreshToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// generateRefreshToken создаёт и сохраняет новый refresh-токен.
// Возвращает plain-значение (отдаётся клиенту один раз) и сохранённую запись.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID, now time.Time) (string, *models.RefreshToken, error) {
	const (
		op          = "service.token.generateRefreshToken"
		maxAttempts = 5
	)

	lg := log.From(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, refreshTokenBytes)
		if _, err := rand.Read(b); err != nil {
			lg.Error("refresh_rand_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", nil, fmt.Errorf("%s: %w", op, err)
		}
		plain := base64.StdEncoding.EncodeToString(b)

		token := &models.RefreshToken{
			TokenHash: hashRefreshToken(plain),
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.cfg.Auth.RefreshTokenTTL),
		}

		if err := s.storage.SaveRefreshToken(ctx, token); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				// Редкая коллизия — пробуем сгенерировать заново.
				continue
			}

			lg.Error("save_refresh_token_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", nil, fmt.Errorf("%s: %w", op, err)
		}

		return plain, token, nil
	}

	lg.Error("refresh_collision_exceeded", slog.String("op", op))

	return "", nil, fmt.Errorf("%s: %w", op, ErrRefreshTokenCollision)
}

// lookupRefreshToken находит активный refresh-токен по хэшу.
// Отозванный в кэше отклоняется без обращения к БД.
func (s *Service) lookupRefreshToken(ctx context.Context, hash string) (*models.RefreshToken, error) {
	const op = "service.token.lookupRefreshToken"

	lg := log.From(ctx)

	if s.rcache != nil {
		entry, ok, err := s.rcache.Get(ctx, hash)
		switch {
		case err != nil:
			lg.Warn("refresh_cache_get_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		case ok && entry.Revoked:
			lg.Warn("refresh_revoked_cached",
				slog.String("op", op),
				slog.String("user_id", entry.UserID.String()),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}
	}

	token, err := s.storage.RefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_lookup_not_found", slog.String("op", op))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("refresh_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if token.RevokedAt != nil {
		lg.Warn("refresh_revoked",
			slog.String("op", op),
			slog.String("user_id", token.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if !token.ExpiresAt.After(time.Now().UTC()) {
		lg.Warn("refresh_expired",
			slog.String("op", op),
			slog.String("user_id", token.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return token, nil
}

// cacheRefresh пишет запись в кэш; ошибки кэша не влияют на результат операции.
func (s *Service) cacheRefresh(ctx context.Context, t *models.RefreshToken) {
	if s.rcache == nil {
		return
	}

	entry := &cache.RefreshEntry{UserID: t.UserID, ExpiresAt: t.ExpiresAt}
	if err := s.rcache.Set(ctx, t.TokenHash, entry, time.Until(t.ExpiresAt)); err != nil {
		log.From(ctx).Warn("refresh_cache_set_failed", slog.String("err", err.Error()))
	}
}

// cacheRevoked помечает токен отозванным в кэше.
func (s *Service) cacheRevoked(ctx context.Context, hash string) {
	if s.rcache == nil {
		return
	}

	if err := s.rcache.MarkRevoked(ctx, hash); err != nil {
		log.From(ctx).Warn("refresh_cache_revoke_failed", slog.String("err", err.Error()))
	}
}
