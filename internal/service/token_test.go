package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

func signClaims(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims(uid uuid.UUID, now time.Time) jwt.MapClaims {
	cfg := testConfig().Auth
	return jwt.MapClaims{
		"uid":      uid.String(),
		"username": "alice",
		"role":     string(models.RoleUser),
		"sub":      uid.String(),
		"iss":      cfg.Issuer,
		"aud":      []string{cfg.Audience},
		"iat":      now.Unix(),
		"exp":      now.Add(time.Hour).Unix(),
		"jti":      uuid.NewString(),
	}
}

func TestValidateSessionToken_Rejections(t *testing.T) {
	t.Parallel()

	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	secret := testConfig().Auth.JWTSecret
	uid := uuid.New()
	now := time.Now().UTC()

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{
			name:    "garbage",
			token:   func() string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong alg",
			token:   func() string { return signClaims(t, jwt.SigningMethodHS512, secret, baseClaims(uid, now)) },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong secret",
			token:   func() string { return signClaims(t, jwt.SigningMethodHS256, "other", baseClaims(uid, now)) },
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := baseClaims(uid, now)
				c["iss"] = "someone-else"
				return signClaims(t, jwt.SigningMethodHS256, secret, c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong audience",
			token: func() string {
				c := baseClaims(uid, now)
				c["aud"] = []string{"unexpected"}
				return signClaims(t, jwt.SigningMethodHS256, secret, c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "unknown role",
			token: func() string {
				c := baseClaims(uid, now)
				c["role"] = "Root"
				return signClaims(t, jwt.SigningMethodHS256, secret, c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "subject differs from uid",
			token: func() string {
				c := baseClaims(uid, now)
				c["sub"] = uuid.NewString()
				return signClaims(t, jwt.SigningMethodHS256, secret, c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "no exp",
			token: func() string {
				c := baseClaims(uid, now)
				delete(c, "exp")
				return signClaims(t, jwt.SigningMethodHS256, secret, c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: func() string {
				c := baseClaims(uid, now.Add(-3*time.Hour))
				return signClaims(t, jwt.SigningMethodHS256, secret, c)
			},
			wantErr: ErrTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ValidateSessionToken(context.Background(), tt.token())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateSessionToken_OK(t *testing.T) {
	t.Parallel()

	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	uid := uuid.New()
	signed := signClaims(t, jwt.SigningMethodHS256, testConfig().Auth.JWTSecret, baseClaims(uid, time.Now().UTC()))

	p, err := s.ValidateSessionToken(context.Background(), signed)
	require.NoError(t, err)
	require.Equal(t, uid, p.UserID)
	require.Equal(t, models.RoleUser, p.Role)
}

func TestGenerateRefreshToken_CollisionRetries_ThenSuccess(t *testing.T) {
	t.Parallel()

	s, d, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	gomock.InOrder(
		d.st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists),
		d.st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil),
	)

	plain, rt, err := s.generateRefreshToken(context.Background(), uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	require.NotEmpty(t, plain)
	require.Equal(t, hashRefreshToken(plain), rt.TokenHash)
}

func TestGenerateRefreshToken_CollisionExceeded(t *testing.T) {
	t.Parallel()

	s, d, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	d.st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists).Times(5)

	_, _, err := s.generateRefreshToken(context.Background(), uuid.New(), time.Now().UTC())
	require.ErrorIs(t, err, ErrRefreshTokenCollision)
}

func TestGenerateRefreshToken_StorageError(t *testing.T) {
	t.Parallel()

	s, d, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	boom := errors.New("db down")
	d.st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(boom)

	_, _, err := s.generateRefreshToken(context.Background(), uuid.New(), time.Now().UTC())
	require.ErrorIs(t, err, boom)
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, hashRefreshToken("abc"), hashRefreshToken("abc"))
	require.NotEqual(t, hashRefreshToken("abc"), hashRefreshToken("abd"))
}
