package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/service"
	"github.com/pribylovaa/go-portfolio/mocks"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockStorage) {
	t.Helper()

	cfg := config.Config{
		Upload: config.UploadConfig{MaxBytes: 1024, AllowedExtensions: []string{".png"}},
		Auth: config.AuthConfig{
			JWTSecret:         "router-secret",
			SessionTokenTTL:   time.Hour,
			RefreshTokenTTL:   24 * time.Hour,
			Issuer:            "portfolio",
			Audience:          "portfolio-web",
			MinPasswordLength: 8,
		},
		Comments: config.CommentsConfig{OrphanPolicy: config.OrphanHide, GuestName: "Guest", MaxLength: 100},
		Blog:     config.BlogConfig{DefaultPageSize: 10, MaxPageSize: 50, SlugAttempts: 3},
	}

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, mocks.NewMockImageStorage(ctrl), mocks.NewMockMessageStorage(ctrl), cfg)

	h := NewRouter(svc, Options{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:        time.Second,
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})

	return h, st
}

// login выполняет вход через роутер и возвращает session-токен.
func login(t *testing.T, h http.Handler, st *mocks.MockStorage, role models.Role) (string, uuid.UUID) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret#123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Username: "u-" + string(role), PasswordHash: string(hash), Role: role, IsActive: true}
	st.EXPECT().UserByUsername(gomock.Any(), user.Username).Return(user, nil)
	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

	body := `{"username":"` + user.Username + `","password":"Secret#123"}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/Auth/login", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)

	return out.Token, user.ID
}

func do(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestRouter(t)

	cases := []struct{ method, target string }{
		{http.MethodGet, "/Auth/me"},
		{http.MethodPost, "/Auth/register"},
		{http.MethodPost, "/Blog"},
		{http.MethodPost, "/Blog/" + uuid.NewString() + "/like"},
		{http.MethodDelete, "/Blog/comments/" + uuid.NewString()},
		{http.MethodGet, "/Blog/comments/pending"},
		{http.MethodPost, "/BlogCategory"},
		{http.MethodPost, "/Upload/image"},
		{http.MethodGet, "/Contact"},
	}

	for _, c := range cases {
		rr := do(h, c.method, c.target, "")
		require.Equal(t, http.StatusUnauthorized, rr.Code, c.method+" "+c.target)
		require.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	}
}

func TestRouter_InvalidToken(t *testing.T) {
	h, st := newTestRouter(t)

	// Публичный маршрут обслуживается анонимно.
	st.EXPECT().ListCategories(gomock.Any(), false).Return(nil, nil)
	rr := do(h, http.MethodGet, "/BlogCategory", "garbage")
	require.Equal(t, http.StatusOK, rr.Code)

	// Защищённый получает обобщённый 401 без причины.
	rr = do(h, http.MethodGet, "/Auth/me", "garbage")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.NotContains(t, rr.Body.String(), service.ErrInvalidToken.Error())
	require.Contains(t, rr.Body.String(), `"details":"unauthorized"`)
}

func TestRouter_RoleChecks(t *testing.T) {
	h, st := newTestRouter(t)

	token, userID := login(t, h, st, models.RoleWriter)

	st.EXPECT().UserByID(gomock.Any(), userID).Return(&models.User{ID: userID, Username: "u-Writer", Role: models.RoleWriter, IsActive: true}, nil)
	rr := do(h, http.MethodGet, "/Auth/me", token)
	require.Equal(t, http.StatusOK, rr.Code)

	// Writer не администратор.
	rr = do(h, http.MethodGet, "/Contact", token)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.NotContains(t, rr.Body.String(), service.ErrForbidden.Error())

	rr = do(h, http.MethodGet, "/Blog/comments/pending", token)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_PublicBlogRoutes(t *testing.T) {
	h, st := newTestRouter(t)

	st.EXPECT().ListPosts(gomock.Any(), models.PostFilter{Page: 1, PageSize: 10}).Return(nil, int64(0), nil)
	rr := do(h, http.MethodGet, "/Blog", "")
	require.Equal(t, http.StatusOK, rr.Code)

	st.EXPECT().ViewPostBySlug(gomock.Any(), "hello", false).Return(&models.Post{ID: uuid.New(), Slug: "hello"}, nil)
	rr = do(h, http.MethodGet, "/Blog/hello", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodGet, "/Blog/not-a-uuid/comments", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/Blog", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}
