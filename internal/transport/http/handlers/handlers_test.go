package handlers

// Тесты HTTP-обработчиков: реальный service поверх моков хранилищ.
//
//   go test ./internal/transport/http/handlers -v -race -count=1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/service"
	"github.com/pribylovaa/go-portfolio/internal/storage"
	"github.com/pribylovaa/go-portfolio/internal/transport/http/middleware"
	"github.com/pribylovaa/go-portfolio/mocks"
)

const testMaxUpload = 1024

func testConfig() config.Config {
	return config.Config{
		Upload: config.UploadConfig{
			MaxBytes:          testMaxUpload,
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		},
		Auth: config.AuthConfig{
			JWTSecret:         "handlers-secret",
			SessionTokenTTL:   24 * time.Hour,
			RefreshTokenTTL:   168 * time.Hour,
			Issuer:            "portfolio",
			Audience:          "portfolio-web",
			MinPasswordLength: 8,
		},
		Comments: config.CommentsConfig{
			OrphanPolicy: config.OrphanHide,
			GuestName:    "Guest",
			MaxLength:    2000,
		},
		Blog: config.BlogConfig{
			DefaultPageSize: 10,
			MaxPageSize:     50,
			SlugAttempts:    5,
		},
	}
}

type testEnv struct {
	h      *Handlers
	st     *mocks.MockStorage
	images *mocks.MockImageStorage
	inbox  *mocks.MockMessageStorage
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	env := testEnv{
		st:     mocks.NewMockStorage(ctrl),
		images: mocks.NewMockImageStorage(ctrl),
		inbox:  mocks.NewMockMessageStorage(ctrl),
	}

	svc := service.New(env.st, env.images, env.inbox, testConfig())
	env.h = New(svc, testMaxUpload)

	return env
}

// serve прогоняет запрос через chi-маршрут pattern; p != nil — аутентифицированный запрос.
func serve(method, pattern string, hf http.HandlerFunc, req *http.Request, p *models.Principal) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, hf)

	if p != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), p))
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type errBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Details    string `json:"details"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret#123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		FullName:     "Alice Doe",
		PasswordHash: string(hash),
		Role:         models.RoleWriter,
		IsActive:     true,
	}

	env.st.EXPECT().UserByUsername(gomock.Any(), "alice").Return(user, nil)
	env.st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

	rr := serve(http.MethodPost, "/Auth/login", env.h.Login,
		jsonReq(http.MethodPost, "/Auth/login", `{"username":"alice","password":"Secret#123"}`), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	out := decode[sessionResponse](t, rr)
	require.NotEmpty(t, out.Token)
	require.NotEmpty(t, out.RefreshToken)
	require.Equal(t, "alice", out.Username)
	require.Equal(t, "Alice Doe", out.FullName)
	require.Equal(t, []string{"Writer"}, out.Roles)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), out.Expiration, time.Minute)
}

func TestLogin_Errors(t *testing.T) {
	t.Run("unknown user -> 401", func(t *testing.T) {
		env := newTestEnv(t)
		env.st.EXPECT().UserByUsername(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

		rr := serve(http.MethodPost, "/Auth/login", env.h.Login,
			jsonReq(http.MethodPost, "/Auth/login", `{"username":"ghost","password":"x"}`), nil)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Equal(t, http.StatusUnauthorized, decode[errBody](t, rr).StatusCode)
	})

	t.Run("unknown field -> 400", func(t *testing.T) {
		env := newTestEnv(t)

		rr := serve(http.MethodPost, "/Auth/login", env.h.Login,
			jsonReq(http.MethodPost, "/Auth/login", `{"username":"a","password":"b","extra":1}`), nil)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRefreshToken_RejectionsIndistinguishable(t *testing.T) {
	revokedAt := time.Now().UTC().Add(-time.Minute)
	userID := uuid.New()

	lookups := map[string]func(*mocks.MockStorage){
		"unknown": func(st *mocks.MockStorage) {
			st.EXPECT().RefreshTokenByHash(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)
		},
		"revoked": func(st *mocks.MockStorage) {
			st.EXPECT().RefreshTokenByHash(gomock.Any(), gomock.Any()).Return(&models.RefreshToken{
				UserID: userID, ExpiresAt: time.Now().Add(time.Hour), RevokedAt: &revokedAt,
			}, nil)
		},
		"expired": func(st *mocks.MockStorage) {
			st.EXPECT().RefreshTokenByHash(gomock.Any(), gomock.Any()).Return(&models.RefreshToken{
				UserID: userID, ExpiresAt: time.Now().Add(-time.Hour),
			}, nil)
		},
		"inactive owner": func(st *mocks.MockStorage) {
			st.EXPECT().RefreshTokenByHash(gomock.Any(), gomock.Any()).Return(&models.RefreshToken{
				UserID: userID, ExpiresAt: time.Now().Add(time.Hour),
			}, nil)
			st.EXPECT().UserByID(gomock.Any(), userID).Return(&models.User{ID: userID, IsActive: false}, nil)
		},
	}

	bodies := make(map[string]string, len(lookups))
	for name, setup := range lookups {
		env := newTestEnv(t)
		setup(env.st)

		req := jsonReq(http.MethodPost, "/Auth/refresh-token", `{"refreshToken":"stolen"}`)
		req.Header.Set("X-Request-Id", "rid-fixed")
		rr := serve(http.MethodPost, "/Auth/refresh-token", env.h.RefreshToken, req, nil)

		require.Equal(t, http.StatusUnauthorized, rr.Code, name)
		bodies[name] = rr.Body.String()
	}

	for name, body := range bodies {
		require.Equal(t, bodies["unknown"], body, name)
	}
	require.Contains(t, bodies["unknown"], `"details":"unauthorized"`)
}

func TestRevokeToken_Unknown(t *testing.T) {
	env := newTestEnv(t)
	env.st.EXPECT().RevokeRefreshToken(gomock.Any(), gomock.Any()).Return(false, nil)

	rr := serve(http.MethodPost, "/Auth/revoke-token", env.h.RevokeToken,
		jsonReq(http.MethodPost, "/Auth/revoke-token", `{"refreshToken":"nope"}`), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.False(t, decode[revokeResponse](t, rr).Revoked)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Username: "bob", Role: models.RoleUser}

	env.st.EXPECT().UserByID(gomock.Any(), p.UserID).Return(&models.User{
		ID: p.UserID, Username: "bob", FullName: "Bob", Role: models.RoleUser, IsActive: true,
	}, nil)

	rr := serve(http.MethodGet, "/Auth/me", env.h.Me, httptest.NewRequest(http.MethodGet, "/Auth/me", nil), p)

	require.Equal(t, http.StatusOK, rr.Code)
	out := decode[userResponse](t, rr)
	require.Equal(t, p.UserID, out.ID)
	require.Equal(t, []string{"User"}, out.Roles)
}

func TestListPosts_QueryAndPaging(t *testing.T) {
	env := newTestEnv(t)

	env.st.EXPECT().
		ListPosts(gomock.Any(), models.PostFilter{Page: 2, PageSize: 50, CategorySlug: "go", Search: "chi"}).
		Return([]models.Post{{ID: uuid.New(), Slug: "a", ContentEn: "body"}}, int64(51), nil)

	rr := serve(http.MethodGet, "/Blog", env.h.ListPosts,
		httptest.NewRequest(http.MethodGet, "/Blog?page=2&pageSize=500&category=go&search=chi&includeDrafts=true", nil), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	out := decode[postListResponse](t, rr)
	require.Len(t, out.Items, 1)
	require.Empty(t, out.Items[0].ContentEn)
	require.EqualValues(t, 51, out.TotalCount)
	require.Equal(t, 2, out.Page)
	require.Equal(t, 50, out.PageSize)
	require.EqualValues(t, 2, out.TotalPages)
}

func TestListPosts_BadPage(t *testing.T) {
	env := newTestEnv(t)

	rr := serve(http.MethodGet, "/Blog", env.h.ListPosts, httptest.NewRequest(http.MethodGet, "/Blog?page=abc", nil), nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListPosts_EditorSeesDrafts(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}

	env.st.EXPECT().
		ListPosts(gomock.Any(), models.PostFilter{Page: 1, PageSize: 10, IncludeDrafts: true}).
		Return(nil, int64(0), nil)

	rr := serve(http.MethodGet, "/Blog", env.h.ListPosts,
		httptest.NewRequest(http.MethodGet, "/Blog?includeDrafts=true", nil), p)

	require.Equal(t, http.StatusOK, rr.Code)
	out := decode[postListResponse](t, rr)
	require.NotNil(t, out.Items)
	require.Empty(t, out.Items)
}

// includeDeleted игнорируется даже для администратора.
func TestListPosts_DeletedNeverListed(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}

	env.st.EXPECT().
		ListPosts(gomock.Any(), models.PostFilter{Page: 1, PageSize: 10}).
		Return(nil, int64(0), nil)

	rr := serve(http.MethodGet, "/Blog", env.h.ListPosts,
		httptest.NewRequest(http.MethodGet, "/Blog?includeDeleted=true", nil), p)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestPostBySlug_RendersMarkdown(t *testing.T) {
	env := newTestEnv(t)

	env.st.EXPECT().ViewPostBySlug(gomock.Any(), "hello-world", false).Return(&models.Post{
		ID:          uuid.New(),
		Slug:        "hello-world",
		ContentEn:   "# Hello",
		ContentTr:   "**Merhaba**",
		IsPublished: true,
		ViewCount:   8,
	}, nil)

	rr := serve(http.MethodGet, "/Blog/{slug}", env.h.PostBySlug,
		httptest.NewRequest(http.MethodGet, "/Blog/hello-world", nil), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	out := decode[postResponse](t, rr)
	require.Contains(t, out.ContentHTMLEn, "<h1")
	require.Contains(t, out.ContentHTMLTr, "<strong>Merhaba</strong>")
	require.EqualValues(t, 8, out.ViewCount)
}

func TestPostBySlug_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.st.EXPECT().ViewPostBySlug(gomock.Any(), "missing", false).Return(nil, storage.ErrNotFound)

	rr := serve(http.MethodGet, "/Blog/{slug}", env.h.PostBySlug,
		httptest.NewRequest(http.MethodGet, "/Blog/missing", nil), nil)

	require.Equal(t, http.StatusNotFound, rr.Code)
	out := decode[errBody](t, rr)
	require.Equal(t, "Resource not found", out.Message)
}

func TestCreatePost_DerivesSlug(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleWriter}
	categoryID := uuid.New()

	env.st.EXPECT().SlugExists(gomock.Any(), "hello-world").Return(false, nil)
	env.st.EXPECT().CreatePost(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, post *models.Post) error {
		require.Equal(t, "hello-world", post.Slug)
		require.Equal(t, p.UserID, *post.AuthorID)
		return nil
	})

	body := `{"titleEn":"Hello World","titleTr":"Merhaba","contentEn":"x","contentTr":"y","categoryId":"` + categoryID.String() + `"}`
	rr := serve(http.MethodPost, "/Blog", env.h.CreatePost, jsonReq(http.MethodPost, "/Blog", body), p)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Equal(t, "hello-world", decode[postResponse](t, rr).Slug)
}

func TestDeletePost_BadID(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}

	rr := serve(http.MethodDelete, "/Blog/{id}", env.h.DeletePost,
		httptest.NewRequest(http.MethodDelete, "/Blog/not-a-uuid", nil), p)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLikePost_Toggle(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleUser}
	postID := uuid.New()

	gomock.InOrder(
		env.st.EXPECT().TogglePostLike(gomock.Any(), postID, p.UserID).Return(models.LikeResult{Liked: true, LikeCount: 1}, nil),
		env.st.EXPECT().TogglePostLike(gomock.Any(), postID, p.UserID).Return(models.LikeResult{Liked: false, LikeCount: 0}, nil),
	)

	for _, want := range []likeResponse{{Liked: true, LikeCount: 1}, {Liked: false, LikeCount: 0}} {
		rr := serve(http.MethodPost, "/Blog/{id}/like", env.h.LikePost,
			httptest.NewRequest(http.MethodPost, "/Blog/"+postID.String()+"/like", nil), p)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, want, decode[likeResponse](t, rr))
	}
}

func TestCommentTree_Nested(t *testing.T) {
	env := newTestEnv(t)
	viewer := &models.Principal{UserID: uuid.New(), Role: models.RoleUser}
	postID := uuid.New()

	now := time.Now().UTC()
	a := models.Comment{ID: uuid.New(), PostID: postID, Content: "A", IsApproved: true, CreatedAt: now}
	b := models.Comment{ID: uuid.New(), PostID: postID, ParentID: &a.ID, Content: "B", IsApproved: true, CreatedAt: now.Add(time.Second)}
	c := models.Comment{ID: uuid.New(), PostID: postID, ParentID: &b.ID, Content: "C", IsApproved: true, CreatedAt: now.Add(2 * time.Second)}

	env.st.EXPECT().PostByID(gomock.Any(), postID, false).Return(&models.Post{ID: postID, IsPublished: true}, nil)
	env.st.EXPECT().CommentsByPost(gomock.Any(), postID, storage.CommentQuery{}).Return([]models.Comment{a, b, c}, nil)
	env.st.EXPECT().LikedComments(gomock.Any(), viewer.UserID, []uuid.UUID{a.ID, b.ID, c.ID}).
		Return(map[uuid.UUID]bool{b.ID: true}, nil)

	rr := serve(http.MethodGet, "/Blog/{id}/comments", env.h.CommentTree,
		httptest.NewRequest(http.MethodGet, "/Blog/"+postID.String()+"/comments", nil), viewer)

	require.Equal(t, http.StatusOK, rr.Code)

	tree := decode[[]commentNodeResponse](t, rr)
	require.Len(t, tree, 1)
	require.Equal(t, "A", tree[0].Content)
	require.False(t, tree[0].LikedByViewer)
	require.Len(t, tree[0].Replies, 1)
	require.Equal(t, "B", tree[0].Replies[0].Content)
	require.True(t, tree[0].Replies[0].LikedByViewer)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	require.Equal(t, "C", tree[0].Replies[0].Replies[0].Content)
}

func TestCreateComment_GuestPending(t *testing.T) {
	env := newTestEnv(t)
	postID := uuid.New()

	env.st.EXPECT().PostByID(gomock.Any(), postID, false).Return(&models.Post{ID: postID, IsPublished: true}, nil)
	env.st.EXPECT().CreateComment(gomock.Any(), gomock.Any()).Return(nil)

	rr := serve(http.MethodPost, "/Blog/{id}/comments", env.h.CreateComment,
		jsonReq(http.MethodPost, "/Blog/"+postID.String()+"/comments", `{"content":"hi"}`), nil)

	require.Equal(t, http.StatusCreated, rr.Code)
	out := decode[commentResponse](t, rr)
	require.False(t, out.IsApproved)
	require.Equal(t, "Guest", out.AuthorName)
}

func TestDeleteComment_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleUser}
	other := uuid.New()
	id := uuid.New()

	env.st.EXPECT().CommentByID(gomock.Any(), id, false).Return(&models.Comment{ID: id, UserID: &other}, nil)

	rr := serve(http.MethodDelete, "/Blog/comments/{id}", env.h.DeleteComment,
		httptest.NewRequest(http.MethodDelete, "/Blog/comments/"+id.String(), nil), p)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDeleteCategory_InUse(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}
	id := uuid.New()

	env.st.EXPECT().DeleteCategory(gomock.Any(), id).Return(storage.ErrInUse)

	rr := serve(http.MethodDelete, "/BlogCategory/{id}", env.h.DeleteCategory,
		httptest.NewRequest(http.MethodDelete, "/BlogCategory/"+id.String(), nil), p)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, service.ErrCategoryInUse.Error(), decode[errBody](t, rr).Details)
}

func multipartReq(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/Upload/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleWriter}

	t.Run("ok", func(t *testing.T) {
		env := newTestEnv(t)

		env.images.EXPECT().PutImage(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, img models.Image, body io.Reader) error {
				require.True(t, strings.HasPrefix(img.Key, "images/"))
				require.True(t, strings.HasSuffix(img.Key, ".png"))
				require.Equal(t, "image/png", img.ContentType)
				data, err := io.ReadAll(body)
				require.NoError(t, err)
				require.Equal(t, "png-bytes", string(data))
				return nil
			})

		rr := serve(http.MethodPost, "/Upload/image", env.h.UploadImage,
			multipartReq(t, "file", "cover.PNG", []byte("png-bytes")), p)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		out := decode[uploadResponse](t, rr)
		require.True(t, strings.HasPrefix(out.URL, "/uploads/images/"))
	})

	t.Run("bad extension", func(t *testing.T) {
		env := newTestEnv(t)

		rr := serve(http.MethodPost, "/Upload/image", env.h.UploadImage,
			multipartReq(t, "file", "script.exe", []byte("MZ")), p)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Equal(t, service.ErrInvalidFile.Error(), decode[errBody](t, rr).Details)
	})

	t.Run("too large", func(t *testing.T) {
		env := newTestEnv(t)

		rr := serve(http.MethodPost, "/Upload/image", env.h.UploadImage,
			multipartReq(t, "file", "big.jpg", bytes.Repeat([]byte("a"), testMaxUpload+1)), p)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Equal(t, service.ErrFileTooLarge.Error(), decode[errBody](t, rr).Details)
	})

	t.Run("missing field", func(t *testing.T) {
		env := newTestEnv(t)

		rr := serve(http.MethodPost, "/Upload/image", env.h.UploadImage,
			multipartReq(t, "other", "a.png", []byte("x")), p)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestServeUpload(t *testing.T) {
	env := newTestEnv(t)

	env.images.EXPECT().GetImage(gomock.Any(), "images/abc.png").Return(&models.ImageObject{
		Image: models.Image{Key: "images/abc.png", ContentType: "image/png", Size: 3},
		Body:  io.NopCloser(strings.NewReader("png")),
	}, nil)

	rr := serve(http.MethodGet, "/uploads/*", env.h.ServeUpload,
		httptest.NewRequest(http.MethodGet, "/uploads/images/abc.png", nil), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	require.Equal(t, "3", rr.Header().Get("Content-Length"))
	require.Equal(t, "png", rr.Body.String())
}

func TestServeUpload_OutsideImages(t *testing.T) {
	env := newTestEnv(t)

	rr := serve(http.MethodGet, "/uploads/*", env.h.ServeUpload,
		httptest.NewRequest(http.MethodGet, "/uploads/secrets/key.pem", nil), nil)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubmitContact(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv(t)
		env.inbox.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *models.ContactMessage) error {
			m.ID = "65f0c0ffee"
			return nil
		})

		rr := serve(http.MethodPost, "/Contact", env.h.SubmitContact,
			jsonReq(http.MethodPost, "/Contact", `{"name":"Ann","email":"ann@example.com","subject":"Hi","message":"Hello"}`), nil)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.Equal(t, "65f0c0ffee", decode[contactResponse](t, rr).ID)
	})

	t.Run("bad email", func(t *testing.T) {
		env := newTestEnv(t)

		rr := serve(http.MethodPost, "/Contact", env.h.SubmitContact,
			jsonReq(http.MethodPost, "/Contact", `{"name":"Ann","email":"nope","message":"Hello"}`), nil)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListContacts_Cursor(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}

	env.inbox.EXPECT().ListMessages(gomock.Any(), models.ListParams{PageSize: 2, PageToken: "cur"}).
		Return(&models.ContactPage{Items: []models.ContactMessage{{ID: "1"}, {ID: "2"}}, NextPageToken: "next"}, nil)

	rr := serve(http.MethodGet, "/Contact", env.h.ListContacts,
		httptest.NewRequest(http.MethodGet, "/Contact?pageSize=2&pageToken=cur", nil), p)

	require.Equal(t, http.StatusOK, rr.Code)
	out := decode[contactListResponse](t, rr)
	require.Len(t, out.Items, 2)
	require.Equal(t, "next", out.NextPageToken)
}
