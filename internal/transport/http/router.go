// http собирает публичный HTTP API портфолио на chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/transport/http/handlers"
	"github.com/pribylovaa/go-portfolio/internal/transport/http/middleware"
)

// Service — бизнес-слой: операции обработчиков и проверка session-токенов.
type Service interface {
	handlers.Service
	middleware.TokenValidator
}

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	CORSOrigins    []string
	MaxUploadBytes int64
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}
	root.Use(middleware.Authenticate(svc))

	registerRoutes(root, handlers.New(svc, opts.MaxUploadBytes))

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	editors := middleware.RequireRole(models.RoleWriter, models.RoleAdmin)
	admins := middleware.RequireRole(models.RoleAdmin)

	// auth
	r.Post("/Auth/login", h.Login)
	r.Post("/Auth/refresh-token", h.RefreshToken)
	r.Post("/Auth/revoke-token", h.RevokeToken)
	r.With(middleware.RequireAuth()).Get("/Auth/me", h.Me)
	r.With(admins).Post("/Auth/register", h.Register)

	// blog
	r.Route("/Blog", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.With(editors).Post("/", h.CreatePost)

		// Статичные сегменты /comments/... регистрируются до {slug}/{id}.
		r.Route("/comments", func(r chi.Router) {
			r.With(admins).Get("/pending", h.PendingComments)
			r.With(middleware.RequireAuth()).Post("/{id}/like", h.LikeComment)
			r.With(middleware.RequireAuth()).Delete("/{id}", h.DeleteComment)
			r.With(admins).Post("/{id}/approve", h.ApproveComment)
		})

		r.Get("/{slug}", h.PostBySlug)
		r.With(editors).Put("/{id}", h.UpdatePost)
		r.With(editors).Delete("/{id}", h.DeletePost)

		r.Get("/{id}/comments", h.CommentTree)
		r.Post("/{id}/comments", h.CreateComment)
		r.With(middleware.RequireAuth()).Post("/{id}/like", h.LikePost)
	})

	// categories
	r.Get("/BlogCategory", h.ListCategories)
	r.With(admins).Post("/BlogCategory", h.CreateCategory)
	r.With(admins).Delete("/BlogCategory/{id}", h.DeleteCategory)

	// uploads
	r.With(editors).Post("/Upload/image", h.UploadImage)
	r.Get("/uploads/*", h.ServeUpload)

	// contact
	r.Post("/Contact", h.SubmitContact)
	r.With(admins).Get("/Contact", h.ListContacts)
	r.With(admins).Post("/Contact/{id}/read", h.MarkContactRead)
}
