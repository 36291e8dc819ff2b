package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/go-portfolio/internal/errors"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/service"
)

// TokenValidator — stateless-проверка session-токена.
type TokenValidator interface {
	ValidateSessionToken(ctx context.Context, token string) (*models.Principal, error)
}

type ctxKeyPrincipal struct{}

type ctxKeyAuthErr struct{}

// Authenticate разбирает заголовок Authorization: Bearer <token>.
// Валидный токен кладёт Principal в контекст. Невалидный не прерывает
// запрос: публичные маршруты обслуживаются анонимно, а RequireAuth
// отвечает обобщённым 401 и пишет сохранённую причину в лог.
func Authenticate(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			p, err := v.ValidateSessionToken(ctx, token)
			if err != nil {
				log.From(ctx).Debug("bearer_rejected", slog.String("err", err.Error()))
				next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKeyAuthErr{}, err)))
				return
			}

			ctx = context.WithValue(ctx, ctxKeyPrincipal{}, p)
			ctx = log.With(ctx, slog.String("user_id", p.UserID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth пропускает только аутентифицированные запросы.
func RequireAuth() Middleware {
	return RequireRole()
}

// RequireRole пропускает запросы с одной из ролей; без ролей — любой аутентифицированный.
// Несоответствие роли отвечает 401, как и отсутствие аутентификации.
func RequireRole(roles ...models.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				err := service.ErrUnauthorized
				if authErr, _ := r.Context().Value(ctxKeyAuthErr{}).(error); authErr != nil {
					err = authErr
				}
				log.From(r.Context()).Info("auth_rejected",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()),
				)
				apierrors.WriteError(w, r, err)
				return
			}

			if len(roles) > 0 && !p.HasRole(roles...) {
				log.From(r.Context()).Warn("role_mismatch",
					slog.String("role", string(p.Role)),
					slog.String("path", r.URL.Path),
				)
				apierrors.WriteError(w, r, service.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFrom возвращает аутентифицированного субъекта запроса.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal{}).(*models.Principal)
	return p, ok && p != nil
}

// WithPrincipal кладёт субъекта в контекст (тесты и внутренние вызовы).
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal{}, p)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
