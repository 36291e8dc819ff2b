// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает ошибку сервисного слоя (sentinel, обёрнутый через %w),
// на выход даёт:
//   - HTTP-статус;
//   - конверт {statusCode, message, details, requestId} без утечки внутренних деталей.
//
// Таблица маппинга:
//   - not found -> 404;
//   - неверные учётные данные, невалидный/истёкший/отозванный токен,
//     отсутствие аутентификации и несоответствие роли -> 401;
//   - ошибки ввода (валидация, файл, slug, категория в использовании, курсор) -> 400;
//   - клиент закрыл соединение -> 499, истёк дедлайн -> 504;
//   - прочее -> 500 с общим сообщением, подробности только в логах.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/go-portfolio/internal/service"
)

// Нестандартный код, часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// unauthorizedDetail — единственное уточнение для всех 401: причина отказа
// (неверный пароль, истёкший/отозванный токен, неактивный пользователь) только в логах.
const unauthorizedDetail = "unauthorized"

// ErrBadRequest — ошибка разбора запроса на транспортном уровне (битый JSON, UUID, multipart).
var ErrBadRequest = stderrors.New("bad request")

// ErrorResponse — единый формат ошибки для фронта.
// Details — безопасное уточнение причины для 4xx (для 401 одно и то же); для 5xx пусто.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
}

type rule struct {
	target  error
	status  int
	message string
}

// rules проверяются по порядку через errors.Is.
var rules = []rule{
	{service.ErrNotFound, http.StatusNotFound, "Resource not found"},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Unauthorized"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "Unauthorized"},
	{service.ErrTokenExpired, http.StatusUnauthorized, "Unauthorized"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, "Unauthorized"},
	{service.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{service.ErrForbidden, http.StatusUnauthorized, "Unauthorized"},

	{ErrBadRequest, http.StatusBadRequest, "Bad request"},
	{service.ErrInvalidArgument, http.StatusBadRequest, "Bad request"},
	{service.ErrWeakPassword, http.StatusBadRequest, "Bad request"},
	{service.ErrUsernameTaken, http.StatusBadRequest, "Bad request"},
	{service.ErrSlugTaken, http.StatusBadRequest, "Bad request"},
	{service.ErrCategoryInUse, http.StatusBadRequest, "Bad request"},
	{service.ErrInvalidFile, http.StatusBadRequest, "Bad request"},
	{service.ErrFileTooLarge, http.StatusBadRequest, "Bad request"},
	{service.ErrInvalidCursor, http.StatusBadRequest, "Bad request"},

	{context.Canceled, StatusClientClosedRequest, "Request canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "Request timed out"},
}

// ToHTTP конвертирует ошибку в HTTP-статус и конверт ответа.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500, чтобы не маскировать баг;
//   - известный sentinel — статус из таблицы, Details = текст sentinel;
//   - для 401 Details всегда "unauthorized", ответы неразличимы;
//   - прочее — 500 без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if err != nil {
		for _, r := range rules {
			if stderrors.Is(err, r.target) {
				resp := ErrorResponse{StatusCode: r.status, Message: r.message}
				switch {
				case r.status == http.StatusUnauthorized:
					resp.Details = unauthorizedDetail
				case r.status < http.StatusInternalServerError:
					resp.Details = r.target.Error()
				}
				return r.status, resp
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    "An internal error occurred",
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет статус и тело, добавляет requestId из заголовка X-Request-Id.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
