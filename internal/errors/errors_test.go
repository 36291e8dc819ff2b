package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-portfolio/internal/service"
)

func wrap(err error) error {
	return fmt.Errorf("service.x.Op: %w", err)
}

func TestToHTTP_Mapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
	}{
		{"not_found", wrap(service.ErrNotFound), http.StatusNotFound},
		{"bad_credentials", wrap(service.ErrInvalidCredentials), http.StatusUnauthorized},
		{"invalid_token", wrap(service.ErrInvalidToken), http.StatusUnauthorized},
		{"expired_token", wrap(service.ErrTokenExpired), http.StatusUnauthorized},
		{"revoked_token", wrap(service.ErrTokenRevoked), http.StatusUnauthorized},
		{"unauthorized", wrap(service.ErrUnauthorized), http.StatusUnauthorized},
		{"role_mismatch", wrap(service.ErrForbidden), http.StatusUnauthorized},
		{"bad_request", ErrBadRequest, http.StatusBadRequest},
		{"invalid_argument", wrap(service.ErrInvalidArgument), http.StatusBadRequest},
		{"weak_password", wrap(service.ErrWeakPassword), http.StatusBadRequest},
		{"username_taken", wrap(service.ErrUsernameTaken), http.StatusBadRequest},
		{"slug_taken", wrap(service.ErrSlugTaken), http.StatusBadRequest},
		{"category_in_use", wrap(service.ErrCategoryInUse), http.StatusBadRequest},
		{"invalid_file", wrap(service.ErrInvalidFile), http.StatusBadRequest},
		{"file_too_large", wrap(service.ErrFileTooLarge), http.StatusBadRequest},
		{"invalid_cursor", wrap(service.ErrInvalidCursor), http.StatusBadRequest},
		{"canceled", wrap(context.Canceled), StatusClientClosedRequest},
		{"deadline", wrap(context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unknown", fmt.Errorf("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			require.NotEmpty(t, resp.Message)
		})
	}
}

func TestToHTTP_InternalHidesDetails(t *testing.T) {
	status, resp := ToHTTP(fmt.Errorf("storage.postgres.ListPosts: password=secret"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Empty(t, resp.Details)
	require.NotContains(t, resp.Message, "secret")
}

func TestToHTTP_NilError_Returns500(t *testing.T) {
	status, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestToHTTP_DetailsFromSentinel(t *testing.T) {
	_, resp := ToHTTP(wrap(service.ErrSlugTaken))
	require.Equal(t, service.ErrSlugTaken.Error(), resp.Details)
}

func TestWriteError_AuthFailuresIndistinguishable(t *testing.T) {
	authErrs := []error{
		service.ErrInvalidCredentials,
		service.ErrInvalidToken,
		service.ErrTokenExpired,
		service.ErrTokenRevoked,
		service.ErrUnauthorized,
		service.ErrForbidden,
	}

	var first []byte
	for _, e := range authErrs {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/Auth/refresh-token", nil)
		req.Header.Set("X-Request-Id", "rid-auth")

		WriteError(rr, req, wrap(e))

		require.Equal(t, http.StatusUnauthorized, rr.Code, e.Error())
		if e != service.ErrUnauthorized {
			require.NotContains(t, rr.Body.String(), e.Error())
		}

		if first == nil {
			first = rr.Body.Bytes()
			continue
		}
		require.Equal(t, string(first), rr.Body.String(), e.Error())
	}

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(first, &body))
	require.Equal(t, "unauthorized", body.Details)
}

func TestWriteError_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/Blog/missing", nil)
	req.Header.Set("X-Request-Id", "rid-1")

	WriteError(rr, req, wrap(service.ErrNotFound))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.EqualValues(t, http.StatusNotFound, body["statusCode"])
	require.Equal(t, "Resource not found", body["message"])
	require.Equal(t, "not found", body["details"])
	require.Equal(t, "rid-1", body["requestId"])
}
