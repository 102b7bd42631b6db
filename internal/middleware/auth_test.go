package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devsocial/internal/token"

	"github.com/stretchr/testify/require"
)

func guardedEcho(tokens *token.Service) http.Handler {
	return AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context())))
	}))
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := token.New("test-secret", time.Hour)
	tok, err := tokens.Issue("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	guardedEcho(tokens).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", rec.Body.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokens := token.New("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	guardedEcho(tokens).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_BadFormat(t *testing.T) {
	tokens := token.New("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	guardedEcho(tokens).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	tokens := token.New("test-secret", time.Hour)
	expired, err := token.New("test-secret", -time.Minute).Issue("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	guardedEcho(tokens).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidSignature(t *testing.T) {
	tokens := token.New("test-secret", time.Hour)
	forged, err := token.New("other-secret", time.Hour).Issue("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	guardedEcho(tokens).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}
