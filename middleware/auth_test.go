package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/userkit/user-service/internal/auth"
)

func newGatedRouter(tokens TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString(ContextUserID),
			"username": c.GetString(ContextUsername),
		})
	})
	return r
}

func TestAuthRequired_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("secret"), time.Hour)
	tok, err := tokens.Issue("alice", "user-1")
	require.NoError(t, err)

	r := newGatedRouter(tokens)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "user-1")
	require.Contains(t, w.Body.String(), "alice")
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("secret"), time.Hour)
	r := newGatedRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_BadFormat(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("secret"), time.Hour)
	r := newGatedRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager([]byte("secret"), -1*time.Minute)
	tok, err := expired.Issue("alice", "user-1")
	require.NoError(t, err)

	r := newGatedRouter(auth.NewTokenManager([]byte("secret"), time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Token expired")
}

func TestAuthRequired_InvalidSignature(t *testing.T) {
	other := auth.NewTokenManager([]byte("other-secret"), time.Hour)
	tok, err := other.Issue("alice", "user-1")
	require.NoError(t, err)

	r := newGatedRouter(auth.NewTokenManager([]byte("secret"), time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid token")
}
