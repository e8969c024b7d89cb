package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_TokenRoundTrip(t *testing.T) {
	am := NewAuthMiddleware("test-secret")

	token, err := am.GenerateToken("admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := am.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestAuthMiddleware_ValidateToken(t *testing.T) {
	am := NewAuthMiddleware("test-secret")

	t.Run("expired token", func(t *testing.T) {
		token, err := am.GenerateToken("admin", -time.Hour)
		require.NoError(t, err)

		_, err = am.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthMiddleware("other-secret")
		token, err := other.GenerateToken("admin", time.Hour)
		require.NoError(t, err)

		_, err = am.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := am.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware("test-secret")

	router := gin.New()
	router.Use(am.RequireAuth())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("role")})
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := am.GenerateToken("viewer", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "viewer")
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header required")
	})

	t.Run("malformed header", func(t *testing.T) {
		testCases := []string{
			"token-without-scheme",
			"Basic abc123",
			"Bearer",
			"Bearer a b",
		}

		for _, authHeader := range testCases {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", authHeader)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", authHeader)
			assert.Contains(t, w.Body.String(), "Invalid authorization header format")
		}
	})

	t.Run("expired token message", func(t *testing.T) {
		token, err := am.GenerateToken("viewer", -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("lowercase bearer accepted", func(t *testing.T) {
		token, err := am.GenerateToken("viewer", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware("test-secret")

	var handlerCalls int
	router := gin.New()
	router.Use(am.RequireRole("admin"))
	router.GET("/admin", func(c *gin.Context) {
		handlerCalls++
		c.JSON(http.StatusOK, gin.H{"message": "granted"})
	})

	t.Run("matching role", func(t *testing.T) {
		token, err := am.GenerateToken("admin", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		token, err := am.GenerateToken("viewer", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		callsBefore := handlerCalls
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Insufficient permissions")
		assert.NotContains(t, w.Body.String(), "granted")
		assert.Equal(t, callsBefore, handlerCalls, "handler must not run for wrong role")
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
