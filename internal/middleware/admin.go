package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminMiddleware guards admin endpoints. Callers authenticate either with
// an admin-role JWT or by presenting the raw admin API key, which is checked
// against its bcrypt hash.
type AdminMiddleware struct {
	keyHash []byte
	auth    *AuthMiddleware
}

// NewAdminMiddleware creates a new admin authentication middleware. keyHash
// is the bcrypt hash of the admin API key; the plaintext key is never
// stored.
func NewAdminMiddleware(keyHash string, auth *AuthMiddleware) *AdminMiddleware {
	return &AdminMiddleware{
		keyHash: []byte(keyHash),
		auth:    auth,
	}
}

// RequireAdminAuth accepts an admin JWT in the Authorization header or the
// raw API key in the X-API-Key header.
func (am *AdminMiddleware) RequireAdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && am.auth != nil {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) == 2 && strings.ToLower(tokenParts[0]) == "bearer" {
				if claims, err := am.auth.ValidateToken(tokenParts[1]); err == nil && claims.Role == "admin" {
					c.Set("role", claims.Role)
					c.Next()
					return
				}
			}
		}

		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" && am.ValidateAdminKey(apiKey) {
			c.Set("role", "admin")
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Valid admin credentials required for this endpoint",
		})
		c.Abort()
	}
}

// ValidateAdminKey checks a raw API key against the stored bcrypt hash.
func (am *AdminMiddleware) ValidateAdminKey(key string) bool {
	if len(am.keyHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(am.keyHash, []byte(key)) == nil
}
