package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/middleware"
)

// AuthHandler exchanges the admin API key for a short-lived admin JWT.
type AuthHandler struct {
	auth     *middleware.AuthMiddleware
	admin    *middleware.AdminMiddleware
	tokenTTL time.Duration
	logger   *logrus.Logger
}

type TokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

func NewAuthHandler(auth *middleware.AuthMiddleware, admin *middleware.AdminMiddleware, tokenTTL time.Duration, logger *logrus.Logger) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthHandler{
		auth:     auth,
		admin:    admin,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// IssueToken validates the presented API key against its bcrypt hash and
// returns a signed admin token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "api_key is required"})
		return
	}

	if !h.admin.ValidateAdminKey(req.APIKey) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	token, err := h.auth.GenerateToken("admin", h.tokenTTL)
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign admin token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.tokenTTL.Seconds()),
	})
}
