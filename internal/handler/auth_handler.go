package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oreshkin/stockwise/internal/config"
	"github.com/oreshkin/stockwise/internal/service"
)

// AuthHandler serves the VK login exchange and session endpoints.
type AuthHandler struct {
	svc *service.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

type vkLoginRequest struct {
	VKUser  *service.VKUser `json:"vkUser" binding:"required"`
	VKToken string          `json:"vkToken" binding:"required"`
}

// LoginVK handles POST /api/auth/vk. The token field is duplicated as
// firebaseToken for clients that predate the auth migration.
func (h *AuthHandler) LoginVK(c *gin.Context) {
	var req vkLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "vkUser and vkToken are required")
		return
	}

	user, pair, err := h.svc.LoginVK(c.Request.Context(), *req.VKUser, req.VKToken)
	if err != nil {
		ServiceError(c, err)
		return
	}

	Success(c, gin.H{
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"firebaseToken": pair.AccessToken,
		"user":          user,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "refresh_token is required")
		return
	}

	user, pair, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Unauthorized(c, err.Error())
		return
	}

	Success(c, gin.H{
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"user":          user,
	})
}

// Health handles GET /api/health.
func (h *AuthHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
