package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thermolog-dev/thermolog/pkg/schema"
)

// RegisterAccount handles POST /auth/register.
func (h *Handler) RegisterAccount(c *gin.Context) {
	var req schema.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if _, err := h.Accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req schema.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username or password"})
		return
	}
	_, resp, err := h.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken handles POST /auth/refresh. The refresh token travels in
// the Authorization header like an access token.
func (h *Handler) RefreshToken(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing refresh token"})
		return
	}
	access, err := h.Accounts.Refresh(c.Request.Context(), token)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

// GetProfile handles GET /auth/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	actor, account := currentActor(c)
	profile, err := h.Accounts.Profile(c.Request.Context(), actor, account.ID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile.Public())
}

// UpdateProfile handles PUT /auth/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	actor, account := currentActor(c)
	var req schema.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	updated, err := h.Accounts.UpdateProfile(c.Request.Context(), actor, account.ID, req)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.Public())
}
