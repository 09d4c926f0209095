package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thermolog-dev/thermolog/pkg/schema"
)

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(c *gin.Context) {
	actor, _ := currentActor(c)
	accounts, err := h.Accounts.List(c.Request.Context(), actor)
	if err != nil {
		abortError(c, err)
		return
	}
	users := make([]schema.Account, 0, len(accounts))
	for i := range accounts {
		users = append(users, accounts[i].Public())
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser handles GET /admin/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	actor, _ := currentActor(c)
	account, err := h.Accounts.Profile(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, account.Public())
}

// UpdateUser handles PUT /admin/users/:id.
func (h *Handler) UpdateUser(c *gin.Context) {
	actor, _ := currentActor(c)
	var req schema.AccountUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	account, err := h.Accounts.AdminUpdate(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, account.Public())
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	actor, _ := currentActor(c)
	if err := h.Accounts.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ListSettings handles GET /admin/settings.
func (h *Handler) ListSettings(c *gin.Context) {
	actor, _ := currentActor(c)
	settings, err := h.Settings.List(c.Request.Context(), actor)
	if err != nil {
		abortError(c, err)
		return
	}
	out := make([]schema.Setting, 0, len(settings))
	for i := range settings {
		out = append(out, settings[i].Public())
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// CreateSetting handles POST /admin/settings.
func (h *Handler) CreateSetting(c *gin.Context) {
	actor, _ := currentActor(c)
	var req schema.SettingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	setting, err := h.Settings.Create(c.Request.Context(), actor, req)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, setting.Public())
}

// UpdateSetting handles PUT /admin/settings/:key.
func (h *Handler) UpdateSetting(c *gin.Context) {
	actor, _ := currentActor(c)
	var req schema.SettingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	setting, err := h.Settings.Update(c.Request.Context(), actor, c.Param("key"), req)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting.Public())
}
