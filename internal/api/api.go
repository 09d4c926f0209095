// Package api exposes the Thermolog HTTP surface: auth, sensor data,
// and admin routes over JSON.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thermolog-dev/thermolog/internal/model"
	"github.com/thermolog-dev/thermolog/internal/policy"
	"github.com/thermolog-dev/thermolog/internal/service"
)

const ctxAccount = "thermolog.account"

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	Accounts *service.AccountService
	Settings *service.SettingsService
	Readings *service.ReadingService
}

// Routes registers every route group on the engine. Cross-cutting
// middleware (logging, CORS, metrics) is attached by the caller first.
func (h *Handler) Routes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.RegisterAccount)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.RefreshToken)
		authGroup.GET("/profile", h.RequireAuth(), h.GetProfile)
		authGroup.PUT("/profile", h.RequireAuth(), h.UpdateProfile)
	}

	apiGroup := r.Group("/api", h.RequireAuth())
	{
		apiGroup.POST("/temperature", h.AddReading)
		apiGroup.GET("/temperature/:sensor_id", h.QueryReadings)
		apiGroup.GET("/sensors", h.ListSensors)
	}

	adminGroup := r.Group("/admin", h.RequireAuth())
	{
		adminGroup.GET("/users", h.ListUsers)
		adminGroup.GET("/users/:id", h.GetUser)
		adminGroup.PUT("/users/:id", h.UpdateUser)
		adminGroup.DELETE("/users/:id", h.DeleteUser)
		adminGroup.GET("/settings", h.ListSettings)
		adminGroup.POST("/settings", h.CreateSetting)
		adminGroup.PUT("/settings/:key", h.UpdateSetting)
	}
}

// abortError maps a service error to its HTTP status and JSON body.
func abortError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindValidation, service.KindConflict:
		status = http.StatusBadRequest
	case service.KindAuth:
		status = http.StatusUnauthorized
	case service.KindPermission:
		status = http.StatusForbidden
	case service.KindNotFound:
		status = http.StatusNotFound
	default:
		slog.Error("request failed", "path", c.Request.URL.Path, "err", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// currentActor returns the authenticated account set by RequireAuth.
func currentActor(c *gin.Context) (policy.Actor, *model.Account) {
	account := c.MustGet(ctxAccount).(*model.Account)
	return policy.Actor{ID: account.ID, Role: account.Role}, account
}
