package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thermolog-dev/thermolog/pkg/schema"
)

// AddReading handles POST /api/temperature (admin only).
func (h *Handler) AddReading(c *gin.Context) {
	actor, _ := currentActor(c)
	var req schema.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	reading, err := h.Readings.Ingest(c.Request.Context(), actor, req)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reading.Public())
}

// QueryReadings handles GET /api/temperature/:sensor_id.
func (h *Handler) QueryReadings(c *gin.Context) {
	actor, _ := currentActor(c)
	timeframe := c.DefaultQuery("timeframe", "daily")
	date := c.Query("date")

	result, err := h.Readings.Query(c.Request.Context(), actor, c.Param("sensor_id"), timeframe, date)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListSensors handles GET /api/sensors.
func (h *Handler) ListSensors(c *gin.Context) {
	actor, _ := currentActor(c)
	sensors, err := h.Readings.Sensors(c.Request.Context(), actor)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sensors": sensors})
}
