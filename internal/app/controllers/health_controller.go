package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/lecturehub/internal/app/models/dto"
)

const apiVersion = "1.0.0"

// Pinger reports whether a backing service answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController. db may be nil.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports service status and, when configured, database reachability.
// GET /api/health
func (c *HealthController) Health(ctx *gin.Context) {
	resp := dto.HealthResponse{
		Message:   "Lecture Materials Repository API",
		Version:   apiVersion,
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}

	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		resp.Database = "up"
		if err := c.db.Ping(pingCtx); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "down"
			ctx.JSON(http.StatusServiceUnavailable, dto.APIResponse{
				Success: false,
				Data:    resp,
				Error:   "Database unavailable",
				Code:    dto.ErrorCodeDatabaseError,
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Ping answers pong.
// GET /ping
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
}
