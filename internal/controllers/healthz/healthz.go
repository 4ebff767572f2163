// Package healthz implements the health probe.
package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expensetrackr/backend/internal/models"
)

// RegisterRoutes registers the health routes with the RouterGroup that
// is passed.
func RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
}

// HealthResponse reports the liveness of the process and its data store.
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database" example:"connected"`
}

// @Summary		Health
// @Description	Reports whether the API and its database are reachable. An unreachable database degrades the status but the endpoint still answers 200 so that the process is not restarted while the database recovers.
// @Tags			General
// @Produce		json
// @Success		200	{object}	HealthResponse
// @Router			/api/health [get]
func Get(c *gin.Context) {
	response := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}

	sqlDB, err := models.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		response.Status = "unhealthy"
		response.Database = "disconnected"
	}

	c.JSON(http.StatusOK, response)
}
