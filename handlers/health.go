package handlers

import (
	"net/http"

	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and the latest collaborator
// health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"health": utils.GetHealthStatus(),
	})
}
