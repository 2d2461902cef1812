package handlers

import (
	"net/http"

	"herbimmortal/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness plus the last background dependency check.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	healthy := status.Mongo
	for _, ok := range status.Redis {
		healthy = healthy && ok
	}
	code := http.StatusOK
	state := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{
		"status":     state,
		"mongo":      status.Mongo,
		"redis":      status.Redis,
		"checked_at": status.CheckedAt,
	})
}
