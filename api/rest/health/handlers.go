package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	serviceName = "handbookqa"
	version     = "1.0.0"
)

// Handler reports the server health. With a nil db only liveness is checked.
func Handler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		}

		if db == nil {
			c.JSON(http.StatusOK, resp)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.WarnErr(err, "health check: database unreachable")

			resp.Status = "unhealthy"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}

		resp.Database = "ok"
		c.JSON(http.StatusOK, resp)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
