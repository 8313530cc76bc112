package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check is one named backend probe reported by /health.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health returns a JSON health check response.
// Pings every configured backend; never exposes credentials or internals.
func Health(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := gin.H{}
		for _, chk := range checks {
			if chk.Ping == nil {
				continue
			}
			if err := chk.Ping(ctx); err != nil {
				body[chk.Name] = "error"
				status = http.StatusServiceUnavailable
				continue
			}
			body[chk.Name] = "connected"
		}
		body["ok"] = status == http.StatusOK

		c.JSON(status, body)
	}
}
