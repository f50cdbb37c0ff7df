package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc adapts a function to the HealthChecker interface.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthAPI serves the liveness probe.
type HealthAPI struct {
	checker HealthChecker
}

func NewHealthAPI(checker HealthChecker) HealthAPI {
	return HealthAPI{checker: checker}
}

// Get /health
func (api *HealthAPI) Check(c *gin.Context) {
	if api.checker != nil {
		if err := api.checker.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
