package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Check reports whether one backing dependency is reachable.
type Check func(ctx context.Context) error

// OpsHandler serves liveness, readiness and metrics for the engine process.
type OpsHandler struct {
	checks   map[string]Check
	gatherer prometheus.Gatherer
	timeout  time.Duration
	log      *zap.Logger
}

func NewOpsHandler(checks map[string]Check, gatherer prometheus.Gatherer, log *zap.Logger) *OpsHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpsHandler{
		checks:   checks,
		gatherer: gatherer,
		timeout:  2 * time.Second,
		log:      log.Named("ops"),
	}
}

func (h *OpsHandler) Register(r gin.IRoutes) {
	r.GET("/healthz", h.Health)
	r.GET("/readyz", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}

func (h *OpsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *OpsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			components[name] = err.Error()
			h.log.Warn("readiness check failed", zap.String("component", name), zap.Error(err))
			continue
		}
		components[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, gin.H{"status": state, "components": components})
}

// NewRouter builds the gin engine used by the ops server.
func NewRouter(h *OpsHandler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	h.Register(r)
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
