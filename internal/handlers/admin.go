package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"real-estate-dashboard/internal/cleanup"
	"real-estate-dashboard/internal/provider"
	"real-estate-dashboard/internal/ratelimit"
)

// AdminHandler exposes operational endpoints: quota stats, circuit
// state, and manual cleanup runs.
type AdminHandler struct {
	limiter *ratelimit.QuotaLimiter
	client  *provider.Client
	cleanup *cleanup.Service
	cfg     cleanup.Config
}

func NewAdminHandler(limiter *ratelimit.QuotaLimiter, client *provider.Client, svc *cleanup.Service, cfg cleanup.Config) *AdminHandler {
	return &AdminHandler{
		limiter: limiter,
		client:  client,
		cleanup: svc,
		cfg:     cfg,
	}
}

// GetRateLimitStats handles GET /api/ratelimit/stats
func (h *AdminHandler) GetRateLimitStats(c *gin.Context) {
	stats := h.limiter.GetStats()

	open, failures, total := h.client.Breaker().GetStatus()
	c.JSON(http.StatusOK, gin.H{
		"quota": stats,
		"circuit_breaker": gin.H{
			"open":           open,
			"failures":       failures,
			"total_requests": total,
		},
	})
}

// RunCleanup handles POST /api/cleanup/run
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	cfg := h.cfg
	if c.Query("dry_run") == "true" {
		cfg.DryRun = true
	}

	log.Printf("[api] manual cleanup requested (dry-run: %v)", cfg.DryRun)

	result, err := h.cleanup.Run(cfg)
	if err != nil {
		log.Printf("[api] cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HealthCheck handles GET /health
func (h *AdminHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
