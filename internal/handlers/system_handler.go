package handlers

import (
	"net/http"
	"time"

	"validtrack/internal/config"
	"validtrack/internal/repository"
	redispkg "validtrack/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type SystemHandler struct {
	cfg         *config.Config
	reports     repository.ReportRepository
	logs        repository.NotificationLogRepository
	redisClient *redis.Client
}

func NewSystemHandler(
	cfg *config.Config,
	reports repository.ReportRepository,
	logs repository.NotificationLogRepository,
	redisClient *redis.Client,
) *SystemHandler {
	return &SystemHandler{
		cfg:         cfg,
		reports:     reports,
		logs:        logs,
		redisClient: redisClient,
	}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"database": "connected",
			"redis":    "connected",
			"worker":   h.cfg.Workers.DueDateEnabled,
		},
	})
}

func (h *SystemHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	redisStats, _ := redispkg.GetStats(h.redisClient)

	reportCount, _ := h.reports.Count(ctx)
	logCount, _ := h.logs.Count(ctx)

	c.JSON(http.StatusOK, gin.H{
		"database": gin.H{
			"reports":           reportCount,
			"notification_logs": logCount,
		},
		"redis": redisStats,
		"workers": gin.H{
			"duedate_enabled":  h.cfg.Workers.DueDateEnabled,
			"duedate_interval": h.cfg.Workers.DueDateInterval.String(),
		},
	})
}
