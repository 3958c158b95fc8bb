package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"validtrack/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) GetEmail(c *gin.Context) {
	ctx := c.Request.Context()

	email, err := h.service.GetNotificationEmail(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to get notification email",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": email})
}

type setEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SetEmail сохраняет адрес получателя и сразу запускает проверку:
// смена настройки — один из триггеров прогона.
func (h *NotificationHandler) SetEmail(c *gin.Context) {
	ctx := c.Request.Context()

	var req setEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid 'email' field"})
		return
	}

	if err := h.service.SetNotificationEmail(ctx, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to save notification email",
			"message": err.Error(),
		})
		return
	}

	result, err := h.service.RunDueDateCheck(ctx, time.Now().UTC())
	if err != nil {
		// Адрес сохранен, сам прогон догонит воркер
		log.Printf("Due date check after email change failed: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"message": "Email notifications will be sent to " + req.Email,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email notifications will be sent to " + req.Email,
		"sent":    result.Sent,
		"failed":  result.Failed,
	})
}

func (h *NotificationHandler) RunCheck(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.service.RunDueDateCheck(ctx, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "due date check failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sent":    result.Sent,
		"failed":  result.Failed,
	})
}

func (h *NotificationHandler) GetLog(c *gin.Context) {
	ctx := c.Request.Context()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.service.GetRecentLogs(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to get notification log",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(entries),
		"items":   entries,
	})
}
