package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/middleware"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/service"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/pagination"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/response"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleUser, model.RoleManager, model.RoleApprover, model.RoleAdmin)

	notifications := router.Group("/api/notifications")
	{
		notifications.GET("", anyRole, h.ListNotifications)
		notifications.GET("/unread-count", anyRole, h.UnreadCount)
		notifications.PUT("/:id/read", anyRole, h.MarkRead)
		notifications.PUT("/read-all", anyRole, h.MarkAllRead)
	}
}

// ListNotifications handles GET /api/notifications for the authenticated user
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response
// @Router       /api/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)

	notifications, total, err := h.notificationService.ListNotifications(c.Request.Context(), a.ID, params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
		"page":          params.Page,
		"limit":         params.Limit,
	}))
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), a.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"count": count}))
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), a.ID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Notification marked as read"))
}

// MarkAllRead handles PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), a.ID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "All notifications marked as read"))
}
