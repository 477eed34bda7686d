package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/middleware"
	"jucai-fund-backend/internal/common/pagination"
	"jucai-fund-backend/internal/common/validation"
	"jucai-fund-backend/internal/features/notification/models"
	"jucai-fund-backend/internal/features/notification/service"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// RegisterRoutes mounts the endpoints under the /me group.
func (h *NotificationHandler) RegisterRoutes(me *gin.RouterGroup) {
	notifications := me.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/:id", h.GetDetail)
		notifications.POST("/read", h.MarkRead)
	}
}

// @Summary List notifications
// @Description Notifications of the user, newest first
// @Tags notifications
// @Produce json
// @Param user_id query int true "User ID"
// @Param read query bool false "Filter by read state"
// @Param type query string false "Filter by type (system, transaction, message)"
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.NotificationResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid query"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	page, err := pagination.Parse(c.Query("limit"), c.Query("offset"))
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	filter := models.ListFilter{UserID: middleware.UserID(c), Params: page}

	if raw, ok := c.GetQuery("read"); ok && raw != "" {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.Abort(c, apperrors.NewValidationError("read", "must be true or false"))
			return
		}
		filter.Read = &read
	}
	if raw, ok := c.GetQuery("type"); ok && raw != "" {
		filter.Type = &raw
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Get notification
// @Description Get a notification of the user; an unread one is marked as read
// @Tags notifications
// @Produce json
// @Param user_id query int true "User ID"
// @Param id path int true "Notification ID"
// @Success 200 {object} models.NotificationResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid id"
// @Failure 404 {object} middleware.ErrorResponse "Notification not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me/notifications/{id} [get]
func (h *NotificationHandler) GetDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.Abort(c, apperrors.NewValidationError("id", "must be a positive integer"))
		return
	}
	if err := validation.ValidatePositiveID("id", id); err != nil {
		middleware.Abort(c, err)
		return
	}

	n, err := h.service.GetDetail(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

// @Summary Mark notifications read
// @Description Mark the listed notifications of the user as read. Unknown or foreign ids are ignored.
// @Tags notifications
// @Accept json
// @Produce json
// @Param user_id query int true "User ID"
// @Param request body models.MarkReadRequest true "Notification ids"
// @Success 200 {object} models.MarkReadResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid request body"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me/notifications/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req models.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.NewBadRequestError("Invalid request body").WithDetail("reason", err.Error()))
		return
	}

	resp, err := h.service.MarkRead(c.Request.Context(), middleware.UserID(c), req.NotificationIDs)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
