package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/middleware"
	"jucai-fund-backend/internal/common/pagination"
	"jucai-fund-backend/internal/features/withdrawal/models"
	"jucai-fund-backend/internal/features/withdrawal/service"
)

type WithdrawalHandler struct {
	service service.WithdrawalService
}

func NewWithdrawalHandler(service service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		service: service,
	}
}

func (h *WithdrawalHandler) RegisterRoutes(me *gin.RouterGroup) {
	withdrawals := me.Group("/withdrawals")
	{
		withdrawals.POST("", h.Create)
		withdrawals.GET("", h.List)
	}
}

// @Summary Submit withdrawal
// @Description File a pending withdrawal request. The balance must cover the amount but is not debited.
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param user_id query int true "User ID"
// @Param request body models.CreateWithdrawalRequest true "Withdrawal"
// @Success 201 {object} models.WithdrawalResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 409 {object} middleware.ErrorResponse "Insufficient balance"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me/withdrawals [post]
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req models.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.NewBadRequestError("Invalid request body").WithDetail("reason", err.Error()))
		return
	}

	w, err := h.service.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, w)
}

// @Summary List withdrawals
// @Description Withdrawal requests of the user, newest first
// @Tags withdrawals
// @Produce json
// @Param user_id query int true "User ID"
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.WithdrawalResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid query"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me/withdrawals [get]
func (h *WithdrawalHandler) List(c *gin.Context) {
	page, err := pagination.Parse(c.Query("limit"), c.Query("offset"))
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	filter := models.ListFilter{UserID: middleware.UserID(c), Params: page}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
