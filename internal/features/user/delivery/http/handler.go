package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/middleware"
	"jucai-fund-backend/internal/features/user/models"
	"jucai-fund-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes mounts the account endpoints. users is /api/users, me is the
// /api/users/me group that already resolves user_id. loginGuards run before
// the login handler.
func (h *UserHandler) RegisterRoutes(users, me *gin.RouterGroup, loginGuards ...gin.HandlerFunc) {
	users.POST("/register", h.Register)
	login := append(append([]gin.HandlerFunc{}, loginGuards...), h.Login)
	users.POST("/login", login...)
	users.POST("/logout", h.Logout)

	me.GET("", h.GetMe)
	me.PUT("", h.UpdateMe)
	me.GET("/profile", h.GetProfile)
	me.PUT("/profile", h.UpdateProfile)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.Abort(c, apperrors.NewBadRequestError("Invalid request body").WithDetail("reason", err.Error()))
		return false
	}
	return true
}

// @Summary Register
// @Description Create an account with zero balance
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Account data"
// @Success 201 {object} models.UserResponse "Created user"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 409 {object} middleware.ErrorResponse "Username or email already exists"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary Login
// @Description Authenticate with username and password and receive an access token
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse "Access token and user"
// @Failure 400 {object} middleware.ErrorResponse "Invalid request body"
// @Failure 401 {object} middleware.ErrorResponse "Invalid username or password"
// @Failure 429 {object} middleware.ErrorResponse "Too many attempts"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
			c.Header("WWW-Authenticate", "Bearer")
		}
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Logout
// @Description Revoke the session behind the bearer token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuccessResponse
// @Failure 401 {object} middleware.ErrorResponse "Missing, invalid or already revoked token"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
			c.Header("WWW-Authenticate", "Bearer")
		}
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Logged out"})
}

// @Summary Get current user
// @Description Get account data of the user given by user_id
// @Tags users
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid user_id"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update current user
// @Description Partially update email and phone; omitted fields stay unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param user_id query int true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 409 {object} middleware.ErrorResponse "Email already exists"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Get profile
// @Description Get the personal profile. A default profile is created if the user has none.
// @Tags users
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} models.ProfileResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid user_id"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Update profile
// @Description Partially update the personal profile; an empty string clears a field
// @Tags users
// @Accept json
// @Produce json
// @Param user_id query int true "User ID"
// @Param request body models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.ProfileResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
