package handler

import (
	"net/http"

	"buxta-backend/internal/domains/user/model"
	"buxta-backend/internal/domains/user/service"
	"buxta-backend/internal/shared/middleware"
	"buxta-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(service service.ServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created successfully", user)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", "UNAUTHORIZED")
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", user)
}
