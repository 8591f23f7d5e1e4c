package handler

import (
	"net/http"
	"strconv"

	"buxta-backend/internal/domains/review/model"
	"buxta-backend/internal/domains/review/service"
	"buxta-backend/internal/shared/middleware"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service service.ServiceInterface
}

func NewReviewHandler(service service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /books/:slug/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var in model.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	review, err := h.service.Create(c.Request.Context(), userID, c.Param("slug"), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Thank you! Your review will appear once approved.", review)
}

// List handles GET /admin/reviews?status=&rating=&search=&page=
func (h *ReviewHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	rating, _ := strconv.Atoi(c.Query("rating"))

	reviews, total, stats, err := h.service.List(c.Request.Context(), model.ListFilter{
		Status: c.Query("status"),
		Rating: rating,
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Reviews retrieved successfully", gin.H{
		"reviews": reviews,
		"stats":   stats,
	}, response.NewMeta(p.Page, p.Limit, total))
}

// Get handles GET /admin/reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	review, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", review)
}

// Act handles POST /admin/reviews/:id/action {"action": "approve|reject|delete|toggle_verified"}
func (h *ReviewHandler) Act(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	var req model.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.Act(c.Request.Context(), id, req.Action)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result.Message, result)
}

// BulkAct handles POST /admin/reviews/bulk {"action": "...", "review_ids": [...]}
func (h *ReviewHandler) BulkAct(c *gin.Context) {
	var req model.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	message, err := h.service.BulkAct(c.Request.Context(), req.Action, req.ReviewIDs)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, message, nil)
}
