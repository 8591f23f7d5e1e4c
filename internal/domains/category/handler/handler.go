package handler

import (
	"net/http"

	"buxta-backend/internal/domains/category/model"
	"buxta-backend/internal/domains/category/service"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service service.ServiceInterface
}

func NewCategoryHandler(service service.ServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /admin/categories
func (h *CategoryHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	categories, total, err := h.service.List(c.Request.Context(), model.ListFilter{
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Categories retrieved successfully", categories, response.NewMeta(p.Page, p.Limit, total))
}

// Get handles GET /admin/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	category, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Category retrieved successfully", category)
}

// Create handles POST /admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in model.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	category, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Category '"+category.Name+"' created successfully!", category)
}

// Update handles PUT /admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var in model.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	category, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Category '"+category.Name+"' updated successfully!", category)
}

// Toggle handles PATCH /admin/categories/:id/toggle
func (h *CategoryHandler) Toggle(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	active, err := h.service.ToggleActive(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	status := "deactivated"
	if active {
		status = "activated"
	}
	response.Success(c, http.StatusOK, "Category "+status+" successfully", gin.H{"is_active": active})
}

// Delete handles DELETE /admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Category deleted successfully", nil)
}
