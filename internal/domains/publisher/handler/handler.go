package handler

import (
	"net/http"

	"buxta-backend/internal/domains/publisher/model"
	"buxta-backend/internal/domains/publisher/service"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type PublisherHandler struct {
	service service.ServiceInterface
}

func NewPublisherHandler(service service.ServiceInterface) *PublisherHandler {
	return &PublisherHandler{service: service}
}

// List handles GET /admin/publishers
func (h *PublisherHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	publishers, total, stats, err := h.service.List(c.Request.Context(), model.ListFilter{
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Publishers retrieved successfully", gin.H{
		"publishers": publishers,
		"stats":   stats,
	}, response.NewMeta(p.Page, p.Limit, total))
}

// Get handles GET /admin/publishers/:id
func (h *PublisherHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	publisher, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Publisher retrieved successfully", publisher)
}

// Create handles POST /admin/publishers
func (h *PublisherHandler) Create(c *gin.Context) {
	var in model.PublisherInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	publisher, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Publisher added successfully!", publisher)
}

// Update handles PUT /admin/publishers/:id
func (h *PublisherHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var in model.PublisherInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	publisher, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Publisher updated successfully!", publisher)
}

// Delete handles DELETE /admin/publishers/:id
func (h *PublisherHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Publisher deleted successfully", nil)
}
