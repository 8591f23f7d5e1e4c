package handler

import (
	"net/http"

	"buxta-backend/internal/domains/author/model"
	"buxta-backend/internal/domains/author/service"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(service service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{service: service}
}

// List handles GET /admin/authors
func (h *AuthorHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	authors, total, stats, err := h.service.List(c.Request.Context(), model.ListFilter{
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Authors retrieved successfully", gin.H{
		"authors": authors,
		"stats":   stats,
	}, response.NewMeta(p.Page, p.Limit, total))
}

// Get handles GET /admin/authors/:id
func (h *AuthorHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	author, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Author retrieved successfully", author)
}

// Create handles POST /admin/authors
func (h *AuthorHandler) Create(c *gin.Context) {
	var in model.AuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	author, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Author added successfully!", author)
}

// Update handles PUT /admin/authors/:id
func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var in model.AuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	author, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Author updated successfully!", author)
}

// Delete handles DELETE /admin/authors/:id
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Author deleted successfully!", nil)
}
