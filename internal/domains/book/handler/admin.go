package handler

import (
	"fmt"
	"net/http"
	"time"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/domains/book/service"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// List handles GET /admin/books?search=&category=&status=&page=
func (h *AdminHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	filter := model.AdminListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   p.Page,
		Limit:  p.Limit,
	}
	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid category")
			return
		}
		filter.CategoryID = &id
	}

	books, total, stats, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Books retrieved successfully", gin.H{
		"books": books,
		"stats": stats,
	}, response.NewMeta(p.Page, p.Limit, total))
}

// Get handles GET /admin/books/:id
func (h *AdminHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	book, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book retrieved successfully", book)
}

// Create handles POST /admin/books
func (h *AdminHandler) Create(c *gin.Context) {
	var in model.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	book, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, fmt.Sprintf("Book '%s' created successfully!", book.Title), book)
}

// Update handles PUT /admin/books/:id
func (h *AdminHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var in model.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("Book '%s' updated successfully!", book.Title), book)
}

// ToggleActive handles POST /admin/books/:id/toggle
func (h *AdminHandler) ToggleActive(c *gin.Context) {
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
	response.Success(c, http.StatusOK, "Book "+status+" successfully", gin.H{"is_active": active})
}

// Delete handles DELETE /admin/books/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}

// Export handles GET /admin/books/export
func (h *AdminHandler) Export(c *gin.Context) {
	filename := fmt.Sprintf("books-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.service.Export(c.Request.Context(), c.Writer); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
