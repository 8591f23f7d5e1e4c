package handler

import (
	"net/http"

	"buxta-backend/internal/domains/book/service"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type StorefrontHandler struct {
	service service.StorefrontService
}

func NewStorefrontHandler(service service.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{service: service}
}

// Home handles GET /home
func (h *StorefrontHandler) Home(c *gin.Context) {
	page, err := h.service.Home(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", page)
}

// Shop handles GET /shop?category=<slug>&search=<term>&page=
func (h *StorefrontHandler) Shop(c *gin.Context) {
	p := utils.ParsePagination(c)
	page, err := h.service.Shop(c.Request.Context(), c.Query("category"), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "", page, response.NewMeta(p.Page, p.Limit, page.Total))
}

// BookDetail handles GET /books/:slug
func (h *StorefrontHandler) BookDetail(c *gin.Context) {
	detail, err := h.service.BookDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", detail)
}
