package handler

import (
	"net/http"

	"buxta-backend/internal/domains/cart/model"
	"buxta-backend/internal/domains/cart/service"
	"buxta-backend/internal/shared/middleware"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler serves the cart sidebar. Routes sit behind CartMiddleware.
type CartHandler struct {
	service service.ServiceInterface
}

func NewCartHandler(service service.ServiceInterface) *CartHandler {
	return &CartHandler{service: service}
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}
	data, err := h.service.CartData(c.Request.Context(), cartID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Cart retrieved successfully", data)
}

// AddItem handles POST /cart/items/:book_id
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}
	bookID, err := utils.ParseUUIDParam(c, "book_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var req model.AddItemRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request payload")
			return
		}
	}

	res, err := h.service.AddItem(c.Request.Context(), cartID, bookID, req.Quantity)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res.Message, res.Totals)
}

// UpdateItem handles PATCH /cart/items/:item_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}
	itemID, err := utils.ParseUUIDParam(c, "item_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	res, err := h.service.UpdateItem(c.Request.Context(), cartID, itemID, quantity)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res.Message, res.Totals)
}

// RemoveItem handles DELETE /cart/items/:item_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}
	itemID, err := utils.ParseUUIDParam(c, "item_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	res, err := h.service.RemoveItem(c.Request.Context(), cartID, itemID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res.Message, res.Totals)
}

func (h *CartHandler) cartID(c *gin.Context) (uuid.UUID, bool) {
	cartID, err := middleware.GetCartID(c)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Cart not resolved", "CART_NOT_RESOLVED")
		return uuid.Nil, false
	}
	return cartID, true
}
