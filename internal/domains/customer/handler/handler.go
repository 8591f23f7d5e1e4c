package handler

import (
	"net/http"

	"buxta-backend/internal/domains/customer/model"
	"buxta-backend/internal/domains/customer/service"
	"buxta-backend/internal/shared/middleware"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomerHandler struct {
	service service.ServiceInterface
}

func NewCustomerHandler(service service.ServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", "AUTH_REQUIRED")
	}
	return userID, ok
}

// Profile handles GET /customers/me
func (h *CustomerHandler) Profile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customer, err := h.service.GetOrCreateByUser(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", customer)
}

// UpdateProfile handles PUT /customers/me
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in model.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	customer, err := h.service.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully", customer)
}

// ListAddresses handles GET /addresses
func (h *CustomerHandler) ListAddresses(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	addresses, err := h.service.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", addresses)
}

// CreateAddress handles POST /addresses
func (h *CustomerHandler) CreateAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in model.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	address, err := h.service.CreateAddress(c.Request.Context(), userID, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Address added successfully", address)
}

// UpdateAddress handles PUT /addresses/:id
func (h *CustomerHandler) UpdateAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	var in model.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	address, err := h.service.UpdateAddress(c.Request.Context(), userID, id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Address updated successfully", address)
}

// DeleteAddress handles DELETE /addresses/:id
func (h *CustomerHandler) DeleteAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if err := h.service.DeleteAddress(c.Request.Context(), userID, id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Address deleted successfully", nil)
}

// SetDefaultAddress handles POST /addresses/:id/default
func (h *CustomerHandler) SetDefaultAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if err := h.service.SetDefaultAddress(c.Request.Context(), userID, id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Default address updated", nil)
}

// Wishlist handles GET /wishlist
func (h *CustomerHandler) Wishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	w, err := h.service.Wishlist(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", w)
}

// UpdateWishlist handles PUT /wishlist
func (h *CustomerHandler) UpdateWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in model.WishlistInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	w, err := h.service.UpdateWishlist(c.Request.Context(), userID, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Wishlist updated", w)
}

// AddToWishlist handles POST /wishlist/books/:book_id
func (h *CustomerHandler) AddToWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, err := utils.ParseUUIDParam(c, "book_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	w, err := h.service.AddToWishlist(c.Request.Context(), userID, bookID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book added to wishlist", w)
}

// RemoveFromWishlist handles DELETE /wishlist/books/:book_id
func (h *CustomerHandler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, err := utils.ParseUUIDParam(c, "book_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	w, err := h.service.RemoveFromWishlist(c.Request.Context(), userID, bookID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book removed from wishlist", w)
}

// AdminList handles GET /admin/customers?search=&page=
func (h *CustomerHandler) AdminList(c *gin.Context) {
	p := utils.ParsePagination(c)
	customers, total, err := h.service.AdminList(c.Request.Context(), model.AdminListFilter{
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Customers retrieved successfully", customers,
		response.NewMeta(p.Page, p.Limit, total))
}
