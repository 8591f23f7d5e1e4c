package handler

import (
	"fmt"
	"net/http"

	"buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/domains/order/service"
	"buxta-backend/internal/shared/middleware"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	LastOrderCookie = "last_order_id"
	lastOrderMaxAge = 60 * 60 * 24 // one day
)

type OrderHandler struct {
	service      service.ServiceInterface
	cookieSecure bool
}

func NewOrderHandler(service service.ServiceInterface, cookieSecure bool) *OrderHandler {
	return &OrderHandler{service: service, cookieSecure: cookieSecure}
}

func optionalUser(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.GetAuthenticatedUserID(c); ok {
		return &id
	}
	return nil
}

// Checkout handles GET /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	cartID, err := middleware.GetCartID(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	summary, err := h.service.Checkout(c.Request.Context(), cartID, optionalUser(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Checkout ready", summary)
}

// PlaceOrder handles POST /checkout/place-order
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	cartID, err := middleware.GetCartID(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var in model.PlaceOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.PlaceOrder(c.Request.Context(), cartID, optionalUser(c), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(LastOrderCookie, result.OrderID.String(), lastOrderMaxAge, "/", "", h.cookieSecure, true)
	response.Success(c, http.StatusCreated, fmt.Sprintf("Order #%s placed", result.OrderNumber), result)
}

// Confirmation handles GET /order-confirmation. The cookie is single use.
func (h *OrderHandler) Confirmation(c *gin.Context) {
	raw, err := c.Cookie(LastOrderCookie)
	if err != nil || raw == "" {
		response.HandleError(c, model.ErrNoRecentOrder)
		return
	}
	c.SetCookie(LastOrderCookie, "", -1, "/", "", h.cookieSecure, true)

	orderID, err := uuid.Parse(raw)
	if err != nil {
		response.HandleError(c, model.ErrOrderNotFound)
		return
	}

	order, err := h.service.Confirmation(c.Request.Context(), orderID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Thank you for your order!", order)
}

// MyOrders handles GET /orders
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", "AUTH_REQUIRED")
		return
	}

	orders, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// AdminList handles GET /admin/orders?search=&status=&date_from=&date_to=&page=
func (h *OrderHandler) AdminList(c *gin.Context) {
	p := utils.ParsePagination(c)

	from, err := utils.ParseOptionalDate(c.Query("date_from"))
	if err != nil {
		response.BadRequest(c, "Invalid date_from, expected YYYY-MM-DD")
		return
	}
	to, err := utils.ParseOptionalDate(c.Query("date_to"))
	if err != nil {
		response.BadRequest(c, "Invalid date_to, expected YYYY-MM-DD")
		return
	}

	orders, total, err := h.service.AdminList(c.Request.Context(), model.AdminListFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		DateFrom: from,
		DateTo:   to,
		Page:     p.Page,
		Limit:    model.AdminPageSize,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Orders retrieved successfully", gin.H{
		"orders":   orders,
		"statuses": model.Statuses,
	}, response.NewMeta(p.Page, model.AdminPageSize, total))
}

// AdminGet handles GET /admin/orders/:id
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Order retrieved successfully", order)
}

// UpdateStatus handles POST /admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	staffID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var in model.StatusUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, staffID, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Order status updated to "+order.StatusDisplay, order)
}
