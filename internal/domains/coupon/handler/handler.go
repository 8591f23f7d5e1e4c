package handler

import (
	"net/http"

	"buxta-backend/internal/domains/coupon/model"
	"buxta-backend/internal/domains/coupon/service"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	service service.ServiceInterface
}

func NewCouponHandler(service service.ServiceInterface) *CouponHandler {
	return &CouponHandler{service: service}
}

// Check handles GET /coupons/:code
func (h *CouponHandler) Check(c *gin.Context) {
	result, err := h.service.Check(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Coupon retrieved successfully", result)
}

// List handles GET /admin/coupons?status=&search=&page=
func (h *CouponHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	coupons, total, err := h.service.List(c.Request.Context(), model.ListFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  model.AdminPageSize,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Coupons retrieved successfully", coupons,
		response.NewMeta(p.Page, model.AdminPageSize, total))
}

func (h *CouponHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	coupon, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Coupon retrieved successfully", coupon)
}

func (h *CouponHandler) Create(c *gin.Context) {
	var in model.CouponInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	coupon, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Coupon created successfully", coupon)
}

func (h *CouponHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	var in model.CouponInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	coupon, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Coupon updated successfully", coupon)
}

// Usages handles GET /admin/coupons/:id/usages
func (h *CouponHandler) Usages(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	usages, err := h.service.Usages(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Coupon usages retrieved successfully", usages)
}
