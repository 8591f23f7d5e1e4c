package handler

import (
	"net/http"
	"strconv"

	"buxta-backend/internal/domains/dashboard/service"
	"buxta-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service service.ServiceInterface
}

func NewDashboardHandler(service service.ServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /admin/dashboard
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved successfully", stats)
}

// SalesData handles GET /admin/sales-data?period=7|30|90
func (h *DashboardHandler) SalesData(c *gin.Context) {
	period, _ := strconv.Atoi(c.Query("period"))

	data, err := h.service.SalesData(c.Request.Context(), period)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Sales data retrieved successfully", data)
}
