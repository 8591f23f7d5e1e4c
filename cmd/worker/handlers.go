package main

import (
	bookJob "buxta-backend/internal/domains/book/job"
	cartJob "buxta-backend/internal/domains/cart/job"
	orderJob "buxta-backend/internal/domains/order/job"
	"buxta-backend/internal/shared"
	"buxta-backend/pkg/container"

	"github.com/hibiken/asynq"
)

// HandlerRegistry holds every task handler the worker serves
type HandlerRegistry struct {
	orderPlaced      *orderJob.OrderPlacedHandler
	processBookImage *bookJob.ProcessImageHandler
	deleteObjects    *bookJob.DeleteObjectsHandler
	cleanupCarts     *cartJob.CleanupAbandonedHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		orderPlaced:      orderJob.NewOrderPlacedHandler(c.OrderService),
		processBookImage: bookJob.NewProcessImageHandler(c.ImageService),
		deleteObjects:    bookJob.NewDeleteObjectsHandler(c.ImageService),
		cleanupCarts:     cartJob.NewCleanupAbandonedHandler(c.CartService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeOrderPlaced, h.orderPlaced.ProcessTask)
	mux.HandleFunc(shared.TypeProcessBookImage, h.processBookImage.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteStorageObjects, h.deleteObjects.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupAbandonedCarts, h.cleanupCarts.ProcessTask)
}
