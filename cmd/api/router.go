package main

import (
	"context"
	"net/http"
	"time"

	"buxta-backend/internal/shared/middleware"
	"buxta-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupStorefrontRoutes(v1, c)
		setupCartRoutes(v1, c)
		setupAuthRoutes(v1, c)
		setupCustomerRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

func setupStorefrontRoutes(v1 *gin.RouterGroup, c *container.Container) {
	optionalAuth := middleware.OptionalAuthMiddleware(c.JWTManager)

	v1.GET("/home", c.StorefrontHandler.Home)
	v1.GET("/shop", c.StorefrontHandler.Shop)
	v1.GET("/books/:slug", c.StorefrontHandler.BookDetail)
	v1.POST("/books/:slug/reviews", middleware.AuthMiddleware(c.JWTManager), c.ReviewHandler.Create)
	v1.GET("/coupons/:code", c.CouponHandler.Check)
	v1.GET("/order-confirmation", optionalAuth, c.OrderHandler.Confirmation)
}

// setupCartRoutes covers every route that acts on the visitor's cart
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container) {
	withCart := v1.Group("")
	withCart.Use(
		middleware.OptionalAuthMiddleware(c.JWTManager),
		middleware.CartMiddleware(middleware.CartMiddlewareConfig{
			Carts:        c.CartService,
			CookieSecure: c.Config.Storefront.CookieSecure,
		}),
	)
	{
		withCart.GET("/cart", c.CartHandler.Get)
		withCart.POST("/cart/items/:book_id", c.CartHandler.AddItem)
		withCart.PATCH("/cart/items/:item_id", c.CartHandler.UpdateItem)
		withCart.DELETE("/cart/items/:item_id", c.CartHandler.RemoveItem)

		withCart.GET("/checkout", c.OrderHandler.Checkout)
		withCart.POST("/checkout/place-order", c.OrderHandler.PlaceOrder)
	}
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

func setupCustomerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		authed.GET("/users/me", c.UserHandler.Me)
		authed.GET("/customers/me", c.CustomerHandler.Profile)
		authed.PUT("/customers/me", c.CustomerHandler.UpdateProfile)

		authed.GET("/addresses", c.CustomerHandler.ListAddresses)
		authed.POST("/addresses", c.CustomerHandler.CreateAddress)
		authed.PUT("/addresses/:id", c.CustomerHandler.UpdateAddress)
		authed.DELETE("/addresses/:id", c.CustomerHandler.DeleteAddress)
		authed.POST("/addresses/:id/default", c.CustomerHandler.SetDefaultAddress)

		authed.GET("/wishlist", c.CustomerHandler.Wishlist)
		authed.PUT("/wishlist", c.CustomerHandler.UpdateWishlist)
		authed.POST("/wishlist/books/:book_id", c.CustomerHandler.AddToWishlist)
		authed.DELETE("/wishlist/books/:book_id", c.CustomerHandler.RemoveFromWishlist)

		authed.GET("/orders", c.OrderHandler.MyOrders)
	}
}

func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.StaffMiddleware())

	admin.GET("/dashboard", c.DashboardHandler.Stats)
	admin.GET("/sales-data", c.DashboardHandler.SalesData)

	books := admin.Group("/books")
	{
		books.GET("", c.BookAdminHandler.List)
		books.GET("/export", c.BookAdminHandler.Export)
		books.POST("", c.BookAdminHandler.Create)
		books.GET("/:id", c.BookAdminHandler.Get)
		books.PUT("/:id", c.BookAdminHandler.Update)
		books.POST("/:id/toggle", c.BookAdminHandler.ToggleActive)
		books.DELETE("/:id", c.BookAdminHandler.Delete)

		books.GET("/:id/images", c.ImageHandler.List)
		books.POST("/:id/images", c.ImageHandler.Upload)
		books.POST("/:id/images/:image_id/primary", c.ImageHandler.SetPrimary)
		books.DELETE("/:id/images/:image_id", c.ImageHandler.Delete)
	}

	orders := admin.Group("/orders")
	{
		orders.GET("", c.OrderHandler.AdminList)
		orders.GET("/:id", c.OrderHandler.AdminGet)
		orders.POST("/:id/status", c.OrderHandler.UpdateStatus)
	}

	admin.GET("/customers", c.CustomerHandler.AdminList)

	authors := admin.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.POST("", c.AuthorHandler.Create)
		authors.GET("/:id", c.AuthorHandler.Get)
		authors.PUT("/:id", c.AuthorHandler.Update)
		authors.DELETE("/:id", c.AuthorHandler.Delete)
	}

	categories := admin.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.List)
		categories.POST("", c.CategoryHandler.Create)
		categories.GET("/:id", c.CategoryHandler.Get)
		categories.PUT("/:id", c.CategoryHandler.Update)
		categories.PATCH("/:id/toggle", c.CategoryHandler.Toggle)
		categories.DELETE("/:id", c.CategoryHandler.Delete)
	}

	publishers := admin.Group("/publishers")
	{
		publishers.GET("", c.PublisherHandler.List)
		publishers.POST("", c.PublisherHandler.Create)
		publishers.GET("/:id", c.PublisherHandler.Get)
		publishers.PUT("/:id", c.PublisherHandler.Update)
		publishers.DELETE("/:id", c.PublisherHandler.Delete)
	}

	reviews := admin.Group("/reviews")
	{
		reviews.GET("", c.ReviewHandler.List)
		reviews.POST("/bulk", c.ReviewHandler.BulkAct)
		reviews.GET("/:id", c.ReviewHandler.Get)
		reviews.POST("/:id/action", c.ReviewHandler.Act)
	}

	coupons := admin.Group("/coupons")
	{
		coupons.GET("", c.CouponHandler.List)
		coupons.POST("", c.CouponHandler.Create)
		coupons.GET("/:id", c.CouponHandler.Get)
		coupons.PUT("/:id", c.CouponHandler.Update)
		coupons.GET("/:id/usages", c.CouponHandler.Usages)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		checks := gin.H{"database": "ok", "cache": "ok"}

		if err := c.DB.HealthCheck(reqCtx); err != nil {
			checks["database"] = err.Error()
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		if err := c.Cache.Ping(reqCtx); err != nil {
			checks["cache"] = err.Error()
			if code == http.StatusOK {
				status = "degraded"
			}
		}

		ctx.JSON(code, gin.H{
			"status":  status,
			"version": c.Config.App.Version,
			"checks":  checks,
			"time":    time.Now().UTC(),
		})
	}
}
