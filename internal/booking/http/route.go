package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth, authMiddleware, sellerMiddleware gin.HandlerFunc) {
	// === Customer Routes (anonymous, identity used when present) ===
	bookings := g.Group("/bookings")
	bookings.Use(optionalAuth)
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.ListByPhone)
		bookings.GET("/status", h.LatestStatus)
		bookings.PATCH("/:id/cancel", h.Cancel)
		bookings.DELETE("/:id", h.DeleteByID)
	}

	slots := g.Group("/booked-slots")
	slots.Use(optionalAuth)
	{
		slots.GET("/:sellerId", h.BookedSlots)
	}

	// === Seller Routes ===
	seller := g.Group("/seller-bookings")
	seller.Use(authMiddleware, sellerMiddleware)
	{
		seller.GET("/me", h.ListMine)
		seller.PATCH("/:id/status", h.SetStatus)
		seller.DELETE("/:id", h.Delete)
	}
}
