package routes

import (
	"coolserve/handlers"
	"coolserve/middleware"
	"coolserve/models"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Auth    *handlers.AuthHandler
	Booking *handlers.BookingHandler
	Payment *handlers.PaymentHandler
	Service *handlers.ServiceHandler
}

// RegisterRoutes wires all endpoints.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/healthz", handlers.Health)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", hb.Auth.Register)
		auth.POST("/login", hb.Auth.Login)
	}

	r.GET("/api/services", hb.Service.ListServices)
	r.GET("/api/availability", hb.Booking.GetAvailability)

	payments := r.Group("/api/payments")
	{
		// Webhook carries its own authentication: the Stripe signature.
		payments.POST("/webhook", hb.Payment.Webhook)

		authed := payments.Group("")
		authed.Use(middleware.JWTAuthMiddleware())
		{
			authed.POST("/create-payment-intent",
				middleware.RequireRole(models.RoleCustomer), hb.Payment.CreatePaymentIntent)
			authed.GET("/payment-intent/:id",
				middleware.RequireRole(models.RoleCustomer, models.RoleServiceProvider), hb.Payment.GetPaymentIntent)
			authed.POST("/refund",
				middleware.RequireRole(), hb.Payment.Refund) // admin only
		}
	}

	bookings := r.Group("/api/bookings")
	bookings.Use(middleware.JWTAuthMiddleware())
	{
		bookings.POST("",
			middleware.RequireRole(models.RoleCustomer), hb.Booking.CreateBooking)
		bookings.PATCH("/:id",
			middleware.RequireRole(models.RoleCustomer), hb.Booking.UpdateBooking)
		bookings.GET("/:id",
			middleware.RequireRole(models.RoleCustomer, models.RoleServiceProvider), hb.Booking.GetBooking)
		bookings.GET("/email/:email",
			middleware.RequireRole(), hb.Booking.GetBookingsByEmail) // admin only
		bookings.GET("/customer/:customerId",
			middleware.RequireRole(models.RoleCustomer), hb.Booking.GetBookingsByCustomer)
	}
}
