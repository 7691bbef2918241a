package handlers

import (
	"net/http"

	"coolserve/middleware"
	"coolserve/models"
	"coolserve/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking endpoints.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	userID := middleware.CurrentUserID(c)
	b, err := h.Svc.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// UpdateBooking handles PATCH /api/bookings/:id. Customers may only
// cancel their own bookings; admins may update freely.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id := c.Param("id")
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	existing, err := h.Svc.GetBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	role := middleware.CurrentRole(c)
	if role != models.RoleAdmin {
		if existing.CustomerID != middleware.CurrentUserID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		if input.Status != models.BookingStatusCancelled {
			c.JSON(http.StatusForbidden, gin.H{"error": "customers may only cancel bookings"})
			return
		}
	}

	switch input.Status {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown booking status"})
		return
	}

	if err := h.Svc.UpdateBooking(c.Request.Context(), id, map[string]interface{}{"status": input.Status}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": input.Status})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Svc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	role := middleware.CurrentRole(c)
	if role != models.RoleAdmin && role != models.RoleServiceProvider &&
		b.CustomerID != middleware.CurrentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// GetBookingsByEmail handles GET /api/bookings/email/:email (admin only,
// enforced by the route group).
func (h *BookingHandler) GetBookingsByEmail(c *gin.Context) {
	list, err := h.Svc.GetBookingsByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// GetBookingsByCustomer handles GET /api/bookings/customer/:customerId.
func (h *BookingHandler) GetBookingsByCustomer(c *gin.Context) {
	customerID := c.Param("customerId")

	role := middleware.CurrentRole(c)
	if role != models.RoleAdmin && customerID != middleware.CurrentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	list, err := h.Svc.GetBookingsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// GetAvailability handles GET /api/availability?address=&date=&amc=.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	address := c.Query("address")
	date := c.Query("date")
	amc := c.Query("amc") == "true"

	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: date"})
		return
	}

	// Stale tracking is scoped per caller: authenticated requests key on
	// the user, anonymous ones on the client IP.
	sessionKey := middleware.CurrentUserID(c)
	if sessionKey == "" {
		sessionKey = c.ClientIP()
	}

	result, err := h.Svc.GetAvailability(c.Request.Context(), sessionKey, address, date, amc)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Stale {
		c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer availability request"})
		return
	}

	resp := gin.H{
		"slots":        result.Slots,
		"region":       result.Region,
		"withinRadius": result.WithinRadius,
	}
	if result.Distance != nil {
		resp["distance"] = *result.Distance
	}
	if result.Err != "" {
		resp["warning"] = result.Err
	}
	c.JSON(http.StatusOK, resp)
}
