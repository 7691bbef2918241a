package handlers

import (
	"errors"
	"net/http"

	"coolserve/services/booking"
	"coolserve/services/geo"
	"coolserve/services/payment"

	"github.com/gin-gonic/gin"
)

// respondError is the single place error kinds become user-visible
// messages and recovery hints.
func respondError(c *gin.Context, err error) {
	var (
		validationErr    *booking.ValidationError
		payValidationErr *payment.ValidationError
		inProgressErr    *booking.BookingInProgressError
		slotErr          *booking.SlotUnavailableError
		amcErr           *booking.AMCInvalidError
		maxErr           *booking.MaxBookingsError
		authErr          *booking.NotAuthenticatedError
		intentErr        *payment.PaymentIntentError
		sigErr           *payment.WebhookSignatureError
		geoErr           *geo.GeocodingError
		rateErr          *geo.RateLimitError
		netErr           *booking.NetworkError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.As(err, &payValidationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": payValidationErr.Message, "field": payValidationErr.Field})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error(), "redirect": booking.RedirectLogin})
	case errors.As(err, &amcErr):
		c.JSON(http.StatusForbidden, gin.H{"error": amcErr.Error(), "redirect": booking.RedirectAMCRenew})
	case errors.As(err, &inProgressErr):
		c.JSON(http.StatusConflict, gin.H{"error": inProgressErr.Error()})
	case errors.As(err, &slotErr):
		c.JSON(http.StatusConflict, gin.H{"error": slotErr.Error(), "redirect": booking.RedirectServices})
	case errors.As(err, &maxErr):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": maxErr.Error()})
	case errors.As(err, &intentErr):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": intentErr.Message, "code": intentErr.Code})
	case errors.As(err, &sigErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
	case errors.As(err, &rateErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service is busy. Please try again shortly."})
	case errors.As(err, &geoErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not verify the address. Please try again."})
	case errors.As(err, &netErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary problem. Please try again."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again later."})
	}
}
