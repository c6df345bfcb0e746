package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rotino/internal/orders"
)

// respondServiceError maps the order service's error taxonomy onto HTTP. The
// payload shape matches the rest of the API: success=false plus a message.
func respondServiceError(c *gin.Context, route string, err error) {
	var invalidItem orders.InvalidItemError
	var mismatch orders.ItemRestaurantMismatchError
	var belowMin orders.BelowMinimumOrderError

	switch {
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
	case errors.Is(err, orders.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Unauthorized access to order"})
	case errors.Is(err, orders.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, orders.ErrAlreadyRated):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Order has already been rated"})
	case errors.Is(err, orders.ErrMismatchedOrder):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid Razorpay order ID"})
	case errors.Is(err, orders.ErrSignatureInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment verification failed"})
	case errors.Is(err, orders.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Payment provider unavailable, please retry"})
	case errors.As(err, &invalidItem):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"message":  invalidItem.Error(),
			"menuItem": invalidItem.MenuItem.Hex(),
		})
	case errors.As(err, &mismatch):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"message":  mismatch.Error(),
			"menuItem": mismatch.MenuItem.Hex(),
		})
	case errors.As(err, &belowMin):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":      false,
			"message":      belowMin.Error(),
			"minimumOrder": belowMin.MinimumOrder,
			"subtotal":     belowMin.Subtotal,
		})
	default:
		log.Printf("[%s] unexpected error: %v", route, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
	}
}
