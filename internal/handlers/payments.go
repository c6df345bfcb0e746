package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rotino/internal/orders"
	"rotino/internal/pricing"
)

type initiatePaymentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

type verifyPaymentRequest struct {
	OrderID           string `json:"orderId" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

type paymentFailedRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Reason  string `json:"reason"`
}

// InitiatePayment creates (or reuses) the provider-side payment order for an
// order awaiting payment.
func InitiatePayment(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments/create-order"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		var req initiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		providerOrder, order, err := svc.InitiatePayment(ctx, orderID, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment order created successfully",
			"razorpayOrder": gin.H{
				"id":       providerOrder.ID,
				"amount":   providerOrder.Amount,
				"currency": providerOrder.Currency,
				"receipt":  providerOrder.Receipt,
			},
			"order": gin.H{
				"id":             order.ID.Hex(),
				"total":          order.OrderSummary.Total,
				"formattedTotal": pricing.FormatPaise(order.OrderSummary.Total),
			},
		})
	}
}

// VerifyPayment validates the provider callback signature and confirms the
// order.
func VerifyPayment(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments/verify-payment"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.VerifyPayment(ctx, orderID, userID, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment verified successfully",
			"order": gin.H{
				"id":                    order.ID.Hex(),
				"orderNumber":           order.OrderNumber(),
				"status":                order.Status,
				"estimatedDeliveryTime": order.EstimatedDeliveryTime,
			},
		})
	}
}

// PaymentFailed records a client-reported payment failure, e.g. the provider
// widget was closed before completion.
func PaymentFailed(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments/payment-failed"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		var req paymentFailedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.RecordPaymentFailure(ctx, orderID, userID, req.Reason)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment failure recorded",
			"order": gin.H{
				"id":     order.ID.Hex(),
				"status": order.Status,
			},
		})
	}
}

// PaymentStatus returns the payment sub-record for an order.
func PaymentStatus(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payments/status/:orderId"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		orderID, err := objectIDParam(c, "orderId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.PaymentStatus(ctx, orderID, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"payment": gin.H{
				"status":            order.PaymentInfo.Status,
				"razorpayOrderId":   order.PaymentInfo.RazorpayOrderID,
				"razorpayPaymentId": order.PaymentInfo.RazorpayPaymentID,
				"paidAt":            order.PaymentInfo.PaidAt,
				"amount":            order.OrderSummary.Total,
				"formattedAmount":   pricing.FormatPaise(order.OrderSummary.Total),
			},
			"orderStatus": order.Status,
		})
	}
}
