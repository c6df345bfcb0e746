package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rotino/internal/models"
	"rotino/internal/orders"
	"rotino/internal/pricing"
)

var (
	errInvalidRestaurantID = errors.New("invalid restaurant id")
	errInvalidMenuItemID   = errors.New("invalid menuItem id")
)

/* =========================
   REQUEST DTOs
========================= */

type selectedOptionRequest struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price" binding:"min=0"`
}

type customizationRequest struct {
	Name            string                  `json:"name" binding:"required"`
	SelectedOptions []selectedOptionRequest `json:"selectedOptions" binding:"dive"`
}

type createOrderItemRequest struct {
	MenuItem            string                 `json:"menuItem" binding:"required"`
	Quantity            int                    `json:"quantity" binding:"required,min=1"`
	Customizations      []customizationRequest `json:"customizations" binding:"dive"`
	SpecialInstructions string                 `json:"specialInstructions"`
}

type deliveryAddressRequest struct {
	Street   string `json:"street" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required"`
	Pincode  string `json:"pincode" binding:"required,len=6,numeric"`
	Landmark string `json:"landmark"`
}

type contactInfoRequest struct {
	Phone string `json:"phone" binding:"required,len=10,numeric"`
	Name  string `json:"name" binding:"required"`
}

type createOrderRequest struct {
	Restaurant          string                   `json:"restaurant" binding:"required"`
	Items               []createOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress     deliveryAddressRequest   `json:"deliveryAddress" binding:"required"`
	ContactInfo         contactInfoRequest       `json:"contactInfo" binding:"required"`
	SpecialInstructions string                   `json:"specialInstructions"`
}

type rateOrderRequest struct {
	Food     int    `json:"food" binding:"required,min=1,max=5"`
	Delivery int    `json:"delivery" binding:"required,min=1,max=5"`
	Overall  int    `json:"overall" binding:"required,min=1,max=5"`
	Review   string `json:"review"`
}

type advanceStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Description string `json:"description"`
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		input, err := buildCreateInput(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, restaurant, err := svc.Create(ctx, userID, input)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Order created successfully",
			"order": gin.H{
				"id":          order.ID.Hex(),
				"orderNumber": order.OrderNumber(),
				"status":      order.Status,
				"restaurant": gin.H{
					"id":           restaurant.ID.Hex(),
					"name":         restaurant.Name,
					"image":        restaurant.Image,
					"deliveryTime": restaurant.DeliveryTime,
				},
				"items":                 order.Items,
				"orderSummary":          formattedSummary(order.OrderSummary),
				"estimatedDeliveryTime": order.EstimatedDeliveryTime,
			},
		})
	}
}

func buildCreateInput(req createOrderRequest) (orders.CreateOrderInput, error) {
	restaurantID, err := primitive.ObjectIDFromHex(req.Restaurant)
	if err != nil {
		return orders.CreateOrderInput{}, errInvalidRestaurantID
	}

	items := make([]orders.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		menuItemID, err := primitive.ObjectIDFromHex(item.MenuItem)
		if err != nil {
			return orders.CreateOrderInput{}, errInvalidMenuItemID
		}

		customizations := make([]models.Customization, 0, len(item.Customizations))
		for _, customization := range item.Customizations {
			selected := make([]models.SelectedOption, 0, len(customization.SelectedOptions))
			for _, option := range customization.SelectedOptions {
				selected = append(selected, models.SelectedOption{Name: option.Name, Price: option.Price})
			}
			customizations = append(customizations, models.Customization{
				Name:            customization.Name,
				SelectedOptions: selected,
			})
		}

		items = append(items, orders.CreateOrderItem{
			MenuItem:            menuItemID,
			Quantity:            item.Quantity,
			Customizations:      customizations,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	return orders.CreateOrderInput{
		Restaurant: restaurantID,
		Items:      items,
		DeliveryAddress: models.DeliveryAddress{
			Street:   req.DeliveryAddress.Street,
			City:     req.DeliveryAddress.City,
			State:    req.DeliveryAddress.State,
			Pincode:  req.DeliveryAddress.Pincode,
			Landmark: req.DeliveryAddress.Landmark,
		},
		ContactInfo: models.ContactInfo{
			Phone: req.ContactInfo.Phone,
			Name:  req.ContactInfo.Name,
		},
		SpecialInstructions: req.SpecialInstructions,
	}, nil
}

/* =========================
   READS
========================= */

func MyOrders(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/my-orders"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, total, err := svc.List(ctx, userID, c.Query("status"), page, limit)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		formatted := make([]gin.H, 0, len(list))
		for _, order := range list {
			formatted = append(formatted, gin.H{
				"id":                    order.ID.Hex(),
				"orderNumber":           order.OrderNumber(),
				"restaurant":            order.Restaurant.Hex(),
				"status":                order.Status,
				"itemCount":             len(order.Items),
				"items":                 order.Items,
				"orderSummary":          order.OrderSummary,
				"formattedTotal":        pricing.FormatPaise(order.OrderSummary.Total),
				"estimatedDeliveryTime": order.EstimatedDeliveryTime,
				"createdAt":             order.CreatedAt,
			})
		}

		totalPages := total / limit
		if total%limit != 0 {
			totalPages++
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  formatted,
			"pagination": gin.H{
				"current":     page,
				"total":       totalPages,
				"count":       len(list),
				"totalOrders": total,
			},
		})
	}
}

func GetOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:orderId"
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

		order, err := svc.Get(ctx, orderID, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order": gin.H{
				"id":                    order.ID.Hex(),
				"orderNumber":           order.OrderNumber(),
				"restaurant":            order.Restaurant.Hex(),
				"items":                 order.Items,
				"orderSummary":          formattedSummary(order.OrderSummary),
				"deliveryAddress":       order.DeliveryAddress,
				"contactInfo":           order.ContactInfo,
				"paymentInfo":           order.PaymentInfo,
				"status":                order.Status,
				"estimatedDeliveryTime": order.EstimatedDeliveryTime,
				"actualDeliveryTime":    order.ActualDeliveryTime,
				"orderTracking":         order.OrderTracking,
				"rating":                order.Rating,
				"refund":                order.Refund,
				"createdAt":             order.CreatedAt,
			},
		})
	}
}

func GetTracking(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:orderId/tracking"
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

		tracking, err := svc.Tracking(ctx, orderID, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "tracking": tracking})
	}
}

/* =========================
   MUTATIONS
========================= */

func CancelOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:orderId/cancel"
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

		order, err := svc.Cancel(ctx, orderID, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order cancelled successfully",
			"order": gin.H{
				"id":          order.ID.Hex(),
				"orderNumber": order.OrderNumber(),
				"status":      order.Status,
				"refund":      order.Refund,
			},
		})
	}
}

func RateOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:orderId/rate"
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

		var req rateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		rating, err := svc.Rate(ctx, orderID, userID, orders.RateInput{
			Food:     req.Food,
			Delivery: req.Delivery,
			Overall:  req.Overall,
			Review:   req.Review,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order rated successfully",
			"rating":  rating,
		})
	}
}

// AdvanceOrderStatus drives the kitchen/delivery stages. Role-gated in the
// router; customers go through cancel/rate instead.
func AdvanceOrderStatus(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:orderId/status"
		defer handlePanic(c, route)

		orderID, err := objectIDParam(c, "orderId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req advanceStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.Advance(ctx, orderID, req.Status, req.Description)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order status updated",
			"order": gin.H{
				"id":                 order.ID.Hex(),
				"orderNumber":        order.OrderNumber(),
				"status":             order.Status,
				"actualDeliveryTime": order.ActualDeliveryTime,
			},
		})
	}
}

func formattedSummary(summary models.OrderSummary) gin.H {
	return gin.H{
		"subtotal":             summary.Subtotal,
		"deliveryFee":          summary.DeliveryFee,
		"taxes":                summary.Taxes,
		"discount":             summary.Discount,
		"total":                summary.Total,
		"formattedSubtotal":    pricing.FormatPaise(summary.Subtotal),
		"formattedDeliveryFee": pricing.FormatPaise(summary.DeliveryFee),
		"formattedTaxes":       pricing.FormatPaise(summary.Taxes),
		"formattedTotal":       pricing.FormatPaise(summary.Total),
	}
}
