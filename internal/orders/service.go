// Package orders implements the order lifecycle: creation from a cart,
// payment initiation and verification, cancellation, rating and tracking.
// The service owns the state machine; storage and external collaborators are
// injected ports.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rotino/internal/models"
	"rotino/internal/payments"
	"rotino/internal/pricing"
)

// Options are the pricing/payment knobs resolved once from configuration.
type Options struct {
	Currency          string
	ReceiptPrefix     string
	TaxRateBps        int64
	EstimatedDelivery time.Duration
}

type Service struct {
	store    Store
	catalog  Catalog
	gateway  payments.Gateway
	verifier payments.Verifier
	opts     Options
	now      func() time.Time
}

func NewService(store Store, catalog Catalog, gateway payments.Gateway, verifier payments.Verifier, opts Options) *Service {
	if opts.TaxRateBps == 0 {
		opts.TaxRateBps = pricing.DefaultTaxRateBps
	}
	if opts.EstimatedDelivery == 0 {
		opts.EstimatedDelivery = 35 * time.Minute
	}
	return &Service{
		store:    store,
		catalog:  catalog,
		gateway:  gateway,
		verifier: verifier,
		opts:     opts,
		now:      time.Now,
	}
}

// CreateOrderItem is one validated cart entry.
type CreateOrderItem struct {
	MenuItem            primitive.ObjectID
	Quantity            int
	Customizations      []models.Customization
	SpecialInstructions string
}

type CreateOrderInput struct {
	Restaurant          primitive.ObjectID
	Items               []CreateOrderItem
	DeliveryAddress     models.DeliveryAddress
	ContactInfo         models.ContactInfo
	SpecialInstructions string
}

// Create validates the cart against the catalog, snapshots names and prices,
// prices the order and persists it in pending_payment with its first tracking
// entry. Nothing is written until every validation has passed.
func (s *Service) Create(ctx context.Context, user primitive.ObjectID, input CreateOrderInput) (*models.Order, *models.Restaurant, error) {
	restaurant, err := s.catalog.Restaurant(ctx, input.Restaurant)
	if err != nil {
		return nil, nil, err
	}
	if !restaurant.Orderable() {
		return nil, nil, ErrNotFound
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, entry := range input.Items {
		menuItem, err := s.catalog.MenuItem(ctx, entry.MenuItem)
		if errors.Is(err, ErrNotFound) {
			return nil, nil, InvalidItemError{MenuItem: entry.MenuItem}
		}
		if err != nil {
			return nil, nil, err
		}
		if !menuItem.IsAvailable {
			return nil, nil, InvalidItemError{MenuItem: entry.MenuItem}
		}
		if menuItem.Restaurant != input.Restaurant {
			return nil, nil, ItemRestaurantMismatchError{MenuItem: entry.MenuItem, Name: menuItem.Name}
		}

		items = append(items, models.OrderItem{
			MenuItem:            menuItem.ID,
			Name:                menuItem.Name,
			Price:               menuItem.Price,
			Quantity:            entry.Quantity,
			Customizations:      entry.Customizations,
			SpecialInstructions: entry.SpecialInstructions,
			ItemTotal:           pricing.ItemTotal(menuItem.Price, entry.Customizations, entry.Quantity),
		})
	}

	summary := pricing.ComputeSummary(items, restaurant.DeliveryFee, 0, s.opts.TaxRateBps)
	if summary.Subtotal < restaurant.MinimumOrder {
		return nil, nil, BelowMinimumOrderError{
			Subtotal:     summary.Subtotal,
			MinimumOrder: restaurant.MinimumOrder,
		}
	}

	now := s.now()
	order := &models.Order{
		User:                  user,
		Restaurant:            restaurant.ID,
		Items:                 items,
		OrderSummary:          summary,
		DeliveryAddress:       input.DeliveryAddress,
		ContactInfo:           input.ContactInfo,
		PaymentInfo:           models.PaymentInfo{Status: models.PaymentPending},
		Status:                models.StatusPendingPayment,
		EstimatedDeliveryTime: now.Add(s.opts.EstimatedDelivery),
		OrderTracking: []models.TrackingEntry{{
			Status:      models.StatusPendingPayment,
			Timestamp:   now,
			Description: "Order created, waiting for payment",
		}},
		SpecialInstructions: input.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	id, err := s.store.Insert(ctx, order)
	if err != nil {
		return nil, nil, err
	}
	order.ID = id

	log.Println("[ORDER] [INFO] order created:", order.OrderNumber(), "user:", user.Hex())
	return order, restaurant, nil
}

// InitiatePayment creates a provider order for the amount due. A provider
// order created earlier for a still-pending payment is reused instead of
// piling up abandoned remote orders.
func (s *Service) InitiatePayment(ctx context.Context, id, user primitive.ObjectID) (payments.ProviderOrder, *models.Order, error) {
	order, err := s.ownedOrder(ctx, id, user)
	if err != nil {
		return payments.ProviderOrder{}, nil, err
	}
	if order.Status != models.StatusPendingPayment {
		return payments.ProviderOrder{}, nil, ErrInvalidState
	}

	if order.PaymentInfo.RazorpayOrderID != "" && order.PaymentInfo.Status == models.PaymentPending {
		log.Println("[PAYMENT] [INFO] reusing provider order:", order.PaymentInfo.RazorpayOrderID)
		return payments.ProviderOrder{
			ID:       order.PaymentInfo.RazorpayOrderID,
			Amount:   order.OrderSummary.Total,
			Currency: s.opts.Currency,
		}, order, nil
	}

	providerOrder, err := s.gateway.CreateOrder(ctx, payments.CreateOrderParams{
		Amount:   order.OrderSummary.Total,
		Currency: s.opts.Currency,
		Receipt:  pricing.Receipt(s.opts.ReceiptPrefix, order.ID.Hex()),
		Notes: map[string]string{
			"orderId":      order.ID.Hex(),
			"userId":       user.Hex(),
			"restaurantId": order.Restaurant.Hex(),
		},
	})
	if err != nil {
		log.Println("[PAYMENT] [ERROR] provider order create failed:", err)
		return payments.ProviderOrder{}, nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	matched, err := s.store.SetProviderOrder(ctx, order.ID, providerOrder.ID)
	if err != nil {
		return payments.ProviderOrder{}, nil, err
	}
	if !matched {
		return payments.ProviderOrder{}, nil, ErrInvalidState
	}
	order.PaymentInfo.RazorpayOrderID = providerOrder.ID

	log.Println("[PAYMENT] [INFO] provider order created:", providerOrder.ID, "for order:", order.OrderNumber())
	return providerOrder, order, nil
}

// VerifyPayment checks the provider callback. A failed signature marks the
// order payment_failed; that transition is the intended outcome of the
// failure, not an error path bug.
func (s *Service) VerifyPayment(ctx context.Context, id, user primitive.ObjectID, providerOrderID, paymentID, signature string) (*models.Order, error) {
	order, err := s.ownedOrder(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPendingPayment {
		return nil, ErrInvalidState
	}
	if order.PaymentInfo.RazorpayOrderID == "" || order.PaymentInfo.RazorpayOrderID != providerOrderID {
		return nil, ErrMismatchedOrder
	}

	now := s.now()
	if !s.verifier.Verify(providerOrderID, paymentID, signature) {
		matched, err := s.store.MarkPaymentFailed(ctx, order.ID, "Invalid signature", models.TrackingEntry{
			Status:      models.StatusPaymentFailed,
			Timestamp:   now,
			Description: "Payment failed: Invalid signature",
		})
		if err != nil {
			return nil, err
		}
		if !matched {
			return nil, ErrInvalidState
		}
		log.Println("[PAYMENT] [ERROR] signature verification failed for order:", order.OrderNumber())
		return nil, ErrSignatureInvalid
	}

	matched, err := s.store.MarkPaid(ctx, order.ID, paymentID, signature, now, models.TrackingEntry{
		Status:      models.StatusConfirmed,
		Timestamp:   now,
		Description: "Payment successful and order confirmed",
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrInvalidState
	}

	order.Status = models.StatusConfirmed
	order.PaymentInfo.RazorpayPaymentID = paymentID
	order.PaymentInfo.RazorpaySignature = signature
	order.PaymentInfo.Status = models.PaymentPaid
	order.PaymentInfo.PaidAt = &now
	order.OrderTracking = append(order.OrderTracking, models.TrackingEntry{
		Status:      models.StatusConfirmed,
		Timestamp:   now,
		Description: "Payment successful and order confirmed",
	})

	log.Println("[PAYMENT] [INFO] payment verified for order:", order.OrderNumber())
	return order, nil
}

// RecordPaymentFailure is the client-reported failure path, e.g. the payment
// widget was dismissed.
func (s *Service) RecordPaymentFailure(ctx context.Context, id, user primitive.ObjectID, reason string) (*models.Order, error) {
	order, err := s.ownedOrder(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPendingPayment {
		return nil, ErrInvalidState
	}
	if reason == "" {
		reason = "Payment failed"
	}

	now := s.now()
	matched, err := s.store.MarkPaymentFailed(ctx, order.ID, reason, models.TrackingEntry{
		Status:      models.StatusPaymentFailed,
		Timestamp:   now,
		Description: "Payment failed: " + reason,
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrInvalidState
	}

	order.Status = models.StatusPaymentFailed
	order.PaymentInfo.Status = models.PaymentFailed
	order.PaymentInfo.FailureReason = reason
	return order, nil
}

// PaymentStatus returns the payment sub-record together with the amount due.
func (s *Service) PaymentStatus(ctx context.Context, id, user primitive.ObjectID) (*models.Order, error) {
	return s.ownedOrder(ctx, id, user)
}

// Cancel moves a still-cancellable order to cancelled. A paid order gets a
// refund request for the full total; settlement is an external process.
func (s *Service) Cancel(ctx context.Context, id, user primitive.ObjectID) (*models.Order, error) {
	order, err := s.ownedOrder(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if !models.Cancellable(order.Status) {
		return nil, ErrInvalidState
	}

	var refund *models.Refund
	if order.PaymentInfo.Status == models.PaymentPaid {
		refund = &models.Refund{
			Amount: order.OrderSummary.Total,
			Reason: "Order cancelled by customer",
			Status: models.RefundRequested,
		}
	}

	now := s.now()
	matched, err := s.store.Cancel(ctx, order.ID, refund, models.TrackingEntry{
		Status:      models.StatusCancelled,
		Timestamp:   now,
		Description: "Order cancelled by customer",
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrInvalidState
	}

	order.Status = models.StatusCancelled
	order.Refund = refund
	log.Println("[ORDER] [INFO] order cancelled:", order.OrderNumber())
	return order, nil
}

type RateInput struct {
	Food     int
	Delivery int
	Overall  int
	Review   string
}

// Rate records the one-time rating on a delivered order.
func (s *Service) Rate(ctx context.Context, id, user primitive.ObjectID, input RateInput) (*models.Rating, error) {
	order, err := s.ownedOrder(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusDelivered {
		return nil, ErrInvalidState
	}
	if order.Rating != nil {
		return nil, ErrAlreadyRated
	}

	rating := models.Rating{
		Food:     input.Food,
		Delivery: input.Delivery,
		Overall:  input.Overall,
		Review:   input.Review,
		RatedAt:  s.now(),
	}
	matched, err := s.store.SetRating(ctx, order.ID, rating)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrAlreadyRated
	}
	return &rating, nil
}

// TrackingView is the read-only projection served to the tracking screen.
type TrackingView struct {
	CurrentStatus         string                  `json:"currentStatus"`
	EstimatedDeliveryTime time.Time               `json:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time              `json:"actualDeliveryTime,omitempty"`
	DeliveryPartner       *models.DeliveryPartner `json:"deliveryPartner,omitempty"`
	Timeline              []models.TrackingEntry  `json:"timeline"`
}

func (s *Service) Tracking(ctx context.Context, id, user primitive.ObjectID) (*TrackingView, error) {
	order, err := s.ownedOrder(ctx, id, user)
	if err != nil {
		return nil, err
	}
	return &TrackingView{
		CurrentStatus:         order.Status,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
		ActualDeliveryTime:    order.ActualDeliveryTime,
		DeliveryPartner:       order.DeliveryPartner,
		Timeline:              order.OrderTracking,
	}, nil
}

// List returns the user's orders, newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, user primitive.ObjectID, status string, page, limit int64) ([]models.Order, int64, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, 0, fmt.Errorf("unknown status filter %q", status)
	}
	return s.store.ListByUser(ctx, user, status, page, limit)
}

func (s *Service) Get(ctx context.Context, id, user primitive.ObjectID) (*models.Order, error) {
	return s.ownedOrder(ctx, id, user)
}

// Advance moves an order along the kitchen/delivery stages. Driven by
// restaurant and delivery actors, not customers; cancellation has its own
// path so it never slips in here.
func (s *Service) Advance(ctx context.Context, id primitive.ObjectID, to, description string) (*models.Order, error) {
	switch to {
	case models.StatusPreparing, models.StatusReadyForPickup, models.StatusOutForDelivery, models.StatusDelivered:
	default:
		return nil, fmt.Errorf("status %q cannot be set via advance", to)
	}

	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, to) {
		return nil, ErrInvalidState
	}

	now := s.now()
	var deliveredAt *time.Time
	if to == models.StatusDelivered {
		deliveredAt = &now
	}
	if description == "" {
		description = "Order status updated"
	}

	matched, err := s.store.AdvanceStatus(ctx, id, order.Status, to, deliveredAt, models.TrackingEntry{
		Status:      to,
		Timestamp:   now,
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrInvalidState
	}

	order.Status = to
	order.ActualDeliveryTime = deliveredAt
	return order, nil
}

// ownedOrder is the uniform fetch + ownership check applied by every by-id
// operation.
func (s *Service) ownedOrder(ctx context.Context, id, user primitive.ObjectID) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.User != user {
		return nil, ErrForbidden
	}
	return order, nil
}
