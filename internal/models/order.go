package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. The transition table below is the only authority on
// which moves are legal; handlers and the service never compare raw strings.
const (
	StatusPendingPayment = "pending_payment"
	StatusPaymentFailed  = "payment_failed"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusReadyForPickup = "ready_for_pickup"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment sub-record status values.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Refund request status values. Only "requested" is ever set by this service;
// the rest belong to the external settlement process.
const (
	RefundRequested = "requested"
	RefundApproved  = "approved"
	RefundProcessed = "processed"
	RefundRejected  = "rejected"
)

var statusTransitions = map[string][]string{
	StatusPendingPayment: {StatusConfirmed, StatusPaymentFailed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup: {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusPaymentFailed:  {},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// Cancellable statuses: once the kitchen hands the order off it cannot be
// cancelled anymore.
func Cancellable(status string) bool {
	switch status {
	case StatusPendingPayment, StatusConfirmed, StatusPreparing:
		return true
	}
	return false
}

// SelectedOption is one chosen option inside a customization group, with its
// price delta in paise.
type SelectedOption struct {
	Name  string `bson:"name" json:"name"`
	Price int64  `bson:"price" json:"price"`
}

type Customization struct {
	Name            string           `bson:"name" json:"name"`
	SelectedOptions []SelectedOption `bson:"selectedOptions" json:"selectedOptions"`
}

// OrderItem is a line item with the menu item's name and price snapshotted at
// order time. Catalog edits after that never touch existing orders.
type OrderItem struct {
	MenuItem            primitive.ObjectID `bson:"menuItem" json:"menuItem"`
	Name                string             `bson:"name" json:"name"`
	Price               int64              `bson:"price" json:"price"`
	Quantity            int                `bson:"quantity" json:"quantity"`
	Customizations      []Customization    `bson:"customizations,omitempty" json:"customizations,omitempty"`
	SpecialInstructions string             `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
	ItemTotal           int64              `bson:"itemTotal" json:"itemTotal"`
}

// OrderSummary holds the authoritative pricing breakdown in paise.
// total = subtotal + deliveryFee + taxes - discount.
type OrderSummary struct {
	Subtotal    int64 `bson:"subtotal" json:"subtotal"`
	DeliveryFee int64 `bson:"deliveryFee" json:"deliveryFee"`
	Taxes       int64 `bson:"taxes" json:"taxes"`
	Discount    int64 `bson:"discount" json:"discount"`
	Total       int64 `bson:"total" json:"total"`
}

type DeliveryAddress struct {
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	Pincode  string `bson:"pincode" json:"pincode"`
	Landmark string `bson:"landmark,omitempty" json:"landmark,omitempty"`
}

type ContactInfo struct {
	Phone string `bson:"phone" json:"phone"`
	Name  string `bson:"name" json:"name"`
}

type PaymentInfo struct {
	RazorpayOrderID   string     `bson:"razorpayOrderId" json:"razorpayOrderId"`
	RazorpayPaymentID string     `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string     `bson:"razorpaySignature,omitempty" json:"-"`
	Method            string     `bson:"method,omitempty" json:"method,omitempty"`
	Status            string     `bson:"status" json:"status"`
	PaidAt            *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	FailureReason     string     `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
}

// TrackingEntry is one step of the append-only audit timeline.
type TrackingEntry struct {
	Status      string    `bson:"status" json:"status"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
}

type DeliveryPartner struct {
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Vehicle string `bson:"vehicle,omitempty" json:"vehicle,omitempty"`
}

type Rating struct {
	Food     int       `bson:"food" json:"food"`
	Delivery int       `bson:"delivery" json:"delivery"`
	Overall  int       `bson:"overall" json:"overall"`
	Review   string    `bson:"review,omitempty" json:"review,omitempty"`
	RatedAt  time.Time `bson:"ratedAt" json:"ratedAt"`
}

type Refund struct {
	Amount      int64      `bson:"amount" json:"amount"`
	Reason      string     `bson:"reason" json:"reason"`
	Status      string     `bson:"status" json:"status"`
	ProcessedAt *time.Time `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}

// Order is the persisted order document. Cancellation is a status, not a
// deletion; orders are never removed.
type Order struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User                  primitive.ObjectID `bson:"user" json:"user"`
	Restaurant            primitive.ObjectID `bson:"restaurant" json:"restaurant"`
	Items                 []OrderItem        `bson:"items" json:"items"`
	OrderSummary          OrderSummary       `bson:"orderSummary" json:"orderSummary"`
	DeliveryAddress       DeliveryAddress    `bson:"deliveryAddress" json:"deliveryAddress"`
	ContactInfo           ContactInfo        `bson:"contactInfo" json:"contactInfo"`
	PaymentInfo           PaymentInfo        `bson:"paymentInfo" json:"paymentInfo"`
	Status                string             `bson:"status" json:"status"`
	EstimatedDeliveryTime time.Time          `bson:"estimatedDeliveryTime" json:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time         `bson:"actualDeliveryTime,omitempty" json:"actualDeliveryTime,omitempty"`
	OrderTracking         []TrackingEntry    `bson:"orderTracking" json:"orderTracking"`
	DeliveryPartner       *DeliveryPartner   `bson:"deliveryPartner,omitempty" json:"deliveryPartner,omitempty"`
	Rating                *Rating            `bson:"rating,omitempty" json:"rating,omitempty"`
	SpecialInstructions   string             `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
	Refund                *Refund            `bson:"refund,omitempty" json:"refund,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderNumber is the customer-facing short reference: ORD + last 8 hex digits
// of the document id, uppercased.
func (o Order) OrderNumber() string {
	hex := o.ID.Hex()
	if len(hex) > 8 {
		hex = hex[len(hex)-8:]
	}
	return "ORD" + strings.ToUpper(hex)
}
