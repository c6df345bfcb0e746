package orders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rotino/internal/models"
)

// Catalog looks up the read-mostly restaurant/menu documents consumed during
// order validation. Implementations return ErrNotFound for missing ids.
type Catalog interface {
	Restaurant(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error)
	MenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error)
}

// Store persists orders. Every mutating method carries a status guard and
// reports matched=false when the guard did not hold at write time, so a
// concurrent transition can never be overwritten by a stale read.
type Store interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, user primitive.ObjectID, status string, page, limit int64) ([]models.Order, int64, error)

	// SetProviderOrder stores the remote payment-order id while the order is
	// still pending payment.
	SetProviderOrder(ctx context.Context, id primitive.ObjectID, providerOrderID string) (matched bool, err error)

	// MarkPaid records a verified payment and moves the order to confirmed.
	MarkPaid(ctx context.Context, id primitive.ObjectID, paymentID, signature string, paidAt time.Time, entry models.TrackingEntry) (matched bool, err error)

	// MarkPaymentFailed records a failed payment attempt.
	MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, reason string, entry models.TrackingEntry) (matched bool, err error)

	// Cancel moves a still-cancellable order to cancelled, attaching a refund
	// request when the payment had gone through.
	Cancel(ctx context.Context, id primitive.ObjectID, refund *models.Refund, entry models.TrackingEntry) (matched bool, err error)

	// SetRating stores the one-time rating on a delivered order.
	SetRating(ctx context.Context, id primitive.ObjectID, rating models.Rating) (matched bool, err error)

	// AdvanceStatus moves the order from one exact status to the next,
	// appending the tracking entry and, for delivered, the actual delivery
	// time.
	AdvanceStatus(ctx context.Context, id primitive.ObjectID, from, to string, deliveredAt *time.Time, entry models.TrackingEntry) (matched bool, err error)
}
