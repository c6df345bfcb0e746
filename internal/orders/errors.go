package orders

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error taxonomy surfaced by the lifecycle service. Handlers map these onto
// HTTP statuses; nothing here is retried automatically.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("unauthorized access to order")
	ErrInvalidState        = errors.New("operation not permitted in current order status")
	ErrAlreadyRated        = errors.New("order has already been rated")
	ErrMismatchedOrder     = errors.New("invalid razorpay order id")
	ErrSignatureInvalid    = errors.New("payment signature verification failed")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// InvalidItemError reports a cart entry that references a missing or
// unavailable menu item.
type InvalidItemError struct {
	MenuItem primitive.ObjectID
}

func (e InvalidItemError) Error() string {
	return fmt.Sprintf("menu item %s is not available", e.MenuItem.Hex())
}

// ItemRestaurantMismatchError reports a cart entry whose menu item belongs to
// a different restaurant than the order claims.
type ItemRestaurantMismatchError struct {
	MenuItem primitive.ObjectID
	Name     string
}

func (e ItemRestaurantMismatchError) Error() string {
	return fmt.Sprintf("menu item %s does not belong to this restaurant", e.Name)
}

// BelowMinimumOrderError reports a subtotal under the restaurant's floor.
// Amounts are paise.
type BelowMinimumOrderError struct {
	Subtotal     int64
	MinimumOrder int64
}

func (e BelowMinimumOrderError) Error() string {
	return fmt.Sprintf("minimum order amount is %d paise", e.MinimumOrder)
}
