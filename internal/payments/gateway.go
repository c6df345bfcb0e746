// Package payments holds the payment-provider port: remote order creation and
// callback signature verification. The live implementation talks to Razorpay;
// the mock one fabricates the same shapes deterministically for environments
// without credentials. Selection happens once at startup, never inside
// business logic.
package payments

import "context"

// ProviderOrder is the provider-side order created to authorize a charge,
// distinct from the platform's own Order document.
type ProviderOrder struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// CreateOrderParams carries everything the provider needs for a new order.
// Amount is in paise.
type CreateOrderParams struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Gateway creates remote payment orders.
type Gateway interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (ProviderOrder, error)
}

// Verifier checks that a payment callback was signed by the provider.
type Verifier interface {
	Verify(orderID, paymentID, signature string) bool
}
