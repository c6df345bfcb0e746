package payments

import (
	"context"
	"fmt"
	"time"
)

// MockGateway fabricates provider orders without any network access. The id
// shape mirrors the live provider closely enough for the client widget flow.
type MockGateway struct {
	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

func NewMockGateway() *MockGateway {
	return &MockGateway{now: time.Now}
}

func (g *MockGateway) CreateOrder(ctx context.Context, params CreateOrderParams) (ProviderOrder, error) {
	ts := g.now().UnixMilli()
	receipt := params.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("mock_receipt_%d", ts)
	}
	return ProviderOrder{
		ID:        fmt.Sprintf("order_mock_%d", ts),
		Amount:    params.Amount,
		Currency:  params.Currency,
		Receipt:   receipt,
		Status:    "created",
		CreatedAt: ts / 1000,
	}, nil
}
