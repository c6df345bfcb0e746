package pricing

import (
	"reflect"
	"testing"

	"rotino/internal/models"
)

func TestComputeSummaryTotalsScenario(t *testing.T) {
	items := []models.OrderItem{
		{Price: 35000, Quantity: 1, ItemTotal: 35000},
		{Price: 15000, Quantity: 1, ItemTotal: 15000},
	}

	summary := ComputeSummary(items, 4000, 0, DefaultTaxRateBps)

	if summary.Subtotal != 50000 {
		t.Fatalf("expected subtotal 50000, got %d", summary.Subtotal)
	}
	if summary.Taxes != 2500 {
		t.Fatalf("expected taxes 2500, got %d", summary.Taxes)
	}
	if summary.Total != 56500 {
		t.Fatalf("expected total 56500, got %d", summary.Total)
	}
}

func TestComputeSummaryTotalInvariant(t *testing.T) {
	cases := []struct {
		items       []models.OrderItem
		deliveryFee int64
		discount    int64
	}{
		{nil, 0, 0},
		{[]models.OrderItem{{ItemTotal: 1}}, 0, 0},
		{[]models.OrderItem{{ItemTotal: 9999}}, 2500, 1000},
		{[]models.OrderItem{{ItemTotal: 35000}, {ItemTotal: 15000}}, 4000, 0},
		{[]models.OrderItem{{ItemTotal: 123457}}, 1999, 500},
	}

	for _, tc := range cases {
		summary := ComputeSummary(tc.items, tc.deliveryFee, tc.discount, DefaultTaxRateBps)
		want := summary.Subtotal + summary.DeliveryFee + summary.Taxes - summary.Discount
		if summary.Total != want {
			t.Fatalf("total invariant broken: got %d, want %d (summary %+v)", summary.Total, want, summary)
		}
	}
}

func TestComputeSummaryDeterministic(t *testing.T) {
	items := []models.OrderItem{
		{Price: 12345, Quantity: 3, ItemTotal: 37035},
		{Price: 500, Quantity: 2, ItemTotal: 1000},
	}

	first := ComputeSummary(items, 2000, 500, DefaultTaxRateBps)
	second := ComputeSummary(items, 2000, 500, DefaultTaxRateBps)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summaries differ for identical inputs: %+v vs %+v", first, second)
	}
}

func TestComputeSummaryEmptyItems(t *testing.T) {
	summary := ComputeSummary(nil, 4000, 0, DefaultTaxRateBps)
	if summary.Subtotal != 0 {
		t.Fatalf("expected zero subtotal for empty items, got %d", summary.Subtotal)
	}
	if summary.Total != 4000 {
		t.Fatalf("expected total 4000 for empty items, got %d", summary.Total)
	}
}

func TestTaxRoundsHalfUp(t *testing.T) {
	cases := []struct {
		subtotal int64
		want     int64
	}{
		{10000, 500},  // exactly 5%
		{10009, 500},  // 500.45 rounds down
		{10010, 501},  // 500.50 rounds up
		{10011, 501},  // 500.55 rounds up
		{1, 0},        // 0.05 rounds down
		{10, 1},       // 0.50 rounds up
		{0, 0},
	}

	for _, tc := range cases {
		if got := Tax(tc.subtotal, DefaultTaxRateBps); got != tc.want {
			t.Fatalf("Tax(%d) = %d, want %d", tc.subtotal, got, tc.want)
		}
	}
}

func TestItemTotalWithCustomizations(t *testing.T) {
	customizations := []models.Customization{
		{
			Name: "Size",
			SelectedOptions: []models.SelectedOption{
				{Name: "Large", Price: 5000},
			},
		},
		{
			Name: "Extras",
			SelectedOptions: []models.SelectedOption{
				{Name: "Cheese", Price: 2000},
				{Name: "Olives", Price: 1500},
			},
		},
	}

	// (20000 + 5000 + 2000 + 1500) * 2
	if got := ItemTotal(20000, customizations, 2); got != 57000 {
		t.Fatalf("ItemTotal = %d, want 57000", got)
	}
	if got := ItemTotal(20000, nil, 1); got != 20000 {
		t.Fatalf("ItemTotal without customizations = %d, want 20000", got)
	}
}

func TestFormatPaise(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{56500, "₹565.00"},
		{4000, "₹40.00"},
		{5, "₹0.05"},
		{0, "₹0.00"},
	}

	for _, tc := range cases {
		if got := FormatPaise(tc.amount); got != tc.want {
			t.Fatalf("FormatPaise(%d) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}
