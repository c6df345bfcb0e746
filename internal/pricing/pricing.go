// Package pricing computes order summaries. All amounts are int64 paise;
// nothing here touches floating point, so the same inputs always produce the
// same summary.
package pricing

import (
	"fmt"
	"time"

	"rotino/internal/models"
)

// DefaultTaxRateBps is 5% GST expressed in basis points.
const DefaultTaxRateBps = 500

// ItemTotal is (base price + sum of selected customization prices) * quantity.
func ItemTotal(price int64, customizations []models.Customization, quantity int) int64 {
	extra := int64(0)
	for _, customization := range customizations {
		for _, option := range customization.SelectedOptions {
			extra += option.Price
		}
	}
	return (price + extra) * int64(quantity)
}

// Tax returns the tax on a subtotal at the given basis-point rate, rounded
// half-up to the nearest paisa.
func Tax(subtotal, rateBps int64) int64 {
	return (subtotal*rateBps + 5000) / 10000
}

// ComputeSummary builds the authoritative order summary from already-priced
// line items. Pure: callers reject empty carts before invoking.
func ComputeSummary(items []models.OrderItem, deliveryFee, discount, taxRateBps int64) models.OrderSummary {
	subtotal := int64(0)
	for _, item := range items {
		subtotal += item.ItemTotal
	}
	taxes := Tax(subtotal, taxRateBps)

	return models.OrderSummary{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Taxes:       taxes,
		Discount:    discount,
		Total:       subtotal + deliveryFee + taxes - discount,
	}
}

// FormatPaise renders a paise amount as a rupee display string, e.g. ₹565.00.
// Display only; money math never leaves integers.
func FormatPaise(amount int64) string {
	rupees := amount / 100
	paise := amount % 100
	if paise < 0 {
		paise = -paise
	}
	return fmt.Sprintf("₹%d.%02d", rupees, paise)
}

// Receipt builds the provider-side receipt reference for an order.
func Receipt(prefix, orderID string) string {
	return fmt.Sprintf("%s%s_%d", prefix, orderID, time.Now().UnixMilli())
}
