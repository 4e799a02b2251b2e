// Package pricing computes checkout amounts in minor currency units.
package pricing

import "github.com/shopspring/decimal"

// GST rate applied on the item subtotal at checkout.
var gstRate = decimal.NewFromFloat(0.18)

// GST returns round(subtotal * 0.18), rounding half away from zero,
// which matches how the storefront has always displayed tax.
func GST(subtotalCents int64) int64 {
	return decimal.NewFromInt(subtotalCents).Mul(gstRate).Round(0).IntPart()
}

// Total returns the checkout amount for a given item subtotal.
func Total(subtotalCents int64) int64 {
	return subtotalCents + GST(subtotalCents)
}
