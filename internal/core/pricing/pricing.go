// Package pricing computes order totals. It is pure: no I/O, no state.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/vitoko/coffee-pos/internal/core/domain"
)

var (
	premiumDiscountRate = decimal.RequireFromString("0.20")
	serviceChargeRate   = decimal.RequireFromString("0.10")
)

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Quote struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	ServiceCharge decimal.Decimal
	Total         decimal.Decimal
}

// Compute prices an order from its lines and the customer tier. Premium
// customers get a 20% discount on the subtotal; the 10% service charge is
// applied to the discounted amount for everyone. Amounts are rounded to the
// cent at each rate application.
func Compute(lines []Line, tier domain.CustomerTier) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	discount := decimal.Zero
	if tier == domain.TierPremium {
		discount = subtotal.Mul(premiumDiscountRate).Round(2)
	}

	discounted := subtotal.Sub(discount)
	serviceCharge := discounted.Mul(serviceChargeRate).Round(2)

	return Quote{
		Subtotal:      subtotal,
		Discount:      discount,
		ServiceCharge: serviceCharge,
		Total:         discounted.Add(serviceCharge),
	}
}
