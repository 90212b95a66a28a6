package service

import (
	"github.com/shopspring/decimal"

	"github.com/dentsupply/shop/internal/config"
)

// PriceLine is one (unit price, quantity) input to the pricing engine.
type PriceLine struct {
	UnitPrice decimal.Decimal
	Quantity  uint
}

// Amounts is the money breakdown frozen into an order.
type Amounts struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
}

// ComputeAmounts prices a set of lines under the given policy. Pure: no I/O,
// intermediate sums keep full precision, only the final total is rounded to
// the minor currency unit using banker's rounding.
func ComputeAmounts(lines []PriceLine, policy config.PricingPolicy) Amounts {
	subtotal := decimal.Zero
	for _, ln := range lines {
		subtotal = subtotal.Add(ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}

	shipping := policy.FlatShippingFee
	if subtotal.GreaterThan(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(policy.TaxRate)
	total := subtotal.Add(shipping).Add(tax).RoundBank(2)

	return Amounts{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		TaxAmount:   tax,
		Total:       total,
	}
}
