// Package pricing computes order totals from price snapshots.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mkravtsov/checkout-service/internal/entities"
)

type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total returns the order total: Σ(quantity × unitPrice), rounded
// half-up to two minor units once on the aggregate. Rounding per line
// and summing afterwards drifts by pennies on long orders, so the sum
// is accumulated exactly first.
func Total(lines []Line) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return decimal.Zero, entities.NewValidationError("quantity must be positive, got %d", line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, entities.NewValidationError("unit price must not be negative, got %s", line.UnitPrice)
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2), nil
}
