package order

import "github.com/shopspring/decimal"

// PriceCalculator computes order subtotals with exact decimal arithmetic.
type PriceCalculator struct{}

// NewPriceCalculator returns a PriceCalculator.
func NewPriceCalculator() *PriceCalculator {
	return &PriceCalculator{}
}

// Subtotal returns the sum of unit price times quantity across all lines.
// No rounding is applied; rendering to two decimal places is a presentation
// concern. Zero lines yield decimal.Zero.
func (c *PriceCalculator) Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		sum = sum.Add(line.Product.Price.Mul(qty))
	}
	return sum
}
