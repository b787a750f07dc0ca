package order

import "github.com/shopspring/decimal"

// DiscountPolicy transforms a subtotal given the basket's composition.
// Implementations must be pure: same subtotal and lines, same result.
// New strategies (volume, loyalty) plug in without orchestrator changes.
type DiscountPolicy interface {
	Apply(subtotal decimal.Decimal, lines []Line) decimal.Decimal
}

// VarietyDiscountPolicy grants 10% off baskets spanning at least four
// distinct products. Distinctness is by product identity: ten units of one
// product still count as a single product.
type VarietyDiscountPolicy struct {
	rate            decimal.Decimal
	minimumDistinct int
}

// NewVarietyDiscountPolicy returns the variety policy with its standard
// 10% rate and four-product threshold.
func NewVarietyDiscountPolicy() *VarietyDiscountPolicy {
	return &VarietyDiscountPolicy{
		rate:            decimal.NewFromFloat(0.10),
		minimumDistinct: 4,
	}
}

// Apply returns subtotal minus 10% when the lines span enough distinct
// products, the unchanged subtotal otherwise.
func (p *VarietyDiscountPolicy) Apply(subtotal decimal.Decimal, lines []Line) decimal.Decimal {
	if p.countDistinct(lines) < p.minimumDistinct {
		return subtotal
	}
	return subtotal.Sub(subtotal.Mul(p.rate))
}

func (p *VarietyDiscountPolicy) countDistinct(lines []Line) int {
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		seen[line.Product.ID] = struct{}{}
	}
	return len(seen)
}
