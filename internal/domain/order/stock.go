package order

// StockValidator enforces the sufficient-inventory rule per line.
type StockValidator struct{}

// NewStockValidator returns a StockValidator.
func NewStockValidator() *StockValidator {
	return &StockValidator{}
}

// Validate fails fast with *InsufficientStockError on the first line, in
// sequence order, whose requested quantity exceeds the product's current
// stock. Each line is checked independently against the loaded stock; the
// quantities of duplicate lines for one product are not summed here.
func (v *StockValidator) Validate(lines []Line) error {
	for _, line := range lines {
		if line.Quantity > line.Product.Stock {
			return &InsufficientStockError{
				ProductName: line.Product.Name,
				Requested:   line.Quantity,
				Available:   line.Product.Stock,
			}
		}
	}
	return nil
}
