package cost

// Zero charges nothing. The default when no cost model is configured.
type Zero struct{}

// NewZero creates a Zero cost model.
func NewZero() *Zero {
	return &Zero{}
}

// Calculate implements Model.
func (z *Zero) Calculate(quantity, price float64) float64 {
	return 0
}
