package domain

const (
	// MinQuantity is the smallest allowed item quantity
	MinQuantity = 1
	// MaxQuantity is the largest allowed item quantity
	MaxQuantity = 999
)

// Quantity is a bounded positive integer in [1, 999]. Immutable.
type Quantity struct {
	value int
}

// NewQuantity creates a validated Quantity
func NewQuantity(value int) (Quantity, error) {
	if value < MinQuantity || value > MaxQuantity {
		return Quantity{}, NewInvalidQuantity(value)
	}
	return Quantity{value: value}, nil
}

// Value returns the underlying integer
func (q Quantity) Value() int {
	return q.value
}

// Add returns the sum; it fails if the result would exceed the maximum
func (q Quantity) Add(other Quantity) (Quantity, error) {
	return NewQuantity(q.value + other.value)
}

// Subtract returns the difference; it fails if the result would drop
// below one. Removing an item entirely is an aggregate operation, not
// a quantity of zero.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	return NewQuantity(q.value - other.value)
}

// GreaterThan reports whether q exceeds other
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value > other.value
}

// LessThan reports whether q is below other
func (q Quantity) LessThan(other Quantity) bool {
	return q.value < other.value
}

// Equals reports value equality
func (q Quantity) Equals(other Quantity) bool {
	return q.value == other.value
}
