package domain

import (
	"regexp"

	"github.com/google/uuid"
)

var productIDPattern = regexp.MustCompile(`^[A-Z0-9-]{3,50}$`)

// CartID identifies a cart. It is a distinct type from ProductID even
// though both wrap strings; they are never interchangeable.
type CartID struct {
	value string
}

// NewCartID generates a random cart identifier (UUID v4)
func NewCartID() CartID {
	return CartID{value: uuid.NewString()}
}

// ParseCartID validates a cart identifier string. Only the canonical
// 36-character hyphenated form is accepted; uuid.Parse alone would
// also take urn-prefixed, braced and unhyphenated encodings.
func ParseCartID(value string) (CartID, error) {
	id, err := uuid.Parse(value)
	if len(value) != 36 || err != nil || id.Version() != 4 || id.Variant() != uuid.RFC4122 {
		return CartID{}, NewInvalidCart("cart id must be a UUID v4", map[string]interface{}{
			"cart_id": value,
		})
	}
	return CartID{value: id.String()}, nil
}

// String returns the identifier value
func (id CartID) String() string {
	return id.value
}

// Equals reports value equality
func (id CartID) Equals(other CartID) bool {
	return id.value == other.value
}

// ProductID identifies a catalog product within a cart line item
type ProductID struct {
	value string
}

// ParseProductID validates a product identifier string
func ParseProductID(value string) (ProductID, error) {
	if !productIDPattern.MatchString(value) {
		return ProductID{}, NewInvalidProduct("product id must match ^[A-Z0-9-]{3,50}$", map[string]interface{}{
			"product_id": value,
		})
	}
	return ProductID{value: value}, nil
}

// String returns the identifier value
func (id ProductID) String() string {
	return id.value
}

// Equals reports value equality
func (id ProductID) Equals(other ProductID) bool {
	return id.value == other.value
}
