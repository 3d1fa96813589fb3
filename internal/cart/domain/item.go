package domain

import (
	"strings"
)

// MaxProductNameLength bounds the product name on a line item
const MaxProductNameLength = 200

// CartLineItem is a cart entry for one product. Its identity is the
// product ID; quantity and price are state. Immutable: every update
// returns a new value.
type CartLineItem struct {
	productID   ProductID
	productName string
	quantity    Quantity
	unitPrice   Money
}

// NewCartLineItem creates a validated line item
func NewCartLineItem(productID ProductID, productName string, quantity Quantity, unitPrice Money) (CartLineItem, error) {
	if strings.TrimSpace(productName) == "" {
		return CartLineItem{}, NewInvalidCartItem("product name cannot be blank", map[string]interface{}{
			"product_id": productID.String(),
		})
	}
	if len(productName) > MaxProductNameLength {
		return CartLineItem{}, NewInvalidCartItem("product name too long", map[string]interface{}{
			"product_id": productID.String(),
			"length":     len(productName),
			"max":        MaxProductNameLength,
		})
	}
	if unitPrice.IsZero() {
		return CartLineItem{}, NewInvalidCartItem("unit price cannot be zero", map[string]interface{}{
			"product_id": productID.String(),
		})
	}

	return CartLineItem{
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}, nil
}

// ProductID returns the item identity
func (i CartLineItem) ProductID() ProductID {
	return i.productID
}

// ProductName returns the display name
func (i CartLineItem) ProductName() string {
	return i.productName
}

// Quantity returns the item quantity
func (i CartLineItem) Quantity() Quantity {
	return i.quantity
}

// UnitPrice returns the price per unit
func (i CartLineItem) UnitPrice() Money {
	return i.unitPrice
}

// LineTotal is the derived unitPrice * quantity. Integer minor units
// make this exact for any quantity.
func (i CartLineItem) LineTotal() Money {
	total, _ := i.unitPrice.Multiply(float64(i.quantity.Value()))
	return total
}

// WithQuantity replaces the quantity wholesale
func (i CartLineItem) WithQuantity(quantity Quantity) CartLineItem {
	i.quantity = quantity
	return i
}

// IncreaseQuantity adds delta to the quantity
func (i CartLineItem) IncreaseQuantity(delta Quantity) (CartLineItem, error) {
	sum, err := i.quantity.Add(delta)
	if err != nil {
		return CartLineItem{}, err
	}
	i.quantity = sum
	return i, nil
}

// DecreaseQuantity subtracts delta from the quantity; underflow fails
func (i CartLineItem) DecreaseQuantity(delta Quantity) (CartLineItem, error) {
	diff, err := i.quantity.Subtract(delta)
	if err != nil {
		return CartLineItem{}, err
	}
	i.quantity = diff
	return i, nil
}

// Equals compares by identity only: two items for the same product are
// equal regardless of quantity or price.
func (i CartLineItem) Equals(other CartLineItem) bool {
	return i.productID.Equals(other.productID)
}

// CartLineItemDTO is the serializable projection of a line item
type CartLineItemDTO struct {
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	Quantity    int      `json:"quantity"`
	UnitPrice   MoneyDTO `json:"unitPrice"`
	LineTotal   MoneyDTO `json:"lineTotal"`
}

// ToDTO returns the serializable projection including the computed
// line total
func (i CartLineItem) ToDTO() CartLineItemDTO {
	return CartLineItemDTO{
		ProductID:   i.productID.String(),
		ProductName: i.productName,
		Quantity:    i.quantity.Value(),
		UnitPrice:   i.unitPrice.ToDTO(),
		LineTotal:   i.LineTotal().ToDTO(),
	}
}
