package domain

import (
	"fmt"

	"go-cart/pkg/errors"
)

// Domain error constructors. Every failure carries a machine-readable
// code plus optional structured context; none expose internal state.

// NewInvalidMoney reports an invalid monetary value or operation
func NewInvalidMoney(message string, details map[string]interface{}) error {
	return errors.New(errors.CodeInvalidMoney, message, details)
}

// NewCurrencyMismatch reports an operation across different currencies
func NewCurrencyMismatch(left, right Currency) error {
	return errors.New(errors.CodeCurrencyMismatch,
		fmt.Sprintf("currency mismatch: %s vs %s", left, right),
		map[string]interface{}{
			"left":  string(left),
			"right": string(right),
		})
}

// NewInvalidQuantity reports a quantity outside [1, 999]
func NewInvalidQuantity(value int) error {
	return errors.New(errors.CodeInvalidQuantity,
		fmt.Sprintf("quantity must be between %d and %d", MinQuantity, MaxQuantity),
		map[string]interface{}{
			"value": value,
		})
}

// NewInvalidCartItem reports an invalid line item
func NewInvalidCartItem(message string, details map[string]interface{}) error {
	return errors.New(errors.CodeInvalidCartItem, message, details)
}

// NewInvalidCart reports an invalid cart state or argument
func NewInvalidCart(message string, details map[string]interface{}) error {
	return errors.New(errors.CodeInvalidCart, message, details)
}

// NewInvalidProduct reports an invalid product reference
func NewInvalidProduct(message string, details map[string]interface{}) error {
	return errors.New(errors.CodeInvalidProduct, message, details)
}

// NewCartNotActive reports an item mutation on a terminal cart
func NewCartNotActive(status CartStatus) error {
	return errors.New(errors.CodeCartNotActive,
		fmt.Sprintf("cart is %s, only active carts can be modified", status),
		map[string]interface{}{
			"status": string(status),
		})
}

// NewMaxCartItemsExceeded reports the distinct-item cap being hit
func NewMaxCartItemsExceeded() error {
	return errors.New(errors.CodeMaxCartItemsExceeded,
		fmt.Sprintf("cart cannot hold more than %d distinct items", MaxCartItems),
		nil)
}

// NewCartNotFound reports a missing cart
func NewCartNotFound(id CartID) error {
	return errors.New(errors.CodeCartNotFound,
		fmt.Sprintf("cart '%s' not found", id.String()),
		nil)
}

// NewProductNotFound reports a missing catalog product
func NewProductNotFound(id ProductID) error {
	return errors.New(errors.CodeProductNotFound,
		fmt.Sprintf("product '%s' not found", id.String()),
		nil)
}

// NewProductNotActive reports a product no longer sold
func NewProductNotActive(id ProductID) error {
	return errors.New(errors.CodeProductNotActive,
		fmt.Sprintf("product '%s' is not active", id.String()),
		nil)
}
