package domain

import (
	"strings"
	"time"
)

// CartStatus is the lifecycle state of a cart
type CartStatus string

const (
	CartStatusActive     CartStatus = "ACTIVE"
	CartStatusAbandoned  CartStatus = "ABANDONED"
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
)

const (
	// MaxCartItems caps the number of distinct products in a cart
	MaxCartItems = 100
	// MaxUserIDLength bounds the cart owner identifier
	MaxUserIDLength = 100
)

// Cart is the aggregate root owning an ordered collection of line
// items. It enforces currency consistency, the distinct-item cap and
// lifecycle transitions. All mutation is by replacement: every mutator
// returns a new Cart and bumps the version counter, so a repository
// can detect concurrent writers.
type Cart struct {
	id        CartID
	userID    string
	items     []CartLineItem
	status    CartStatus
	currency  Currency
	createdAt time.Time
	updatedAt time.Time
	version   int64
}

// NewCart creates an empty ACTIVE cart for a user. An empty currency
// defaults to EUR; the currency is fixed for the cart's lifetime.
func NewCart(userID string, currency Currency) (Cart, error) {
	if err := validateUserID(userID); err != nil {
		return Cart{}, err
	}
	if currency == "" {
		currency = EUR
	} else if _, err := ParseCurrency(string(currency)); err != nil {
		return Cart{}, err
	}

	now := time.Now().UTC()
	return Cart{
		id:        NewCartID(),
		userID:    userID,
		items:     nil,
		status:    CartStatusActive,
		currency:  currency,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// RestoreCart rebuilds a cart from persisted state, re-checking every
// construction invariant so a corrupted record can never produce an
// invalid aggregate.
func RestoreCart(
	id CartID,
	userID string,
	items []CartLineItem,
	status CartStatus,
	currency Currency,
	createdAt, updatedAt time.Time,
	version int64,
) (Cart, error) {
	if err := validateUserID(userID); err != nil {
		return Cart{}, err
	}
	if _, err := ParseCurrency(string(currency)); err != nil {
		return Cart{}, err
	}
	switch status {
	case CartStatusActive, CartStatusAbandoned, CartStatusCheckedOut:
	default:
		return Cart{}, NewInvalidCart("unknown cart status", map[string]interface{}{
			"status": string(status),
		})
	}
	if len(items) > MaxCartItems {
		return Cart{}, NewMaxCartItemsExceeded()
	}
	if version < 1 {
		return Cart{}, NewInvalidCart("version must be positive", map[string]interface{}{
			"version": version,
		})
	}

	seen := make(map[ProductID]struct{}, len(items))
	for _, item := range items {
		if item.UnitPrice().Currency() != currency {
			return Cart{}, NewCurrencyMismatch(currency, item.UnitPrice().Currency())
		}
		if _, dup := seen[item.ProductID()]; dup {
			return Cart{}, NewInvalidCart("duplicate product in cart", map[string]interface{}{
				"product_id": item.ProductID().String(),
			})
		}
		seen[item.ProductID()] = struct{}{}
	}

	return Cart{
		id:        id,
		userID:    userID,
		items:     append([]CartLineItem(nil), items...),
		status:    status,
		currency:  currency,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
	}, nil
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return NewInvalidCart("user id cannot be blank", nil)
	}
	if len(userID) > MaxUserIDLength {
		return NewInvalidCart("user id too long", map[string]interface{}{
			"length": len(userID),
			"max":    MaxUserIDLength,
		})
	}
	return nil
}

// ID returns the cart identifier
func (c Cart) ID() CartID {
	return c.id
}

// UserID returns the owner identifier
func (c Cart) UserID() string {
	return c.userID
}

// Status returns the lifecycle state
func (c Cart) Status() CartStatus {
	return c.status
}

// Currency returns the cart currency
func (c Cart) Currency() Currency {
	return c.currency
}

// CreatedAt returns the creation timestamp
func (c Cart) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns the last-modified timestamp
func (c Cart) UpdatedAt() time.Time {
	return c.updatedAt
}

// Version returns the monotonic write counter
func (c Cart) Version() int64 {
	return c.version
}

// Items returns a copy of the line items in insertion order
func (c Cart) Items() []CartLineItem {
	return append([]CartLineItem(nil), c.items...)
}

// IsEmpty reports whether the cart holds no items
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// AddItem adds a product to the cart. Adding a product that is already
// present merges by summing quantities; the existing item's name and
// price are kept and the newly supplied ones discarded.
func (c Cart) AddItem(productID ProductID, productName string, quantity Quantity, unitPrice Money) (Cart, error) {
	if err := c.requireActive(); err != nil {
		return Cart{}, err
	}
	if unitPrice.Currency() != c.currency {
		return Cart{}, NewCurrencyMismatch(c.currency, unitPrice.Currency())
	}

	items := c.Items()
	if idx := c.indexOf(productID); idx >= 0 {
		merged, err := items[idx].IncreaseQuantity(quantity)
		if err != nil {
			return Cart{}, err
		}
		items[idx] = merged
		return c.replaceItems(items), nil
	}

	if len(items) >= MaxCartItems {
		return Cart{}, NewMaxCartItemsExceeded()
	}

	item, err := NewCartLineItem(productID, productName, quantity, unitPrice)
	if err != nil {
		return Cart{}, err
	}
	return c.replaceItems(append(items, item)), nil
}

// RemoveItem deletes a line item by product ID
func (c Cart) RemoveItem(productID ProductID) (Cart, error) {
	if err := c.requireActive(); err != nil {
		return Cart{}, err
	}
	idx := c.indexOf(productID)
	if idx < 0 {
		return Cart{}, c.itemNotFound(productID)
	}
	items := c.Items()
	return c.replaceItems(append(items[:idx], items[idx+1:]...)), nil
}

// UpdateItemQuantity replaces an item's quantity wholesale
func (c Cart) UpdateItemQuantity(productID ProductID, quantity Quantity) (Cart, error) {
	if err := c.requireActive(); err != nil {
		return Cart{}, err
	}
	idx := c.indexOf(productID)
	if idx < 0 {
		return Cart{}, c.itemNotFound(productID)
	}
	items := c.Items()
	items[idx] = items[idx].WithQuantity(quantity)
	return c.replaceItems(items), nil
}

// ClearItems empties the cart
func (c Cart) ClearItems() (Cart, error) {
	if err := c.requireActive(); err != nil {
		return Cart{}, err
	}
	return c.replaceItems(nil), nil
}

// Checkout transitions ACTIVE -> CHECKED_OUT; the cart must not be empty
func (c Cart) Checkout() (Cart, error) {
	if err := c.requireActive(); err != nil {
		return Cart{}, err
	}
	if c.IsEmpty() {
		return Cart{}, NewInvalidCart("cannot checkout empty cart", nil)
	}
	c.status = CartStatusCheckedOut
	return c.touch(), nil
}

// Abandon transitions ACTIVE -> ABANDONED
func (c Cart) Abandon() (Cart, error) {
	if err := c.requireActive(); err != nil {
		return Cart{}, err
	}
	c.status = CartStatusAbandoned
	return c.touch(), nil
}

// Total is the sum of all line totals; zero for an empty cart.
// Summation over integer minor units never drifts.
func (c Cart) Total() Money {
	total := ZeroMoney(c.currency)
	for _, item := range c.items {
		total, _ = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount is the sum of all item quantities, as opposed to the
// number of distinct products.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity().Value()
	}
	return count
}

func (c Cart) requireActive() error {
	if c.status != CartStatusActive {
		return NewCartNotActive(c.status)
	}
	return nil
}

func (c Cart) indexOf(productID ProductID) int {
	for i, item := range c.items {
		if item.ProductID().Equals(productID) {
			return i
		}
	}
	return -1
}

func (c Cart) itemNotFound(productID ProductID) error {
	return NewInvalidCart("item not found in cart", map[string]interface{}{
		"product_id": productID.String(),
	})
}

func (c Cart) replaceItems(items []CartLineItem) Cart {
	c.items = items
	return c.touch()
}

func (c Cart) touch() Cart {
	c.updatedAt = time.Now().UTC()
	c.version++
	return c
}

// CartDTO is the flattened serializable projection of a cart, the
// contract the presentation layer depends on. Timestamps are ISO-8601.
type CartDTO struct {
	CartID    string            `json:"cartId"`
	UserID    string            `json:"userId"`
	Status    string            `json:"status"`
	Currency  string            `json:"currency"`
	Items     []CartLineItemDTO `json:"items"`
	Total     MoneyDTO          `json:"total"`
	ItemCount int               `json:"itemCount"`
	Version   int64             `json:"version"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

// ToDTO returns the serializable projection
func (c Cart) ToDTO() CartDTO {
	items := make([]CartLineItemDTO, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item.ToDTO())
	}
	return CartDTO{
		CartID:    c.id.String(),
		UserID:    c.userID,
		Status:    string(c.status),
		Currency:  string(c.currency),
		Items:     items,
		Total:     c.Total().ToDTO(),
		ItemCount: c.ItemCount(),
		Version:   c.version,
		CreatedAt: c.createdAt.Format(time.RFC3339),
		UpdatedAt: c.updatedAt.Format(time.RFC3339),
	}
}
