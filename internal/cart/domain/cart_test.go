package domain

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cart/pkg/errors"
)

func TestNewCart(t *testing.T) {
	cart, err := NewCart("user-1", "")
	require.NoError(t, err)

	assert.Equal(t, CartStatusActive, cart.Status())
	assert.Equal(t, EUR, cart.Currency(), "currency defaults to EUR")
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(1), cart.Version())
	assert.Equal(t, cart.CreatedAt(), cart.UpdatedAt())
	assert.True(t, cart.Total().IsZero())

	usd, err := NewCart(gofakeit.Username(), USD)
	require.NoError(t, err)
	assert.Equal(t, USD, usd.Currency())

	_, err = NewCart("  ", EUR)
	assert.True(t, errors.Is(err, errors.CodeInvalidCart), "blank user id must fail")

	_, err = NewCart(strings.Repeat("u", 101), EUR)
	assert.True(t, errors.Is(err, errors.CodeInvalidCart))

	_, err = NewCart("user-1", "CHF")
	assert.True(t, errors.Is(err, errors.CodeInvalidMoney))
}

func TestCartBasicTotal(t *testing.T) {
	cart := newTestCart(t, EUR)

	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 2, 29.99)
	cart = addItem(t, cart, "PROD-002", "USB-C Cable", 1, 15.50)

	assert.Equal(t, 75.48, cart.Total().ToDTO().Amount)
	assert.Equal(t, 3, cart.ItemCount())
	assert.Len(t, cart.Items(), 2)
}

func TestCartAddItemMerges(t *testing.T) {
	cart := newTestCart(t, EUR)

	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 2, 29.99)
	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 3, 29.99)

	items := cart.Items()
	require.Len(t, items, 1, "merging must not add a second line")
	assert.Equal(t, 5, items[0].Quantity().Value())
	assert.Equal(t, 149.95, items[0].LineTotal().ToDTO().Amount)
}

func TestCartAddItemMergeKeepsExistingNameAndPrice(t *testing.T) {
	cart := newTestCart(t, EUR)
	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 1, 29.99)

	// a repeat add with different name and price only sums quantities
	cart = addItem(t, cart, "PROD-001", "Renamed Product", 1, 99.99)

	item := cart.Items()[0]
	assert.Equal(t, "Wireless Mouse", item.ProductName())
	assert.Equal(t, int64(2999), item.UnitPrice().MinorUnits())
	assert.Equal(t, 2, item.Quantity().Value())
}

func TestCartAddItemCurrencyMismatch(t *testing.T) {
	cart := newTestCart(t, EUR)

	_, err := cart.AddItem(
		mustProductID(t, "PROD-001"),
		"Wireless Mouse",
		mustQuantity(t, 1),
		mustMoney(t, 9.99, USD),
	)
	assert.True(t, errors.Is(err, errors.CodeCurrencyMismatch), "got %v", err)
	assert.True(t, cart.IsEmpty(), "failed add must leave the cart unchanged")
}

func TestCartMaxItems(t *testing.T) {
	cart := newTestCart(t, EUR)

	for i := 1; i <= MaxCartItems; i++ {
		cart = addItem(t, cart, fmt.Sprintf("PROD-%03d", i), gofakeit.ProductName(), 1, 9.99)
	}
	assert.Len(t, cart.Items(), MaxCartItems, "the 100th distinct product must fit")

	_, err := cart.AddItem(
		mustProductID(t, "PROD-999"),
		"One Too Many",
		mustQuantity(t, 1),
		mustMoney(t, 9.99, EUR),
	)
	assert.True(t, errors.Is(err, errors.CodeMaxCartItemsExceeded))

	// merging into an existing line is still allowed at the cap
	merged, err := cart.AddItem(
		mustProductID(t, "PROD-001"),
		"Whatever",
		mustQuantity(t, 1),
		mustMoney(t, 9.99, EUR),
	)
	require.NoError(t, err)
	assert.Len(t, merged.Items(), MaxCartItems)
}

func TestCartRemoveItem(t *testing.T) {
	cart := newTestCart(t, EUR)
	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 2, 29.99)
	cart = addItem(t, cart, "PROD-002", "USB-C Cable", 1, 15.50)

	updated, err := cart.RemoveItem(mustProductID(t, "PROD-001"))
	require.NoError(t, err)
	require.Len(t, updated.Items(), 1)
	assert.Equal(t, "PROD-002", updated.Items()[0].ProductID().String())

	_, err = updated.RemoveItem(mustProductID(t, "PROD-001"))
	assert.True(t, errors.Is(err, errors.CodeInvalidCart), "removing an absent item must fail")
}

func TestCartUpdateItemQuantity(t *testing.T) {
	cart := newTestCart(t, EUR)
	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 2, 29.99)

	// wholesale replacement, not a merge
	updated, err := cart.UpdateItemQuantity(mustProductID(t, "PROD-001"), mustQuantity(t, 9))
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Items()[0].Quantity().Value())

	_, err = cart.UpdateItemQuantity(mustProductID(t, "PROD-404"), mustQuantity(t, 1))
	assert.True(t, errors.Is(err, errors.CodeInvalidCart))
}

func TestCartClearItems(t *testing.T) {
	cart := newTestCart(t, EUR)
	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 2, 29.99)

	cleared, err := cart.ClearItems()
	require.NoError(t, err)
	assert.True(t, cleared.IsEmpty())
	assert.True(t, cleared.Total().IsZero())
	assert.Len(t, cart.Items(), 1, "original is untouched")
}

func TestCartCheckout(t *testing.T) {
	cart := newTestCart(t, EUR)

	_, err := cart.Checkout()
	assert.True(t, errors.Is(err, errors.CodeInvalidCart), "empty cart cannot be checked out")

	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 1, 29.99)

	done, err := cart.Checkout()
	require.NoError(t, err)
	assert.Equal(t, CartStatusCheckedOut, done.Status())
}

func TestCartAbandon(t *testing.T) {
	cart := newTestCart(t, EUR)

	abandoned, err := cart.Abandon()
	require.NoError(t, err)
	assert.Equal(t, CartStatusAbandoned, abandoned.Status())

	// terminal: no transition out
	_, err = abandoned.Checkout()
	assert.True(t, errors.Is(err, errors.CodeCartNotActive))
	_, err = abandoned.Abandon()
	assert.True(t, errors.Is(err, errors.CodeCartNotActive))
}

func TestCartStatusGating(t *testing.T) {
	active := addItem(t, newTestCart(t, EUR), "PROD-001", "Wireless Mouse", 1, 29.99)

	checkedOut, err := active.Checkout()
	require.NoError(t, err)
	abandoned, err := active.Abandon()
	require.NoError(t, err)

	for name, cart := range map[string]Cart{"checked out": checkedOut, "abandoned": abandoned} {
		t.Run(name, func(t *testing.T) {
			_, err := cart.AddItem(mustProductID(t, "PROD-002"), "Cable", mustQuantity(t, 1), mustMoney(t, 1.00, EUR))
			assert.True(t, errors.Is(err, errors.CodeCartNotActive))

			_, err = cart.RemoveItem(mustProductID(t, "PROD-001"))
			assert.True(t, errors.Is(err, errors.CodeCartNotActive))

			_, err = cart.UpdateItemQuantity(mustProductID(t, "PROD-001"), mustQuantity(t, 2))
			assert.True(t, errors.Is(err, errors.CodeCartNotActive))

			_, err = cart.ClearItems()
			assert.True(t, errors.Is(err, errors.CodeCartNotActive))
		})
	}
}

func TestCartVersionIncrements(t *testing.T) {
	cart := newTestCart(t, EUR)
	require.Equal(t, int64(1), cart.Version())

	cart = addItem(t, cart, "PROD-001", "Wireless Mouse", 1, 29.99)
	assert.Equal(t, int64(2), cart.Version())

	cart = addItem(t, cart, "PROD-002", "USB-C Cable", 1, 15.50)
	assert.Equal(t, int64(3), cart.Version())

	done, err := cart.Checkout()
	require.NoError(t, err)
	assert.Equal(t, int64(4), done.Version())
}

func TestCartNoFloatDrift(t *testing.T) {
	cart := newTestCart(t, EUR)

	// 0.10 is not representable in binary floating point; summing a
	// hundred of them must still be exactly 10.00
	for i := 1; i <= 100; i++ {
		cart = addItem(t, cart, fmt.Sprintf("PROD-%03d", i), "Sticker", 1, 0.10)
	}

	assert.Equal(t, int64(1000), cart.Total().MinorUnits())
	assert.Equal(t, "10", cart.Total().Amount().String())
	assert.Equal(t, 100, cart.ItemCount())
}

func TestCartRoundTrip(t *testing.T) {
	cart := newTestCart(t, GBP)
	cart = addItemIn(t, cart, GBP, "PROD-001", "Wireless Mouse", 2, 29.99)
	cart = addItemIn(t, cart, GBP, "PROD-002", "USB-C Cable", 3, 15.50)

	dto := cart.ToDTO()

	// rebuild the aggregate from the projection's underlying fields
	cartID, err := ParseCartID(dto.CartID)
	require.NoError(t, err)
	currency, err := ParseCurrency(dto.Currency)
	require.NoError(t, err)
	createdAt, err := time.Parse(time.RFC3339, dto.CreatedAt)
	require.NoError(t, err)
	updatedAt, err := time.Parse(time.RFC3339, dto.UpdatedAt)
	require.NoError(t, err)

	items := make([]CartLineItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		productID, err := ParseProductID(it.ProductID)
		require.NoError(t, err)
		quantity, err := NewQuantity(it.Quantity)
		require.NoError(t, err)
		price, err := NewMoneyFromFloat(it.UnitPrice.Amount, currency)
		require.NoError(t, err)
		item, err := NewCartLineItem(productID, it.ProductName, quantity, price)
		require.NoError(t, err)
		items = append(items, item)
	}

	restored, err := RestoreCart(cartID, dto.UserID, items, CartStatus(dto.Status), currency, createdAt, updatedAt, dto.Version)
	require.NoError(t, err)

	if diff := cmp.Diff(dto, restored.ToDTO()); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, restored.Total().Equals(cart.Total()))
}

func TestRestoreCartRejectsInvalidState(t *testing.T) {
	valid := addItem(t, newTestCart(t, EUR), "PROD-001", "Wireless Mouse", 1, 29.99)
	now := time.Now().UTC()

	t.Run("unknown status", func(t *testing.T) {
		_, err := RestoreCart(valid.ID(), valid.UserID(), valid.Items(), "PENDING", EUR, now, now, 1)
		assert.True(t, errors.Is(err, errors.CodeInvalidCart))
	})

	t.Run("item currency differs from cart", func(t *testing.T) {
		item, err := NewCartLineItem(mustProductID(t, "PROD-002"), "Cable", mustQuantity(t, 1), mustMoney(t, 1.00, USD))
		require.NoError(t, err)
		_, err = RestoreCart(valid.ID(), valid.UserID(), []CartLineItem{item}, CartStatusActive, EUR, now, now, 1)
		assert.True(t, errors.Is(err, errors.CodeCurrencyMismatch))
	})

	t.Run("duplicate product", func(t *testing.T) {
		item := valid.Items()[0]
		_, err := RestoreCart(valid.ID(), valid.UserID(), []CartLineItem{item, item}, CartStatusActive, EUR, now, now, 1)
		assert.True(t, errors.Is(err, errors.CodeInvalidCart))
	})

	t.Run("non-positive version", func(t *testing.T) {
		_, err := RestoreCart(valid.ID(), valid.UserID(), valid.Items(), CartStatusActive, EUR, now, now, 0)
		assert.True(t, errors.Is(err, errors.CodeInvalidCart))
	})
}

func newTestCart(t *testing.T, currency Currency) Cart {
	t.Helper()
	cart, err := NewCart(gofakeit.Username(), currency)
	require.NoError(t, err)
	return cart
}

func addItem(t *testing.T, cart Cart, productID, name string, quantity int, price float64) Cart {
	t.Helper()
	return addItemIn(t, cart, EUR, productID, name, quantity, price)
}

func addItemIn(t *testing.T, cart Cart, currency Currency, productID, name string, quantity int, price float64) Cart {
	t.Helper()
	updated, err := cart.AddItem(
		mustProductID(t, productID),
		name,
		mustQuantity(t, quantity),
		mustMoney(t, price, currency),
	)
	require.NoError(t, err)
	return updated
}
