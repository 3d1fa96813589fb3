package adapters

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cart/internal/cart/domain"
	"go-cart/internal/cart/ports"
	apperrors "go-cart/pkg/errors"
)

func buildCart(t *testing.T) domain.Cart {
	t.Helper()

	cart, err := domain.NewCart("user-1", domain.EUR)
	require.NoError(t, err)

	for _, p := range []struct {
		id    string
		name  string
		qty   int
		price float64
	}{
		{"PROD-001", "Wireless Mouse", 2, 29.99},
		{"PROD-002", "USB-C Cable", 1, 15.50},
	} {
		productID, err := domain.ParseProductID(p.id)
		require.NoError(t, err)
		quantity, err := domain.NewQuantity(p.qty)
		require.NoError(t, err)
		price, err := domain.NewMoneyFromFloat(p.price, domain.EUR)
		require.NoError(t, err)

		cart, err = cart.AddItem(productID, p.name, quantity, price)
		require.NoError(t, err)
	}

	return cart
}

func TestCartRecordRoundTrip(t *testing.T) {
	cart := buildCart(t)

	record := toCartRecord(cart)
	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded cartRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := toDomainCart(decoded)
	require.NoError(t, err)

	if diff := cmp.Diff(cart.ToDTO(), restored.ToDTO()); diff != "" {
		t.Errorf("record round-trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, cart.Version(), restored.Version())
}

func TestCartRecordRejectsCorruptedState(t *testing.T) {
	record := toCartRecord(buildCart(t))
	record.Status = "BROKEN"

	_, err := toDomainCart(record)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidCart))
}

func TestCartModelRoundTrip(t *testing.T) {
	cart := buildCart(t)

	restored, err := modelToDomain(domainToModel(cart))
	require.NoError(t, err)

	if diff := cmp.Diff(cart.ToDTO(), restored.ToDTO()); diff != "" {
		t.Errorf("model round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCartModelPreservesItemOrder(t *testing.T) {
	model := domainToModel(buildCart(t))

	require.Len(t, model.Items, 2)
	assert.Equal(t, 0, model.Items[0].Position)
	assert.Equal(t, "PROD-001", model.Items[0].ProductID)
	assert.Equal(t, 1, model.Items[1].Position)
	assert.Equal(t, "PROD-002", model.Items[1].ProductID)
}

func TestInMemoryCatalog(t *testing.T) {
	catalog := NewInMemoryCatalog()

	productID, err := domain.ParseProductID("PROD-001")
	require.NoError(t, err)
	price, err := domain.NewMoneyFromFloat(29.99, domain.EUR)
	require.NoError(t, err)

	catalog.Put(ports.ProductInfo{ID: productID, Name: "Wireless Mouse", Price: price, IsActive: true})

	product, err := catalog.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse", product.Name)
	assert.Equal(t, int64(2999), product.Price.MinorUnits())

	missing, err := domain.ParseProductID("PROD-404")
	require.NoError(t, err)
	_, err = catalog.GetProduct(context.Background(), missing)
	assert.True(t, apperrors.Is(err, apperrors.CodeProductNotFound))
}
