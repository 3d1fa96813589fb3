package ports

import (
	"context"

	"go-cart/internal/cart/domain"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID retrieves a cart by its identifier
	FindByID(ctx context.Context, id domain.CartID) (domain.Cart, error)

	// Save persists a cart. Implementations compare the stored version
	// against the previous one and fail with CONFLICT when a
	// concurrent writer got there first.
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)

	// Delete removes a cart by its identifier
	Delete(ctx context.Context, id domain.CartID) error

	// Exists reports whether a cart is stored
	Exists(ctx context.Context, id domain.CartID) (bool, error)

	// FindActiveByUserID retrieves all ACTIVE carts for a user
	FindActiveByUserID(ctx context.Context, userID string) ([]domain.Cart, error)
}

// ProductInfo is the authoritative catalog view of a product. Price
// and name always come from here, never from client input.
type ProductInfo struct {
	ID       domain.ProductID
	Name     string
	Price    domain.Money
	IsActive bool
}

// CatalogClient defines the interface for the product catalog service
type CatalogClient interface {
	// GetProduct retrieves a product by ID
	GetProduct(ctx context.Context, id domain.ProductID) (*ProductInfo, error)
}

// EventPublisher defines the interface for publishing cart lifecycle events
type EventPublisher interface {
	// PublishCartCreated publishes a cart created event
	PublishCartCreated(ctx context.Context, cart domain.Cart) error

	// PublishCartCheckedOut publishes a cart checked out event
	PublishCartCheckedOut(ctx context.Context, cart domain.Cart) error

	// PublishCartAbandoned publishes a cart abandoned event
	PublishCartAbandoned(ctx context.Context, cart domain.Cart) error
}
