package application

import (
	"context"

	"go.uber.org/zap"

	"go-cart/internal/cart/domain"
	"go-cart/internal/cart/ports"
	"go-cart/pkg/errors"
	"go-cart/pkg/logger"
)

// CartUseCase handles cart business logic. The domain model is pure;
// this layer orchestrates it against the repository, the catalog and
// the event publisher, and is the only place domain failures are
// mapped onward.
type CartUseCase struct {
	repo      ports.CartRepository
	catalog   ports.CatalogClient
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewCartUseCase creates a new cart use case
func NewCartUseCase(
	repo ports.CartRepository,
	catalog ports.CatalogClient,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *CartUseCase {
	return &CartUseCase{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		log:       log,
	}
}

// CreateCartInput represents the input for creating a cart
type CreateCartInput struct {
	UserID   string
	Currency string
}

// CartOutput wraps a cart returned by a use case
type CartOutput struct {
	Cart domain.Cart
}

// CreateCart creates a new empty cart for a user
func (uc *CartUseCase) CreateCart(ctx context.Context, input CreateCartInput) (*CartOutput, error) {
	cart, err := domain.NewCart(input.UserID, domain.Currency(input.Currency))
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, cart)
	if err != nil {
		return nil, errors.Wrap(err, "failed to save cart")
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishCartCreated(ctx, saved); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish cart created event",
				zap.Error(err),
				zap.String("cart_id", saved.ID().String()),
			)
		}
	}

	uc.log.WithContext(ctx).Info("cart created",
		zap.String("cart_id", saved.ID().String()),
		zap.String("user_id", saved.UserID()),
		zap.String("currency", string(saved.Currency())),
	)

	return &CartOutput{Cart: saved}, nil
}

// GetCartInput represents the input for fetching a cart
type GetCartInput struct {
	CartID string
}

// GetCart retrieves a cart by ID
func (uc *CartUseCase) GetCart(ctx context.Context, input GetCartInput) (*CartOutput, error) {
	cartID, err := domain.ParseCartID(input.CartID)
	if err != nil {
		return nil, err
	}

	cart, err := uc.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return &CartOutput{Cart: cart}, nil
}

// AddItemInput represents the input for adding a product to a cart.
// Only the product ID and quantity come from the client; name and
// price are resolved through the catalog so they cannot be tampered
// with.
type AddItemInput struct {
	CartID    string
	ProductID string
	Quantity  int
}

// AddItem adds a product to a cart, merging quantities when the
// product is already present
func (uc *CartUseCase) AddItem(ctx context.Context, input AddItemInput) (*CartOutput, error) {
	cartID, err := domain.ParseCartID(input.CartID)
	if err != nil {
		return nil, err
	}
	productID, err := domain.ParseProductID(input.ProductID)
	if err != nil {
		return nil, err
	}
	quantity, err := domain.NewQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	product, err := uc.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.NewProductNotActive(productID)
	}

	cart, err := uc.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	updated, err := cart.AddItem(product.ID, product.Name, quantity, product.Price)
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, updated)
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("item added to cart",
		zap.String("cart_id", saved.ID().String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity.Value()),
	)

	return &CartOutput{Cart: saved}, nil
}

// UpdateItemQuantityInput represents the input for replacing an item quantity
type UpdateItemQuantityInput struct {
	CartID    string
	ProductID string
	Quantity  int
}

// UpdateItemQuantity replaces an item's quantity wholesale
func (uc *CartUseCase) UpdateItemQuantity(ctx context.Context, input UpdateItemQuantityInput) (*CartOutput, error) {
	cartID, err := domain.ParseCartID(input.CartID)
	if err != nil {
		return nil, err
	}
	productID, err := domain.ParseProductID(input.ProductID)
	if err != nil {
		return nil, err
	}
	quantity, err := domain.NewQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	cart, err := uc.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	updated, err := cart.UpdateItemQuantity(productID, quantity)
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, updated)
	if err != nil {
		return nil, err
	}

	return &CartOutput{Cart: saved}, nil
}

// RemoveItemInput represents the input for removing an item
type RemoveItemInput struct {
	CartID    string
	ProductID string
}

// RemoveItem deletes a line item from a cart
func (uc *CartUseCase) RemoveItem(ctx context.Context, input RemoveItemInput) (*CartOutput, error) {
	cartID, err := domain.ParseCartID(input.CartID)
	if err != nil {
		return nil, err
	}
	productID, err := domain.ParseProductID(input.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := uc.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	updated, err := cart.RemoveItem(productID)
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, updated)
	if err != nil {
		return nil, err
	}

	return &CartOutput{Cart: saved}, nil
}

// ClearCartInput represents the input for emptying a cart
type ClearCartInput struct {
	CartID string
}

// ClearCart removes all items from a cart
func (uc *CartUseCase) ClearCart(ctx context.Context, input ClearCartInput) (*CartOutput, error) {
	cartID, err := domain.ParseCartID(input.CartID)
	if err != nil {
		return nil, err
	}

	cart, err := uc.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	updated, err := cart.ClearItems()
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, updated)
	if err != nil {
		return nil, err
	}

	return &CartOutput{Cart: saved}, nil
}

// CheckoutInput represents the input for checking out a cart
type CheckoutInput struct {
	CartID string
}

// Checkout transitions a non-empty ACTIVE cart to CHECKED_OUT
func (uc *CartUseCase) Checkout(ctx context.Context, input CheckoutInput) (*CartOutput, error) {
	cartID, err := domain.ParseCartID(input.CartID)
	if err != nil {
		return nil, err
	}

	cart, err := uc.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	updated, err := cart.Checkout()
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, updated)
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishCartCheckedOut(ctx, saved); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish cart checked out event",
				zap.Error(err),
				zap.String("cart_id", saved.ID().String()),
			)
		}
	}

	uc.log.WithContext(ctx).Info("cart checked out",
		zap.String("cart_id", saved.ID().String()),
		zap.Float64("total", saved.Total().ToDTO().Amount),
		zap.Int("item_count", saved.ItemCount()),
	)

	return &CartOutput{Cart: saved}, nil
}

// AbandonCartInput represents the input for abandoning a cart
type AbandonCartInput struct {
	CartID string
}

// AbandonCart transitions an ACTIVE cart to ABANDONED
func (uc *CartUseCase) AbandonCart(ctx context.Context, input AbandonCartInput) (*CartOutput, error) {
	cartID, err := domain.ParseCartID(input.CartID)
	if err != nil {
		return nil, err
	}

	cart, err := uc.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	updated, err := cart.Abandon()
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, updated)
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishCartAbandoned(ctx, saved); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish cart abandoned event",
				zap.Error(err),
				zap.String("cart_id", saved.ID().String()),
			)
		}
	}

	return &CartOutput{Cart: saved}, nil
}

// ListUserCartsInput represents the input for listing a user's carts
type ListUserCartsInput struct {
	UserID string
}

// ListUserCartsOutput wraps the carts returned for a user
type ListUserCartsOutput struct {
	Carts []domain.Cart
}

// ListUserCarts retrieves all ACTIVE carts owned by a user
func (uc *CartUseCase) ListUserCarts(ctx context.Context, input ListUserCartsInput) (*ListUserCartsOutput, error) {
	carts, err := uc.repo.FindActiveByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &ListUserCartsOutput{Carts: carts}, nil
}
