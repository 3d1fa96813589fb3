package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-cart/internal/cart/domain"
	apperrors "go-cart/pkg/errors"
)

// CartModel is the GORM model for carts (persistence layer)
type CartModel struct {
	ID        string          `gorm:"primaryKey;size:36"`
	UserID    string          `gorm:"index;size:100;not null"`
	Status    string          `gorm:"size:20;not null"`
	Currency  string          `gorm:"size:3;not null"`
	Version   int64           `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
	Items     []CartItemModel `gorm:"foreignKey:CartID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is the GORM model for cart line items
type CartItemModel struct {
	CartID         string `gorm:"primaryKey;size:36"`
	ProductID      string `gorm:"primaryKey;size:50"`
	ProductName    string `gorm:"size:200;not null"`
	Quantity       int    `gorm:"not null"`
	UnitPriceMinor int64  `gorm:"not null"`
	Position       int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// PostgresCartRepository implements CartRepository using PostgreSQL.
// Updates carry an optimistic version check, matching the Redis
// adapter's compare-and-set semantics.
type PostgresCartRepository struct {
	db *gorm.DB
}

// NewPostgresCartRepository creates a new PostgreSQL cart repository
func NewPostgresCartRepository(db *gorm.DB) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

// Migrate runs auto-migration for the cart models
func (r *PostgresCartRepository) Migrate() error {
	return r.db.AutoMigrate(&CartModel{}, &CartItemModel{})
}

// FindByID retrieves a cart by its identifier
func (r *PostgresCartRepository) FindByID(ctx context.Context, id domain.CartID) (domain.Cart, error) {
	var model CartModel

	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&model, "id = ?", id.String())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return domain.Cart{}, domain.NewCartNotFound(id)
		}
		return domain.Cart{}, apperrors.NewInternal("failed to get cart", result.Error)
	}

	return modelToDomain(&model)
}

// Save persists a cart. New carts are inserted; existing rows are
// updated only when the stored version is older, otherwise CONFLICT.
func (r *PostgresCartRepository) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	model := domainToModel(cart)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing CartModel
		err := tx.Select("version").First(&existing, "id = ?", model.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(model).Error
		}
		if err != nil {
			return err
		}

		if existing.Version >= model.Version {
			return apperrors.NewConflict("cart was modified concurrently")
		}

		update := tx.Model(&CartModel{}).
			Where("id = ? AND version = ?", model.ID, existing.Version).
			Updates(map[string]interface{}{
				"user_id":    model.UserID,
				"status":     model.Status,
				"currency":   model.Currency,
				"version":    model.Version,
				"updated_at": model.UpdatedAt,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return apperrors.NewConflict("cart was modified concurrently")
		}

		if err := tx.Where("cart_id = ?", model.ID).Delete(&CartItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return domain.Cart{}, err
		}
		return domain.Cart{}, apperrors.NewInternal("failed to save cart", err)
	}

	return cart, nil
}

// Delete removes a cart and its items
func (r *PostgresCartRepository) Delete(ctx context.Context, id domain.CartID) error {
	result := r.db.WithContext(ctx).Delete(&CartModel{}, "id = ?", id.String())
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete cart", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewCartNotFound(id)
	}
	return nil
}

// Exists reports whether a cart row is present
func (r *PostgresCartRepository) Exists(ctx context.Context, id domain.CartID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&CartModel{}).Where("id = ?", id.String()).Count(&count)
	if result.Error != nil {
		return false, apperrors.NewInternal("failed to check cart existence", result.Error)
	}
	return count > 0, nil
}

// FindActiveByUserID retrieves all ACTIVE carts for a user
func (r *PostgresCartRepository) FindActiveByUserID(ctx context.Context, userID string) ([]domain.Cart, error) {
	var models []CartModel

	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ? AND status = ?", userID, string(domain.CartStatusActive)).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to get carts by user", result.Error)
	}

	carts := make([]domain.Cart, 0, len(models))
	for i := range models {
		cart, err := modelToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}

	return carts, nil
}

// domainToModel converts a domain cart to GORM models
func domainToModel(cart domain.Cart) *CartModel {
	items := cart.Items()
	itemModels := make([]CartItemModel, 0, len(items))
	for i, item := range items {
		itemModels = append(itemModels, CartItemModel{
			CartID:         cart.ID().String(),
			ProductID:      item.ProductID().String(),
			ProductName:    item.ProductName(),
			Quantity:       item.Quantity().Value(),
			UnitPriceMinor: item.UnitPrice().MinorUnits(),
			Position:       i,
		})
	}
	return &CartModel{
		ID:        cart.ID().String(),
		UserID:    cart.UserID(),
		Status:    string(cart.Status()),
		Currency:  string(cart.Currency()),
		Version:   cart.Version(),
		CreatedAt: cart.CreatedAt(),
		UpdatedAt: cart.UpdatedAt(),
		Items:     itemModels,
	}
}

// modelToDomain rebuilds the aggregate through its restoring constructor
func modelToDomain(model *CartModel) (domain.Cart, error) {
	cartID, err := domain.ParseCartID(model.ID)
	if err != nil {
		return domain.Cart{}, err
	}

	currency, err := domain.ParseCurrency(model.Currency)
	if err != nil {
		return domain.Cart{}, err
	}

	items := make([]domain.CartLineItem, 0, len(model.Items))
	for _, rec := range model.Items {
		productID, err := domain.ParseProductID(rec.ProductID)
		if err != nil {
			return domain.Cart{}, err
		}
		quantity, err := domain.NewQuantity(rec.Quantity)
		if err != nil {
			return domain.Cart{}, err
		}
		price, err := domain.NewMoneyFromMinorUnits(rec.UnitPriceMinor, currency)
		if err != nil {
			return domain.Cart{}, err
		}
		item, err := domain.NewCartLineItem(productID, rec.ProductName, quantity, price)
		if err != nil {
			return domain.Cart{}, err
		}
		items = append(items, item)
	}

	return domain.RestoreCart(
		cartID,
		model.UserID,
		items,
		domain.CartStatus(model.Status),
		currency,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
}
