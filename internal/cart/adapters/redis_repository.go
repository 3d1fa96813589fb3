package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"go-cart/internal/cart/domain"
	apperrors "go-cart/pkg/errors"
)

const (
	cartKeyPrefix     = "cart:"
	userCartKeyPrefix = "cart:user:"

	// saveRetries bounds WATCH retries on contended keys
	saveRetries = 3
)

// cartRecord is the JSON document stored per cart. Prices are kept in
// minor units; the decimal representation is rebuilt on load.
type cartRecord struct {
	CartID    string       `json:"cart_id"`
	UserID    string       `json:"user_id"`
	Status    string       `json:"status"`
	Currency  string       `json:"currency"`
	Items     []itemRecord `json:"items"`
	Version   int64        `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type itemRecord struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

// RedisCartRepository implements CartRepository on a Redis key-value
// store. Each cart lives under cart:{id}; a per-user set indexes the
// carts for FindActiveByUserID. Save is a WATCH-guarded compare-and-set
// on the aggregate version, so a lost race surfaces as CONFLICT
// instead of silently dropping the other writer's items.
type RedisCartRepository struct {
	rdb *redis.Client
}

// NewRedisCartRepository creates a new Redis cart repository
func NewRedisCartRepository(rdb *redis.Client) *RedisCartRepository {
	return &RedisCartRepository{rdb: rdb}
}

// FindByID retrieves a cart by its identifier
func (r *RedisCartRepository) FindByID(ctx context.Context, id domain.CartID) (domain.Cart, error) {
	data, err := r.rdb.Get(ctx, cartKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, domain.NewCartNotFound(id)
	}
	if err != nil {
		return domain.Cart{}, apperrors.NewInternal("failed to load cart", err)
	}

	var record cartRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.Cart{}, apperrors.NewInternal("failed to decode cart record", err)
	}

	return toDomainCart(record)
}

// Save persists a cart, failing with CONFLICT when the stored version
// is not older than the one being written
func (r *RedisCartRepository) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	record := toCartRecord(cart)
	data, err := json.Marshal(record)
	if err != nil {
		return domain.Cart{}, apperrors.NewInternal("failed to encode cart record", err)
	}

	key := cartKey(record.CartID)
	userKey := userCartKey(record.UserID)

	txf := func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var existing cartRecord
			if err := json.Unmarshal(stored, &existing); err != nil {
				return apperrors.NewInternal("failed to decode stored cart record", err)
			}
			if existing.Version >= record.Version {
				return apperrors.NewConflict("cart was modified concurrently")
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if record.Status == string(domain.CartStatusActive) {
				pipe.SAdd(ctx, userKey, record.CartID)
			} else {
				pipe.SRem(ctx, userKey, record.CartID)
			}
			return nil
		})
		return err
	}

	for i := 0; i < saveRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return domain.Cart{}, err
			}
			return domain.Cart{}, apperrors.NewInternal("failed to save cart", err)
		}
		return cart, nil
	}

	return domain.Cart{}, apperrors.NewConflict("cart was modified concurrently")
}

// Delete removes a cart and its user-index entry
func (r *RedisCartRepository) Delete(ctx context.Context, id domain.CartID) error {
	data, err := r.rdb.Get(ctx, cartKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewCartNotFound(id)
	}
	if err != nil {
		return apperrors.NewInternal("failed to load cart", err)
	}

	var record cartRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return apperrors.NewInternal("failed to decode cart record", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, cartKey(id.String()))
		pipe.SRem(ctx, userCartKey(record.UserID), id.String())
		return nil
	})
	if err != nil {
		return apperrors.NewInternal("failed to delete cart", err)
	}
	return nil
}

// Exists reports whether a cart is stored
func (r *RedisCartRepository) Exists(ctx context.Context, id domain.CartID) (bool, error) {
	n, err := r.rdb.Exists(ctx, cartKey(id.String())).Result()
	if err != nil {
		return false, apperrors.NewInternal("failed to check cart existence", err)
	}
	return n > 0, nil
}

// FindActiveByUserID retrieves all ACTIVE carts for a user
func (r *RedisCartRepository) FindActiveByUserID(ctx context.Context, userID string) ([]domain.Cart, error) {
	ids, err := r.rdb.SMembers(ctx, userCartKey(userID)).Result()
	if err != nil {
		return nil, apperrors.NewInternal("failed to list user carts", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cartKey(id)
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.NewInternal("failed to load user carts", err)
	}

	carts := make([]domain.Cart, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// index entry without a record, skip
			continue
		}
		var record cartRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, apperrors.NewInternal("failed to decode cart record", err)
		}
		if record.Status != string(domain.CartStatusActive) {
			continue
		}
		cart, err := toDomainCart(record)
		if err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}

	return carts, nil
}

func cartKey(id string) string {
	return cartKeyPrefix + id
}

func userCartKey(userID string) string {
	return userCartKeyPrefix + userID
}

// toCartRecord converts a domain cart to its storage document
func toCartRecord(cart domain.Cart) cartRecord {
	items := cart.Items()
	records := make([]itemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, itemRecord{
			ProductID:      item.ProductID().String(),
			ProductName:    item.ProductName(),
			Quantity:       item.Quantity().Value(),
			UnitPriceMinor: item.UnitPrice().MinorUnits(),
		})
	}
	return cartRecord{
		CartID:    cart.ID().String(),
		UserID:    cart.UserID(),
		Status:    string(cart.Status()),
		Currency:  string(cart.Currency()),
		Items:     records,
		Version:   cart.Version(),
		CreatedAt: cart.CreatedAt(),
		UpdatedAt: cart.UpdatedAt(),
	}
}

// toDomainCart rebuilds the aggregate through its restoring
// constructor so every invariant is re-checked on the way out of
// storage
func toDomainCart(record cartRecord) (domain.Cart, error) {
	cartID, err := domain.ParseCartID(record.CartID)
	if err != nil {
		return domain.Cart{}, err
	}

	currency, err := domain.ParseCurrency(record.Currency)
	if err != nil {
		return domain.Cart{}, err
	}

	items := make([]domain.CartLineItem, 0, len(record.Items))
	for _, rec := range record.Items {
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
		record.UserID,
		items,
		domain.CartStatus(record.Status),
		currency,
		record.CreatedAt,
		record.UpdatedAt,
		record.Version,
	)
}
