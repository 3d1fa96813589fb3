package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go-cart/internal/cart/domain"
	"go-cart/internal/cart/ports"
	apperrors "go-cart/pkg/errors"
)

// productResponse is the catalog service's wire format for a product
type productResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency"`
	IsActive  bool    `json:"is_active"`
}

// HTTPCatalogClient implements CatalogClient against the catalog
// service's REST API. Prices and names always come from here; clients
// of the cart API only ever send product IDs.
type HTTPCatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCatalogClient creates a new catalog HTTP client
func NewHTTPCatalogClient(baseURL string, timeout time.Duration) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetProduct retrieves a product by ID
func (c *HTTPCatalogClient) GetProduct(ctx context.Context, id domain.ProductID) (*ports.ProductInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, url.PathEscape(id.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewInternal("failed to build catalog request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewInternal("catalog request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.NewProductNotFound(id)
	default:
		return nil, apperrors.NewInternal(
			fmt.Sprintf("catalog returned status %d", resp.StatusCode), nil)
	}

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.NewInternal("failed to decode catalog response", err)
	}

	return toProductInfo(body)
}

func toProductInfo(body productResponse) (*ports.ProductInfo, error) {
	productID, err := domain.ParseProductID(body.ProductID)
	if err != nil {
		return nil, err
	}
	currency, err := domain.ParseCurrency(body.Currency)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewMoneyFromFloat(body.UnitPrice, currency)
	if err != nil {
		return nil, err
	}

	return &ports.ProductInfo{
		ID:       productID,
		Name:     body.Name,
		Price:    price,
		IsActive: body.IsActive,
	}, nil
}

// InMemoryCatalog implements CatalogClient with a fixed product set,
// used when no catalog service is configured and in tests
type InMemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]ports.ProductInfo
}

// NewInMemoryCatalog creates an empty in-memory catalog
func NewInMemoryCatalog() *InMemoryCatalog {
	return &InMemoryCatalog{products: make(map[string]ports.ProductInfo)}
}

// Put adds or replaces a product
func (c *InMemoryCatalog) Put(product ports.ProductInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID.String()] = product
}

// GetProduct retrieves a product by ID
func (c *InMemoryCatalog) GetProduct(ctx context.Context, id domain.ProductID) (*ports.ProductInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	product, ok := c.products[id.String()]
	if !ok {
		return nil, domain.NewProductNotFound(id)
	}
	return &product, nil
}
