package infrastructure

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-cart/internal/cart/application"
	"go-cart/internal/cart/domain"
	"go-cart/pkg/errors"
	"go-cart/pkg/middleware"
)

// HTTPHandler handles HTTP requests for carts
type HTTPHandler struct {
	useCase *application.CartUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.CartUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the cart routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	carts := r.Group("/carts")
	{
		carts.POST("", h.CreateCart)
		carts.GET("/:id", h.GetCart)
		carts.POST("/:id/items", h.AddItem)
		carts.PATCH("/:id/items/:productId", h.UpdateItemQuantity)
		carts.DELETE("/:id/items/:productId", h.RemoveItem)
		carts.DELETE("/:id/items", h.ClearCart)
		carts.POST("/:id/checkout", h.Checkout)
		carts.POST("/:id/abandon", h.AbandonCart)
	}
	r.GET("/users/:userId/carts", h.ListUserCarts)
}

// CreateCartRequest is the request body for creating a cart
type CreateCartRequest struct {
	Currency string `json:"currency"`
}

// AddItemRequest is the request body for adding an item. Price and
// name are deliberately absent: the catalog is the authority.
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemQuantityRequest is the request body for replacing an item quantity
type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CreateCart handles POST /carts
func (h *HTTPHandler) CreateCart(c *gin.Context) {
	var req CreateCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidation("invalid request body", err.Error()))
			return
		}
	}

	output, err := h.useCase.CreateCart(c.Request.Context(), application.CreateCartInput{
		UserID:   c.GetString(middleware.UserIDKey),
		Currency: req.Currency,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, http.StatusCreated, output.Cart)
}

// GetCart handles GET /carts/:id
func (h *HTTPHandler) GetCart(c *gin.Context) {
	output, err := h.useCase.GetCart(c.Request.Context(), application.GetCartInput{
		CartID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, http.StatusOK, output.Cart)
}

// AddItem handles POST /carts/:id/items
func (h *HTTPHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.AddItem(c.Request.Context(), application.AddItemInput{
		CartID:    c.Param("id"),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, http.StatusOK, output.Cart)
}

// UpdateItemQuantity handles PATCH /carts/:id/items/:productId
func (h *HTTPHandler) UpdateItemQuantity(c *gin.Context) {
	var req UpdateItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.UpdateItemQuantity(c.Request.Context(), application.UpdateItemQuantityInput{
		CartID:    c.Param("id"),
		ProductID: c.Param("productId"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, http.StatusOK, output.Cart)
}

// RemoveItem handles DELETE /carts/:id/items/:productId
func (h *HTTPHandler) RemoveItem(c *gin.Context) {
	output, err := h.useCase.RemoveItem(c.Request.Context(), application.RemoveItemInput{
		CartID:    c.Param("id"),
		ProductID: c.Param("productId"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, http.StatusOK, output.Cart)
}

// ClearCart handles DELETE /carts/:id/items
func (h *HTTPHandler) ClearCart(c *gin.Context) {
	output, err := h.useCase.ClearCart(c.Request.Context(), application.ClearCartInput{
		CartID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, http.StatusOK, output.Cart)
}

// Checkout handles POST /carts/:id/checkout
func (h *HTTPHandler) Checkout(c *gin.Context) {
	output, err := h.useCase.Checkout(c.Request.Context(), application.CheckoutInput{
		CartID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, http.StatusOK, output.Cart)
}

// AbandonCart handles POST /carts/:id/abandon
func (h *HTTPHandler) AbandonCart(c *gin.Context) {
	output, err := h.useCase.AbandonCart(c.Request.Context(), application.AbandonCartInput{
		CartID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, http.StatusOK, output.Cart)
}

// ListUserCarts handles GET /users/:userId/carts
func (h *HTTPHandler) ListUserCarts(c *gin.Context) {
	userID := c.Param("userId")
	if userID != c.GetString(middleware.UserIDKey) {
		c.Error(errors.New(errors.CodeForbidden, "cannot list another user's carts", nil))
		return
	}

	output, err := h.useCase.ListUserCarts(c.Request.Context(), application.ListUserCartsInput{
		UserID: userID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]domain.CartDTO, 0, len(output.Carts))
	for _, cart := range output.Carts {
		dtos = append(dtos, cart.ToDTO())
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     dtos,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func (h *HTTPHandler) respond(c *gin.Context, status int, cart domain.Cart) {
	c.JSON(status, gin.H{
		"data":     cart.ToDTO(),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}
