package events

import "time"

// Exchange names
const (
	ExchangeCarts = "carts.events"
)

// Routing keys
const (
	RoutingKeyCartCreated    = "cart.created"
	RoutingKeyCartCheckedOut = "cart.checked_out"
	RoutingKeyCartAbandoned  = "cart.abandoned"
)

// CartEvent is the envelope for all cart lifecycle events
type CartEvent struct {
	Version   string      `json:"version"`
	EventType string      `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id"`
	Payload   CartPayload `json:"payload"`
}

// CartPayload contains the cart snapshot carried by an event
type CartPayload struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Currency  string    `json:"currency"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"item_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCartEvent creates an event envelope for a cart snapshot
func NewCartEvent(eventType, traceID string, payload CartPayload) *CartEvent {
	return &CartEvent{
		Version:   "1.0",
		EventType: eventType,
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload:   payload,
	}
}
