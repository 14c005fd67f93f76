package domain

import "time"

// Event types published by the platform.
const (
	EventWalletCredited  = "wallet.credited"
	EventWalletDebited   = "wallet.debited"
	EventWalletRefunded  = "wallet.refunded"
	EventWalletFrozen    = "wallet.frozen"
	EventWalletUnfrozen  = "wallet.unfrozen"
	EventTicketPurchased = "ticket.purchased"
	EventTicketScanned   = "ticket.scanned"
	EventTicketCancelled = "ticket.cancelled"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

type WebhookEndpoint struct {
	ID         uint      `json:"id"`
	FestivalID uint      `json:"festival_id"`
	URL        string    `json:"url"`
	Secret     string    `json:"secret,omitempty"`
	Events     []string  `json:"events"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Subscribed reports whether the endpoint wants the given event type.
// An empty subscription list means every event.
func (e *WebhookEndpoint) Subscribed(event string) bool {
	if !e.IsActive {
		return false
	}
	if len(e.Events) == 0 {
		return true
	}

	for _, ev := range e.Events {
		if ev == event {
			return true
		}
	}

	return false
}

type WebhookDelivery struct {
	ID         uint `json:"id"`
	EndpointID uint `json:"endpoint_id"`
	// DeliveryID is the public identifier sent in X-Festival-Delivery.
	DeliveryID     string         `json:"delivery_id"`
	Event          string         `json:"event"`
	Payload        []byte         `json:"-"`
	Status         DeliveryStatus `json:"status"`
	Attempts       int            `json:"attempts"`
	NextAttemptAt  time.Time      `json:"next_attempt_at"`
	LastError      string         `json:"last_error,omitempty"`
	ResponseStatus int            `json:"response_status,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
