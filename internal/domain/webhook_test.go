package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookEndpoint_Subscribed(t *testing.T) {
	tests := []struct {
		name     string
		endpoint WebhookEndpoint
		event    string
		want     bool
	}{
		{
			name:     "listed event",
			endpoint: WebhookEndpoint{IsActive: true, Events: []string{EventWalletDebited, EventTicketScanned}},
			event:    EventTicketScanned,
			want:     true,
		},
		{
			name:     "unlisted event",
			endpoint: WebhookEndpoint{IsActive: true, Events: []string{EventWalletDebited}},
			event:    EventTicketScanned,
			want:     false,
		},
		{
			name:     "empty list means everything",
			endpoint: WebhookEndpoint{IsActive: true},
			event:    EventWalletFrozen,
			want:     true,
		},
		{
			name:     "inactive endpoint gets nothing",
			endpoint: WebhookEndpoint{IsActive: false},
			event:    EventWalletDebited,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.endpoint.Subscribed(tt.event))
		})
	}
}
