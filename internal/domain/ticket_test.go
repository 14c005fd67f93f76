package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicket_Scan(t *testing.T) {
	at := time.Date(2026, 7, 11, 12, 0, 0, 0, time.UTC)

	ticket := Ticket{Status: TicketValid}
	require.True(t, ticket.Scan(9, at))
	assert.Equal(t, TicketUsed, ticket.Status)
	require.NotNil(t, ticket.ScannedAt)
	assert.Equal(t, at, *ticket.ScannedAt)
	require.NotNil(t, ticket.ScannedBy)
	assert.Equal(t, uint(9), *ticket.ScannedBy)

	assert.False(t, ticket.Scan(9, at), "a used ticket cannot be scanned again")

	cancelled := Ticket{Status: TicketCancelled}
	assert.False(t, cancelled.Scan(9, at))
}

func TestTicket_Cancel(t *testing.T) {
	ticket := Ticket{Status: TicketValid}
	assert.True(t, ticket.Cancel())
	assert.Equal(t, TicketCancelled, ticket.Status)

	used := Ticket{Status: TicketUsed}
	assert.False(t, used.Cancel(), "used tickets stay used")
}
