package domain

import "time"

type TicketStatus string

const (
	TicketValid     TicketStatus = "VALID"
	TicketUsed      TicketStatus = "USED"
	TicketCancelled TicketStatus = "CANCELLED"
)

type TicketType struct {
	ID           uint      `json:"id"`
	FestivalID   uint      `json:"festival_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Quota        int       `json:"quota"`
	Sold         int       `json:"sold"`
	SaleStartsAt time.Time `json:"sale_starts_at"`
	SaleEndsAt   time.Time `json:"sale_ends_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Ticket struct {
	ID           uint         `json:"id"`
	TicketTypeID uint         `json:"ticket_type_id"`
	FestivalID   uint         `json:"festival_id"`
	UserID       uint         `json:"user_id"`
	Code         string       `json:"code"`
	Status       TicketStatus `json:"status"`
	ScannedAt    *time.Time   `json:"scanned_at,omitempty"`
	ScannedBy    *uint        `json:"scanned_by,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Scan marks the ticket used. It only succeeds once, on a VALID ticket.
func (t *Ticket) Scan(by uint, at time.Time) bool {
	if t.Status != TicketValid {
		return false
	}

	t.Status = TicketUsed
	t.ScannedAt = &at
	t.ScannedBy = &by

	return true
}

func (t *Ticket) Cancel() bool {
	if t.Status != TicketValid {
		return false
	}

	t.Status = TicketCancelled

	return true
}
