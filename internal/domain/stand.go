package domain

import "time"

type StandCategory string

const (
	StandBar         StandCategory = "BAR"
	StandFood        StandCategory = "FOOD"
	StandMerchandise StandCategory = "MERCHANDISE"
	StandTickets     StandCategory = "TICKETS"
	StandTopUp       StandCategory = "TOP_UP"
	StandOther       StandCategory = "OTHER"
)

type StandStatus string

const (
	StandActive   StandStatus = "ACTIVE"
	StandInactive StandStatus = "INACTIVE"
	StandClosed   StandStatus = "CLOSED"
)

type StaffRole string

const (
	StaffManager   StaffRole = "MANAGER"
	StaffCashier   StaffRole = "CASHIER"
	StaffAssistant StaffRole = "ASSISTANT"
)

type StandSettings struct {
	AcceptsOnlyTokens bool   `json:"accepts_only_tokens"`
	RequiresPIN       bool   `json:"requires_pin"`
	PrintReceipts     bool   `json:"print_receipts"`
	Color             string `json:"color"`
}

type Stand struct {
	ID          uint          `json:"id"`
	FestivalID  uint          `json:"festival_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    StandCategory `json:"category"`
	Location    string        `json:"location"`
	ImageURL    string        `json:"image_url"`
	Status      StandStatus   `json:"status"`
	Settings    StandSettings `json:"settings"`
	Products    []Product     `json:"products,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// StandUpdate carries the partial-update fields; nil fields are
// left untouched.
type StandUpdate struct {
	Name              *string
	Description       *string
	Category          *StandCategory
	Location          *string
	ImageURL          *string
	Status            *StandStatus
	AcceptsOnlyTokens *bool
	RequiresPIN       *bool
	PrintReceipts     *bool
	Color             *string
}

type StandStaff struct {
	ID        uint      `json:"id"`
	StandID   uint      `json:"stand_id"`
	UserID    uint      `json:"user_id"`
	Role      StaffRole `json:"role"`
	PINHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
