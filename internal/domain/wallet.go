package domain

import "time"

type WalletStatus string

const (
	WalletActive WalletStatus = "ACTIVE"
	WalletFrozen WalletStatus = "FROZEN"
)

type WalletTransactionType string

const (
	WalletCredit WalletTransactionType = "CREDIT"
	WalletDebit  WalletTransactionType = "DEBIT"
	WalletRefund WalletTransactionType = "REFUND"
)

type Wallet struct {
	ID         uint `json:"id"`
	UserID     uint `json:"user_id"`
	FestivalID uint `json:"festival_id"`
	// Balance is expressed in token units and never goes negative.
	Balance   int64        `json:"balance"`
	Status    WalletStatus `json:"status"`
	QRCode    string       `json:"qr_code"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (w *Wallet) CanDebit(amount int64) bool {
	return w.Status == WalletActive && w.Balance >= amount
}

type WalletTransaction struct {
	ID       uint                  `json:"id"`
	WalletID uint                  `json:"wallet_id"`
	Type     WalletTransactionType `json:"type"`
	Amount   int64                 `json:"amount"`
	StandID  *uint                 `json:"stand_id,omitempty"`
	// PerformedBy is the staff user who ran the POS transaction, if any.
	PerformedBy *uint `json:"performed_by,omitempty"`
	// Reference links a REFUND to the DEBIT it reverses, or a CREDIT
	// to its payment provider reference.
	Reference string    `json:"reference,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
