package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type TopUpRequest struct {
	Amount          int64  `json:"amount"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (req *TopUpRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.PaymentMethodID, validation.Required),
	)
}

type CreditRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

func (req *CreditRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(int64(1))),
	)
}

// DebitRequest is a POS purchase. Either a product with a quantity or
// a free-form amount must be given.
type DebitRequest struct {
	StandID   uint   `json:"stand_id"`
	ProductID *uint  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Amount    int64  `json:"amount"`
	PIN       string `json:"pin"`
}

func (req *DebitRequest) Validate() error {
	rules := []*validation.FieldRules{
		validation.Field(&req.StandID, validation.Required),
		validation.Field(&req.Quantity, validation.Min(0)),
	}
	if req.ProductID == nil {
		rules = append(rules, validation.Field(&req.Amount, validation.Required, validation.Min(int64(1))))
	}

	return validation.ValidateStruct(req, rules...)
}

type RefundRequest struct {
	TransactionID uint   `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Note          string `json:"note"`
}

func (req *RefundRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TransactionID, validation.Required),
		validation.Field(&req.Amount, validation.Required, validation.Min(int64(1))),
	)
}
