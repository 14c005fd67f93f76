package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/festivapp/festival-api/internal/domain"
)

type CreateTicketTypeRequest struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Quota        int       `json:"quota"`
	SaleStartsAt time.Time `json:"sale_starts_at"`
	SaleEndsAt   time.Time `json:"sale_ends_at"`
}

func (req *CreateTicketTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Price, validation.Min(int64(0))),
		validation.Field(&req.Quota, validation.Min(0)),
		validation.Field(&req.SaleStartsAt, validation.Required),
		validation.Field(&req.SaleEndsAt, validation.Required, validation.Min(req.SaleStartsAt)),
	)
}

func (req *CreateTicketTypeRequest) ToDomain(festivalID uint) domain.TicketType {
	return domain.TicketType{
		FestivalID:   festivalID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Quota:        req.Quota,
		SaleStartsAt: req.SaleStartsAt,
		SaleEndsAt:   req.SaleEndsAt,
	}
}

type PurchaseTicketRequest struct {
	TicketTypeID    uint   `json:"ticket_type_id"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (req *PurchaseTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketTypeID, validation.Required),
	)
}

type ScanTicketRequest struct {
	Code string `json:"code"`
}

func (req *ScanTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required),
	)
}
