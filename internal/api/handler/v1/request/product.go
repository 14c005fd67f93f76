package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/festivapp/festival-api/internal/domain"
)

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

func (req *CreateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Price, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

func (req *CreateProductRequest) ToDomain(standID uint) domain.Product {
	return domain.Product{
		StandID:     standID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		IsActive:    true,
	}
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Quantity    *int    `json:"quantity"`
	IsActive    *bool   `json:"is_active"`
}

func (req *UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Price, validation.Min(int64(1))),
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

func (req *UpdateProductRequest) ToDomain() domain.ProductUpdate {
	return domain.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		IsActive:    req.IsActive,
	}
}
