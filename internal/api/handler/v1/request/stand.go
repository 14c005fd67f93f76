package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/festivapp/festival-api/internal/domain"
)

type StandSettingsRequest struct {
	AcceptsOnlyTokens bool   `json:"accepts_only_tokens"`
	RequiresPIN       bool   `json:"requires_pin"`
	PrintReceipts     bool   `json:"print_receipts"`
	Color             string `json:"color"`
}

type CreateStandRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Location    string                `json:"location"`
	ImageURL    string                `json:"image_url"`
	Settings    *StandSettingsRequest `json:"settings"`
}

func (req *CreateStandRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Category, validation.Required,
			validation.In("BAR", "FOOD", "MERCHANDISE", "TICKETS", "TOP_UP", "OTHER")),
	)
}

func (req *CreateStandRequest) ToDomain(festivalID uint) domain.Stand {
	stand := domain.Stand{
		FestivalID:  festivalID,
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.StandCategory(req.Category),
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	if req.Settings != nil {
		stand.Settings = domain.StandSettings{
			AcceptsOnlyTokens: req.Settings.AcceptsOnlyTokens,
			RequiresPIN:       req.Settings.RequiresPIN,
			PrintReceipts:     req.Settings.PrintReceipts,
			Color:             req.Settings.Color,
		}
	}

	return stand
}

type UpdateStandRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Category          *string `json:"category"`
	Location          *string `json:"location"`
	ImageURL          *string `json:"image_url"`
	Status            *string `json:"status"`
	AcceptsOnlyTokens *bool   `json:"accepts_only_tokens"`
	RequiresPIN       *bool   `json:"requires_pin"`
	PrintReceipts     *bool   `json:"print_receipts"`
	Color             *string `json:"color"`
}

func (req *UpdateStandRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.Category,
			validation.In("BAR", "FOOD", "MERCHANDISE", "TICKETS", "TOP_UP", "OTHER")),
		validation.Field(&req.Status, validation.In("ACTIVE", "INACTIVE", "CLOSED")),
	)
}

func (req *UpdateStandRequest) ToDomain() domain.StandUpdate {
	upd := domain.StandUpdate{
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		ImageURL:          req.ImageURL,
		AcceptsOnlyTokens: req.AcceptsOnlyTokens,
		RequiresPIN:       req.RequiresPIN,
		PrintReceipts:     req.PrintReceipts,
		Color:             req.Color,
	}
	if req.Category != nil {
		category := domain.StandCategory(*req.Category)
		upd.Category = &category
	}
	if req.Status != nil {
		status := domain.StandStatus(*req.Status)
		upd.Status = &status
	}

	return upd
}

type AssignStaffRequest struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	PIN    string `json:"pin"`
}

func (req *AssignStaffRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Role, validation.Required, validation.In("MANAGER", "CASHIER", "ASSISTANT")),
		validation.Field(&req.PIN, validation.Length(4, 8), is.Digit),
	)
}

type ValidatePINRequest struct {
	UserID uint   `json:"user_id"`
	PIN    string `json:"pin"`
}

func (req *ValidatePINRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.PIN, validation.Required),
	)
}
