package request

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/festivapp/festival-api/internal/domain"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type CreateFestivalRequest struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	TokenName   string    `json:"token_name"`
}

func (req *CreateFestivalRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Slug, validation.Length(2, 60), validation.Match(slugPattern)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.EndsAt, validation.Required, validation.Min(req.StartsAt)),
	)
}

type UpdateFestivalRequest struct {
	Name        *string    `json:"name"`
	Slug        *string    `json:"slug"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Status      *string    `json:"status"`
	TokenName   *string    `json:"token_name"`
}

func (req *UpdateFestivalRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.Slug, validation.Length(2, 60), validation.Match(slugPattern)),
		validation.Field(&req.Status, validation.In("DRAFT", "PUBLISHED", "ARCHIVED")),
	)
}

func (req *UpdateFestivalRequest) ToDomain() domain.FestivalUpdate {
	upd := domain.FestivalUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		TokenName:   req.TokenName,
	}
	if req.Status != nil {
		status := domain.FestivalStatus(*req.Status)
		upd.Status = &status
	}

	return upd
}
