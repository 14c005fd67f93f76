package repository

import (
	"context"
	"fmt"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository/dao"
)

var ErrFestivalNotFound = dao.ErrFestivalNotFound

type FestivalDAO interface {
	Insert(ctx context.Context, festival dao.Festival) (dao.Festival, error)
	FindByID(ctx context.Context, id uint) (dao.Festival, error)
	FindByAPIKey(ctx context.Context, apiKey string) (dao.Festival, error)
	List(ctx context.Context, visibleTo uint, all bool, limit, offset int) ([]dao.Festival, int64, error)
	Update(ctx context.Context, id uint, fields map[string]any) (dao.Festival, error)
	Delete(ctx context.Context, id uint) error
}

type FestivalRepository struct {
	dao FestivalDAO
}

func NewFestivalRepository(dao FestivalDAO) *FestivalRepository {
	return &FestivalRepository{
		dao: dao,
	}
}

func (r *FestivalRepository) Create(ctx context.Context, festival domain.Festival) (domain.Festival, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(festival))
	if err != nil {
		return domain.Festival{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *FestivalRepository) FindByID(ctx context.Context, id uint) (domain.Festival, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *FestivalRepository) FindByAPIKey(ctx context.Context, apiKey string) (domain.Festival, error) {
	found, err := r.dao.FindByAPIKey(ctx, apiKey)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("r.dao.FindByAPIKey -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *FestivalRepository) List(ctx context.Context, visibleTo uint, all bool, limit, offset int) ([]domain.Festival, int64, error) {
	found, total, err := r.dao.List(ctx, visibleTo, all, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	festivals := make([]domain.Festival, len(found))
	for i, f := range found {
		festivals[i] = r.daoToDomain(f)
	}

	return festivals, total, nil
}

// Update folds the non-nil fields of upd into column updates.
func (r *FestivalRepository) Update(ctx context.Context, id uint, upd domain.FestivalUpdate) (domain.Festival, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Slug != nil {
		fields["slug"] = *upd.Slug
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Location != nil {
		fields["location"] = *upd.Location
	}
	if upd.StartsAt != nil {
		fields["starts_at"] = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		fields["ends_at"] = *upd.EndsAt
	}
	if upd.Status != nil {
		fields["status"] = string(*upd.Status)
	}
	if upd.TokenName != nil {
		fields["token_name"] = *upd.TokenName
	}

	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	updated, err := r.dao.Update(ctx, id, fields)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *FestivalRepository) UpdateAPIKey(ctx context.Context, id uint, apiKey string) (domain.Festival, error) {
	updated, err := r.dao.Update(ctx, id, map[string]any{"api_key": apiKey})
	if err != nil {
		return domain.Festival{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *FestivalRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *FestivalRepository) domainToDao(f domain.Festival) dao.Festival {
	return dao.Festival{
		ID:          f.ID,
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
		Location:    f.Location,
		StartsAt:    f.StartsAt,
		EndsAt:      f.EndsAt,
		Status:      string(f.Status),
		TokenName:   f.TokenName,
		APIKey:      f.APIKey,
		OrganizerID: f.OrganizerID,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (r *FestivalRepository) daoToDomain(f dao.Festival) domain.Festival {
	return domain.Festival{
		ID:          f.ID,
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
		Location:    f.Location,
		StartsAt:    f.StartsAt,
		EndsAt:      f.EndsAt,
		Status:      domain.FestivalStatus(f.Status),
		TokenName:   f.TokenName,
		APIKey:      f.APIKey,
		OrganizerID: f.OrganizerID,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
