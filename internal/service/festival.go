package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository"
)

var ErrFestivalNotFound = repository.ErrFestivalNotFound

type FestivalRepository interface {
	Create(ctx context.Context, festival domain.Festival) (domain.Festival, error)
	FindByID(ctx context.Context, id uint) (domain.Festival, error)
	FindByAPIKey(ctx context.Context, apiKey string) (domain.Festival, error)
	List(ctx context.Context, visibleTo uint, all bool, limit, offset int) ([]domain.Festival, int64, error)
	Update(ctx context.Context, id uint, upd domain.FestivalUpdate) (domain.Festival, error)
	UpdateAPIKey(ctx context.Context, id uint, apiKey string) (domain.Festival, error)
	Delete(ctx context.Context, id uint) error
}

type FestivalService struct {
	repo FestivalRepository
}

func NewFestivalService(repo FestivalRepository) *FestivalService {
	return &FestivalService{
		repo: repo,
	}
}

func (s *FestivalService) CreateFestival(ctx context.Context, festival domain.Festival, organizerID uint) (domain.Festival, error) {
	festival.OrganizerID = organizerID
	festival.APIKey = uuid.NewString()
	if festival.Status == "" {
		festival.Status = domain.FestivalDraft
	}
	if festival.TokenName == "" {
		festival.TokenName = "jetons"
	}

	created, err := s.repo.Create(ctx, festival)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *FestivalService) GetFestival(ctx context.Context, id uint) (domain.Festival, error) {
	festival, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return festival, nil
}

func (s *FestivalService) GetFestivalByAPIKey(ctx context.Context, apiKey string) (domain.Festival, error) {
	festival, err := s.repo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("s.repo.FindByAPIKey -> %w", err)
	}

	return festival, nil
}

// ListFestivals pages through the festivals the viewer may see:
// published ones plus the viewer's own. Admins see everything.
func (s *FestivalService) ListFestivals(ctx context.Context, viewer domain.User, limit, offset int) ([]domain.Festival, int64, error) {
	festivals, total, err := s.repo.List(ctx, viewer.ID, viewer.Role == domain.RoleAdmin, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return festivals, total, nil
}

func (s *FestivalService) UpdateFestival(ctx context.Context, id uint, upd domain.FestivalUpdate) (domain.Festival, error) {
	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *FestivalService) DeleteFestival(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// RegenerateAPIKey rotates the festival's public API key. The old key
// stops working immediately.
func (s *FestivalService) RegenerateAPIKey(ctx context.Context, id uint) (domain.Festival, error) {
	updated, err := s.repo.UpdateAPIKey(ctx, id, uuid.NewString())
	if err != nil {
		return domain.Festival{}, fmt.Errorf("s.repo.UpdateAPIKey -> %w", err)
	}

	return updated, nil
}

// IsOrganizer reports whether the user owns the festival.
func (s *FestivalService) IsOrganizer(ctx context.Context, festivalID, userID uint) (bool, error) {
	festival, err := s.repo.FindByID(ctx, festivalID)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return festival.OrganizerID == userID, nil
}
