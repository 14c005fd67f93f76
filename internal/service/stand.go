package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository"
)

var (
	ErrStandNotFound        = repository.ErrStandNotFound
	ErrStaffNotFound        = repository.ErrStaffNotFound
	ErrStaffAlreadyAssigned = repository.ErrStaffAlreadyAssigned
	ErrProductNotFound      = repository.ErrProductNotFound
	ErrInvalidPIN           = errors.New("invalid PIN")
)

type StandRepository interface {
	Create(ctx context.Context, stand domain.Stand) (domain.Stand, error)
	FindByID(ctx context.Context, id uint) (domain.Stand, error)
	FindByFestivalID(ctx context.Context, festivalID uint, category domain.StandCategory) ([]domain.Stand, error)
	Update(ctx context.Context, id uint, upd domain.StandUpdate) (domain.Stand, error)
	Delete(ctx context.Context, id uint) error
	AssignStaff(ctx context.Context, staff domain.StandStaff) (domain.StandStaff, error)
	RemoveStaff(ctx context.Context, standID, userID uint) error
	FindStaff(ctx context.Context, standID uint) ([]domain.StandStaff, error)
	FindStaffByStandAndUser(ctx context.Context, standID, userID uint) (domain.StandStaff, error)
	FindStandsByUserID(ctx context.Context, userID uint) ([]domain.Stand, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	FindProductByID(ctx context.Context, id uint) (domain.Product, error)
	FindProductsByStandID(ctx context.Context, standID uint) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, upd domain.ProductUpdate) (domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type StandService struct {
	repo StandRepository
}

func NewStandService(repo StandRepository) *StandService {
	return &StandService{
		repo: repo,
	}
}

func (s *StandService) CreateStand(ctx context.Context, stand domain.Stand) (domain.Stand, error) {
	if stand.Status == "" {
		stand.Status = domain.StandActive
	}

	created, err := s.repo.Create(ctx, stand)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *StandService) GetStand(ctx context.Context, id uint) (domain.Stand, error) {
	stand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return stand, nil
}

// ListStands returns the festival's stands; category is optional.
func (s *StandService) ListStands(ctx context.Context, festivalID uint, category domain.StandCategory) ([]domain.Stand, error) {
	stands, err := s.repo.FindByFestivalID(ctx, festivalID, category)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByFestivalID -> %w", err)
	}

	return stands, nil
}

func (s *StandService) UpdateStand(ctx context.Context, id uint, upd domain.StandUpdate) (domain.Stand, error) {
	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *StandService) DeleteStand(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *StandService) ActivateStand(ctx context.Context, id uint) (domain.Stand, error) {
	status := domain.StandActive
	return s.UpdateStand(ctx, id, domain.StandUpdate{Status: &status})
}

func (s *StandService) DeactivateStand(ctx context.Context, id uint) (domain.Stand, error) {
	status := domain.StandInactive
	return s.UpdateStand(ctx, id, domain.StandUpdate{Status: &status})
}

// AssignStaff adds a user to a stand's staff. An empty pin means the
// staff member will never be asked for one. The (stand, user) pair is
// unique; a duplicate assignment fails with ErrStaffAlreadyAssigned
// even when two requests race, because the database index is the
// final arbiter.
func (s *StandService) AssignStaff(ctx context.Context, standID, userID uint, role domain.StaffRole, pin string) (domain.StandStaff, error) {
	if _, err := s.repo.FindByID(ctx, standID); err != nil {
		if errors.Is(err, repository.ErrStandNotFound) {
			return domain.StandStaff{}, ErrStandNotFound
		}

		return domain.StandStaff{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if _, err := s.repo.FindStaffByStandAndUser(ctx, standID, userID); err == nil {
		return domain.StandStaff{}, ErrStaffAlreadyAssigned
	} else if !errors.Is(err, repository.ErrStaffNotFound) {
		return domain.StandStaff{}, fmt.Errorf("s.repo.FindStaffByStandAndUser -> %w", err)
	}

	var pinHash string
	if pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return domain.StandStaff{}, err
		}
		pinHash = string(hash)
	}

	created, err := s.repo.AssignStaff(ctx, domain.StandStaff{
		StandID: standID,
		UserID:  userID,
		Role:    role,
		PINHash: pinHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaffAlreadyAssigned) {
			return domain.StandStaff{}, ErrStaffAlreadyAssigned
		}

		return domain.StandStaff{}, fmt.Errorf("s.repo.AssignStaff -> %w", err)
	}

	return created, nil
}

func (s *StandService) RemoveStaff(ctx context.Context, standID, userID uint) error {
	if err := s.repo.RemoveStaff(ctx, standID, userID); err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return ErrStaffNotFound
		}

		return fmt.Errorf("s.repo.RemoveStaff -> %w", err)
	}

	return nil
}

func (s *StandService) GetStaff(ctx context.Context, standID uint) ([]domain.StandStaff, error) {
	staff, err := s.repo.FindStaff(ctx, standID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindStaff -> %w", err)
	}

	return staff, nil
}

func (s *StandService) GetUserStands(ctx context.Context, userID uint) ([]domain.Stand, error) {
	stands, err := s.repo.FindStandsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindStandsByUserID -> %w", err)
	}

	return stands, nil
}

// ValidateStaffPIN checks the PIN of a staff member. A staff row with
// no stored hash requires no PIN and validates any input. The compare
// is bcrypt's, so it is salted and constant-time.
func (s *StandService) ValidateStaffPIN(ctx context.Context, standID, userID uint, pin string) error {
	staff, err := s.repo.FindStaffByStandAndUser(ctx, standID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return ErrStaffNotFound
		}

		return fmt.Errorf("s.repo.FindStaffByStandAndUser -> %w", err)
	}

	if staff.PINHash == "" {
		return nil
	}

	if err = bcrypt.CompareHashAndPassword([]byte(staff.PINHash), []byte(pin)); err != nil {
		return ErrInvalidPIN
	}

	return nil
}

func (s *StandService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if _, err := s.repo.FindByID(ctx, product.StandID); err != nil {
		if errors.Is(err, repository.ErrStandNotFound) {
			return domain.Product{}, ErrStandNotFound
		}

		return domain.Product{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.CreateProduct -> %w", err)
	}

	return created, nil
}

func (s *StandService) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.FindProductByID -> %w", err)
	}

	return product, nil
}

func (s *StandService) ListProducts(ctx context.Context, standID uint) ([]domain.Product, error) {
	products, err := s.repo.FindProductsByStandID(ctx, standID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindProductsByStandID -> %w", err)
	}

	return products, nil
}

func (s *StandService) UpdateProduct(ctx context.Context, id uint, upd domain.ProductUpdate) (domain.Product, error) {
	updated, err := s.repo.UpdateProduct(ctx, id, upd)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.UpdateProduct -> %w", err)
	}

	return updated, nil
}

func (s *StandService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteProduct -> %w", err)
	}

	return nil
}

// IsStandManager reports whether the user manages the stand.
func (s *StandService) IsStandManager(ctx context.Context, standID, userID uint) (bool, error) {
	staff, err := s.repo.FindStaffByStandAndUser(ctx, standID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("s.repo.FindStaffByStandAndUser -> %w", err)
	}

	return staff.Role == domain.StaffManager, nil
}
