package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrStandNotFound        = errors.New("stand not found")
	ErrStaffNotFound        = errors.New("staff assignment not found")
	ErrStaffAlreadyAssigned = errors.New("user already assigned to this stand")
)

type Stand struct {
	ID uint `gorm:"primaryKey"`

	FestivalID  uint   `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Description string
	Category    string `gorm:"not null"` // BAR, FOOD, MERCHANDISE, TICKETS, TOP_UP or OTHER
	Location    string
	ImageURL    string
	Status      string `gorm:"not null;default:ACTIVE"`

	// Settings are flattened into columns; the repository folds them
	// back into the domain settings struct.
	AcceptsOnlyTokens bool `gorm:"not null;default:false"`
	RequiresPIN       bool `gorm:"not null;default:false"`
	PrintReceipts     bool `gorm:"not null;default:false"`
	Color             string

	Products []Product    `gorm:"foreignKey:StandID"`
	Staff    []StandStaff `gorm:"foreignKey:StandID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StandStaff rows are unique per (stand, user); the composite index is
// the invariant, the service pre-check only produces a friendlier error.
type StandStaff struct {
	ID uint `gorm:"primaryKey"`

	StandID uint   `gorm:"uniqueIndex:idx_stand_staff_stand_user;not null"`
	UserID  uint   `gorm:"uniqueIndex:idx_stand_staff_stand_user;not null"`
	Role    string `gorm:"not null"` // MANAGER, CASHIER or ASSISTANT
	PINHash string

	CreatedAt time.Time
}

type StandDAO struct {
	db *gorm.DB
}

func NewStandDAO(db *gorm.DB) *StandDAO {
	return &StandDAO{
		db: db,
	}
}

func (d *StandDAO) Insert(ctx context.Context, stand Stand) (Stand, error) {
	result := d.db.WithContext(ctx).Create(&stand)
	if result.Error != nil {
		return Stand{}, result.Error
	}

	return stand, nil
}

func (d *StandDAO) FindByID(ctx context.Context, id uint) (Stand, error) {
	var stand Stand

	result := d.db.WithContext(ctx).Preload("Products").First(&stand, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Stand{}, ErrStandNotFound
		}

		return Stand{}, result.Error
	}

	return stand, nil
}

// FindByFestivalID lists a festival's stands, optionally filtered by category.
func (d *StandDAO) FindByFestivalID(ctx context.Context, festivalID uint, category string) ([]Stand, error) {
	var stands []Stand

	query := d.db.WithContext(ctx).Where("festival_id = ?", festivalID)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	result := query.Order("name ASC").Find(&stands)
	if result.Error != nil {
		return nil, result.Error
	}

	return stands, nil
}

// Update applies only the given columns.
func (d *StandDAO) Update(ctx context.Context, id uint, fields map[string]any) (Stand, error) {
	result := d.db.WithContext(ctx).Model(&Stand{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return Stand{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Stand{}, ErrStandNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *StandDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Stand{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStandNotFound
	}

	return nil
}

func (d *StandDAO) InsertStaff(ctx context.Context, staff StandStaff) (StandStaff, error) {
	result := d.db.WithContext(ctx).Create(&staff)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return StandStaff{}, ErrStaffAlreadyAssigned
		}

		return StandStaff{}, result.Error
	}

	return staff, nil
}

func (d *StandDAO) DeleteStaff(ctx context.Context, standID, userID uint) error {
	result := d.db.WithContext(ctx).
		Where("stand_id = ? AND user_id = ?", standID, userID).
		Delete(&StandStaff{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}

func (d *StandDAO) FindStaff(ctx context.Context, standID uint) ([]StandStaff, error) {
	var staff []StandStaff

	result := d.db.WithContext(ctx).
		Where("stand_id = ?", standID).
		Order("created_at ASC").
		Find(&staff)
	if result.Error != nil {
		return nil, result.Error
	}

	return staff, nil
}

func (d *StandDAO) FindStaffByStandAndUser(ctx context.Context, standID, userID uint) (StandStaff, error) {
	var staff StandStaff

	result := d.db.WithContext(ctx).
		First(&staff, "stand_id = ? AND user_id = ?", standID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return StandStaff{}, ErrStaffNotFound
		}

		return StandStaff{}, result.Error
	}

	return staff, nil
}

// FindStandsByUserID returns every stand the user is assigned to.
func (d *StandDAO) FindStandsByUserID(ctx context.Context, userID uint) ([]Stand, error) {
	var stands []Stand

	result := d.db.WithContext(ctx).
		Joins("JOIN stand_staffs ON stand_staffs.stand_id = stands.id").
		Where("stand_staffs.user_id = ?", userID).
		Find(&stands)
	if result.Error != nil {
		return nil, result.Error
	}

	return stands, nil
}
