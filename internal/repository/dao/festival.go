package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrFestivalNotFound = errors.New("festival not found")

type Festival struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Slug        string `gorm:"index"`
	Description string
	Location    string
	StartsAt    time.Time `gorm:"not null"`
	EndsAt      time.Time `gorm:"not null"`
	Status      string    `gorm:"not null;default:DRAFT"`
	TokenName   string    `gorm:"not null;default:jetons"`
	APIKey      string    `gorm:"uniqueIndex;not null"`
	OrganizerID uint      `gorm:"index;not null"`

	Stands []Stand `gorm:"foreignKey:FestivalID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type FestivalDAO struct {
	db *gorm.DB
}

func NewFestivalDAO(db *gorm.DB) *FestivalDAO {
	return &FestivalDAO{
		db: db,
	}
}

func (d *FestivalDAO) Insert(ctx context.Context, festival Festival) (Festival, error) {
	result := d.db.WithContext(ctx).Create(&festival)
	if result.Error != nil {
		return Festival{}, result.Error
	}

	return festival, nil
}

func (d *FestivalDAO) FindByID(ctx context.Context, id uint) (Festival, error) {
	var festival Festival

	result := d.db.WithContext(ctx).First(&festival, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Festival{}, ErrFestivalNotFound
		}

		return Festival{}, result.Error
	}

	return festival, nil
}

func (d *FestivalDAO) FindByAPIKey(ctx context.Context, apiKey string) (Festival, error) {
	var festival Festival

	result := d.db.WithContext(ctx).First(&festival, "api_key = ?", apiKey)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Festival{}, ErrFestivalNotFound
		}

		return Festival{}, result.Error
	}

	return festival, nil
}

// List pages through published festivals plus the ones organized by
// visibleTo; all skips the visibility filter.
func (d *FestivalDAO) List(ctx context.Context, visibleTo uint, all bool, limit, offset int) ([]Festival, int64, error) {
	var (
		festivals []Festival
		total     int64
	)

	visible := func(tx *gorm.DB) *gorm.DB {
		if all {
			return tx
		}

		return tx.Where("status = ? OR organizer_id = ?", "PUBLISHED", visibleTo)
	}

	if err := visible(d.db.WithContext(ctx).Model(&Festival{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := visible(d.db.WithContext(ctx)).
		Order("starts_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&festivals)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return festivals, total, nil
}

// Update applies only the given columns.
func (d *FestivalDAO) Update(ctx context.Context, id uint, fields map[string]any) (Festival, error) {
	result := d.db.WithContext(ctx).Model(&Festival{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return Festival{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Festival{}, ErrFestivalNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *FestivalDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Festival{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFestivalNotFound
	}

	return nil
}
