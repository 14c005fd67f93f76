package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrQuotaExhausted     = errors.New("ticket quota exhausted")
)

type TicketType struct {
	ID uint `gorm:"primaryKey"`

	FestivalID  uint   `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Description string
	Price       int64 `gorm:"not null"`
	Quota       int   `gorm:"not null"`
	Sold        int   `gorm:"not null;default:0"`

	SaleStartsAt time.Time
	SaleEndsAt   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	TicketTypeID uint   `gorm:"index;not null"`
	FestivalID   uint   `gorm:"index;not null"`
	UserID       uint   `gorm:"index;not null"`
	Code         string `gorm:"uniqueIndex;not null"`
	Status       string `gorm:"not null;default:VALID"`
	ScannedAt    *time.Time
	ScannedBy    *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) InsertType(ctx context.Context, ticketType TicketType) (TicketType, error) {
	result := d.db.WithContext(ctx).Create(&ticketType)
	if result.Error != nil {
		return TicketType{}, result.Error
	}

	return ticketType, nil
}

func (d *TicketDAO) FindTypeByID(ctx context.Context, id uint) (TicketType, error) {
	var ticketType TicketType

	result := d.db.WithContext(ctx).First(&ticketType, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TicketType{}, ErrTicketTypeNotFound
		}

		return TicketType{}, result.Error
	}

	return ticketType, nil
}

func (d *TicketDAO) FindTypesByFestivalID(ctx context.Context, festivalID uint) ([]TicketType, error) {
	var types []TicketType

	result := d.db.WithContext(ctx).
		Where("festival_id = ?", festivalID).
		Order("price ASC").
		Find(&types)
	if result.Error != nil {
		return nil, result.Error
	}

	return types, nil
}

// InsertTicket creates the ticket and increments the type's sold counter
// under a row lock, so the quota holds under concurrent purchases. A
// zero quota means the type is unlimited.
func (d *TicketDAO) InsertTicket(ctx context.Context, ticket Ticket) (Ticket, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticketType TicketType
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ticketType, ticket.TicketTypeID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrTicketTypeNotFound
			}

			return result.Error
		}

		if ticketType.Quota > 0 && ticketType.Sold >= ticketType.Quota {
			return ErrQuotaExhausted
		}

		if err := tx.Model(&TicketType{}).Where("id = ?", ticketType.ID).
			Update("sold", gorm.Expr("sold + 1")).Error; err != nil {
			return err
		}

		return tx.Create(&ticket).Error
	})
	if err != nil {
		return Ticket{}, err
	}

	return ticket, nil
}

func (d *TicketDAO) FindByCode(ctx context.Context, festivalID uint, code string) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).
		First(&ticket, "festival_id = ? AND code = ?", festivalID, code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// TransitionStatus moves a ticket from one status to another. It reports
// whether the row was in the expected status, making scans single-use
// even when two devices race on the same code.
func (d *TicketDAO) TransitionStatus(ctx context.Context, id uint, from, to string, scannedAt *time.Time, scannedBy *uint) (bool, error) {
	fields := map[string]any{"status": to}
	if scannedAt != nil {
		fields["scanned_at"] = scannedAt
	}
	if scannedBy != nil {
		fields["scanned_by"] = scannedBy
	}

	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (d *TicketDAO) FindByUserAndFestival(ctx context.Context, userID, festivalID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND festival_id = ?", userID, festivalID).
		Order("created_at DESC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}
