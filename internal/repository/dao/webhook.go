package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEndpointNotFound = errors.New("webhook endpoint not found")
	ErrDeliveryNotFound = errors.New("webhook delivery not found")
)

type WebhookEndpoint struct {
	ID uint `gorm:"primaryKey"`

	FestivalID uint     `gorm:"index;not null"`
	URL        string   `gorm:"not null"`
	Secret     string   `gorm:"not null"`
	Events     []string `gorm:"serializer:json"`
	IsActive   bool     `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type WebhookDelivery struct {
	ID uint `gorm:"primaryKey"`

	EndpointID     uint      `gorm:"index;not null"`
	DeliveryID     string    `gorm:"uniqueIndex;not null"`
	Event          string    `gorm:"not null"`
	Payload        []byte    `gorm:"not null"`
	Status         string    `gorm:"index;not null;default:PENDING"`
	Attempts       int       `gorm:"not null;default:0"`
	NextAttemptAt  time.Time `gorm:"index;not null"`
	LastError      string
	ResponseStatus int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type WebhookDAO struct {
	db *gorm.DB
}

func NewWebhookDAO(db *gorm.DB) *WebhookDAO {
	return &WebhookDAO{
		db: db,
	}
}

func (d *WebhookDAO) InsertEndpoint(ctx context.Context, endpoint WebhookEndpoint) (WebhookEndpoint, error) {
	result := d.db.WithContext(ctx).Create(&endpoint)
	if result.Error != nil {
		return WebhookEndpoint{}, result.Error
	}

	return endpoint, nil
}

func (d *WebhookDAO) FindEndpointByID(ctx context.Context, id uint) (WebhookEndpoint, error) {
	var endpoint WebhookEndpoint

	result := d.db.WithContext(ctx).First(&endpoint, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return WebhookEndpoint{}, ErrEndpointNotFound
		}

		return WebhookEndpoint{}, result.Error
	}

	return endpoint, nil
}

func (d *WebhookDAO) FindEndpointsByFestivalID(ctx context.Context, festivalID uint) ([]WebhookEndpoint, error) {
	var endpoints []WebhookEndpoint

	result := d.db.WithContext(ctx).
		Where("festival_id = ?", festivalID).
		Order("created_at ASC").
		Find(&endpoints)
	if result.Error != nil {
		return nil, result.Error
	}

	return endpoints, nil
}

func (d *WebhookDAO) FindActiveEndpoints(ctx context.Context, festivalID uint) ([]WebhookEndpoint, error) {
	var endpoints []WebhookEndpoint

	result := d.db.WithContext(ctx).
		Where("festival_id = ? AND is_active = ?", festivalID, true).
		Find(&endpoints)
	if result.Error != nil {
		return nil, result.Error
	}

	return endpoints, nil
}

func (d *WebhookDAO) UpdateEndpoint(ctx context.Context, id uint, fields map[string]any) (WebhookEndpoint, error) {
	result := d.db.WithContext(ctx).Model(&WebhookEndpoint{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return WebhookEndpoint{}, result.Error
	}
	if result.RowsAffected == 0 {
		return WebhookEndpoint{}, ErrEndpointNotFound
	}

	return d.FindEndpointByID(ctx, id)
}

func (d *WebhookDAO) DeleteEndpoint(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&WebhookEndpoint{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEndpointNotFound
	}

	return nil
}

func (d *WebhookDAO) InsertDeliveries(ctx context.Context, deliveries []WebhookDelivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&deliveries).Error
}

// FindDue returns pending deliveries whose next attempt time has passed.
func (d *WebhookDAO) FindDue(ctx context.Context, now time.Time, limit int) ([]WebhookDelivery, error) {
	var deliveries []WebhookDelivery

	result := d.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", "PENDING", now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&deliveries)
	if result.Error != nil {
		return nil, result.Error
	}

	return deliveries, nil
}

func (d *WebhookDAO) MarkDelivered(ctx context.Context, id uint, attempts, responseStatus int) error {
	result := d.db.WithContext(ctx).Model(&WebhookDelivery{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          "DELIVERED",
			"attempts":        attempts,
			"response_status": responseStatus,
			"last_error":      "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDeliveryNotFound
	}

	return nil
}

// MarkAttemptFailed records a failed attempt. The delivery stays PENDING
// with a pushed-out next attempt until attempts reach the cap, at which
// point status becomes FAILED.
func (d *WebhookDAO) MarkAttemptFailed(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error {
	fields := map[string]any{
		"attempts":        attempts,
		"last_error":      lastError,
		"response_status": responseStatus,
	}
	if failed {
		fields["status"] = "FAILED"
	} else {
		fields["status"] = "PENDING"
		fields["next_attempt_at"] = nextAttemptAt
	}

	result := d.db.WithContext(ctx).Model(&WebhookDelivery{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDeliveryNotFound
	}

	return nil
}

func (d *WebhookDAO) ListDeliveries(ctx context.Context, endpointID uint, limit, offset int) ([]WebhookDelivery, int64, error) {
	var (
		deliveries []WebhookDelivery
		total      int64
	)

	if err := d.db.WithContext(ctx).Model(&WebhookDelivery{}).
		Where("endpoint_id = ?", endpointID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := d.db.WithContext(ctx).
		Where("endpoint_id = ?", endpointID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&deliveries)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return deliveries, total, nil
}
