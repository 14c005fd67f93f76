package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository/dao"
)

var (
	ErrEndpointNotFound = dao.ErrEndpointNotFound
	ErrDeliveryNotFound = dao.ErrDeliveryNotFound
)

type WebhookDAO interface {
	InsertEndpoint(ctx context.Context, endpoint dao.WebhookEndpoint) (dao.WebhookEndpoint, error)
	FindEndpointByID(ctx context.Context, id uint) (dao.WebhookEndpoint, error)
	FindEndpointsByFestivalID(ctx context.Context, festivalID uint) ([]dao.WebhookEndpoint, error)
	FindActiveEndpoints(ctx context.Context, festivalID uint) ([]dao.WebhookEndpoint, error)
	UpdateEndpoint(ctx context.Context, id uint, fields map[string]any) (dao.WebhookEndpoint, error)
	DeleteEndpoint(ctx context.Context, id uint) error
	InsertDeliveries(ctx context.Context, deliveries []dao.WebhookDelivery) error
	FindDue(ctx context.Context, now time.Time, limit int) ([]dao.WebhookDelivery, error)
	MarkDelivered(ctx context.Context, id uint, attempts, responseStatus int) error
	MarkAttemptFailed(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error
	ListDeliveries(ctx context.Context, endpointID uint, limit, offset int) ([]dao.WebhookDelivery, int64, error)
}

type WebhookRepository struct {
	dao WebhookDAO
}

func NewWebhookRepository(dao WebhookDAO) *WebhookRepository {
	return &WebhookRepository{
		dao: dao,
	}
}

func (r *WebhookRepository) CreateEndpoint(ctx context.Context, endpoint domain.WebhookEndpoint) (domain.WebhookEndpoint, error) {
	created, err := r.dao.InsertEndpoint(ctx, r.endpointDomainToDao(endpoint))
	if err != nil {
		return domain.WebhookEndpoint{}, fmt.Errorf("r.dao.InsertEndpoint -> %w", err)
	}

	return r.endpointDaoToDomain(created), nil
}

func (r *WebhookRepository) FindEndpointByID(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
	found, err := r.dao.FindEndpointByID(ctx, id)
	if err != nil {
		return domain.WebhookEndpoint{}, fmt.Errorf("r.dao.FindEndpointByID -> %w", err)
	}

	return r.endpointDaoToDomain(found), nil
}

func (r *WebhookRepository) FindEndpointsByFestivalID(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
	found, err := r.dao.FindEndpointsByFestivalID(ctx, festivalID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindEndpointsByFestivalID -> %w", err)
	}

	return r.endpointsDaoToDomain(found), nil
}

func (r *WebhookRepository) FindActiveEndpoints(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
	found, err := r.dao.FindActiveEndpoints(ctx, festivalID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveEndpoints -> %w", err)
	}

	return r.endpointsDaoToDomain(found), nil
}

func (r *WebhookRepository) UpdateEndpoint(ctx context.Context, id uint, fields map[string]any) (domain.WebhookEndpoint, error) {
	updated, err := r.dao.UpdateEndpoint(ctx, id, fields)
	if err != nil {
		return domain.WebhookEndpoint{}, fmt.Errorf("r.dao.UpdateEndpoint -> %w", err)
	}

	return r.endpointDaoToDomain(updated), nil
}

func (r *WebhookRepository) DeleteEndpoint(ctx context.Context, id uint) error {
	if err := r.dao.DeleteEndpoint(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteEndpoint -> %w", err)
	}

	return nil
}

func (r *WebhookRepository) CreateDeliveries(ctx context.Context, deliveries []domain.WebhookDelivery) error {
	daoDeliveries := make([]dao.WebhookDelivery, len(deliveries))
	for i, d := range deliveries {
		daoDeliveries[i] = r.deliveryDomainToDao(d)
	}

	if err := r.dao.InsertDeliveries(ctx, daoDeliveries); err != nil {
		return fmt.Errorf("r.dao.InsertDeliveries -> %w", err)
	}

	return nil
}

func (r *WebhookRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error) {
	found, err := r.dao.FindDue(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindDue -> %w", err)
	}

	deliveries := make([]domain.WebhookDelivery, len(found))
	for i, d := range found {
		deliveries[i] = r.deliveryDaoToDomain(d)
	}

	return deliveries, nil
}

func (r *WebhookRepository) MarkDelivered(ctx context.Context, id uint, attempts, responseStatus int) error {
	if err := r.dao.MarkDelivered(ctx, id, attempts, responseStatus); err != nil {
		return fmt.Errorf("r.dao.MarkDelivered -> %w", err)
	}

	return nil
}

func (r *WebhookRepository) MarkAttemptFailed(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error {
	if err := r.dao.MarkAttemptFailed(ctx, id, attempts, failed, nextAttemptAt, lastError, responseStatus); err != nil {
		return fmt.Errorf("r.dao.MarkAttemptFailed -> %w", err)
	}

	return nil
}

func (r *WebhookRepository) ListDeliveries(ctx context.Context, endpointID uint, limit, offset int) ([]domain.WebhookDelivery, int64, error) {
	found, total, err := r.dao.ListDeliveries(ctx, endpointID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListDeliveries -> %w", err)
	}

	deliveries := make([]domain.WebhookDelivery, len(found))
	for i, d := range found {
		deliveries[i] = r.deliveryDaoToDomain(d)
	}

	return deliveries, total, nil
}

func (r *WebhookRepository) endpointDomainToDao(e domain.WebhookEndpoint) dao.WebhookEndpoint {
	return dao.WebhookEndpoint{
		ID:         e.ID,
		FestivalID: e.FestivalID,
		URL:        e.URL,
		Secret:     e.Secret,
		Events:     e.Events,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (r *WebhookRepository) endpointDaoToDomain(e dao.WebhookEndpoint) domain.WebhookEndpoint {
	return domain.WebhookEndpoint{
		ID:         e.ID,
		FestivalID: e.FestivalID,
		URL:        e.URL,
		Secret:     e.Secret,
		Events:     e.Events,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (r *WebhookRepository) endpointsDaoToDomain(endpoints []dao.WebhookEndpoint) []domain.WebhookEndpoint {
	domainEndpoints := make([]domain.WebhookEndpoint, len(endpoints))
	for i, e := range endpoints {
		domainEndpoints[i] = r.endpointDaoToDomain(e)
	}

	return domainEndpoints
}

func (r *WebhookRepository) deliveryDomainToDao(d domain.WebhookDelivery) dao.WebhookDelivery {
	return dao.WebhookDelivery{
		ID:             d.ID,
		EndpointID:     d.EndpointID,
		DeliveryID:     d.DeliveryID,
		Event:          d.Event,
		Payload:        d.Payload,
		Status:         string(d.Status),
		Attempts:       d.Attempts,
		NextAttemptAt:  d.NextAttemptAt,
		LastError:      d.LastError,
		ResponseStatus: d.ResponseStatus,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *WebhookRepository) deliveryDaoToDomain(d dao.WebhookDelivery) domain.WebhookDelivery {
	return domain.WebhookDelivery{
		ID:             d.ID,
		EndpointID:     d.EndpointID,
		DeliveryID:     d.DeliveryID,
		Event:          d.Event,
		Payload:        d.Payload,
		Status:         domain.DeliveryStatus(d.Status),
		Attempts:       d.Attempts,
		NextAttemptAt:  d.NextAttemptAt,
		LastError:      d.LastError,
		ResponseStatus: d.ResponseStatus,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
