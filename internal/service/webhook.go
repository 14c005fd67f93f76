package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository"
)

var (
	ErrEndpointNotFound = repository.ErrEndpointNotFound
	ErrDeliveryNotFound = repository.ErrDeliveryNotFound
)

type WebhookRepository interface {
	CreateEndpoint(ctx context.Context, endpoint domain.WebhookEndpoint) (domain.WebhookEndpoint, error)
	FindEndpointByID(ctx context.Context, id uint) (domain.WebhookEndpoint, error)
	FindEndpointsByFestivalID(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error)
	FindActiveEndpoints(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error)
	UpdateEndpoint(ctx context.Context, id uint, fields map[string]any) (domain.WebhookEndpoint, error)
	DeleteEndpoint(ctx context.Context, id uint) error
	CreateDeliveries(ctx context.Context, deliveries []domain.WebhookDelivery) error
	ListDeliveries(ctx context.Context, endpointID uint, limit, offset int) ([]domain.WebhookDelivery, int64, error)
}

// WebhookEndpointUpdate carries optional endpoint changes.
type WebhookEndpointUpdate struct {
	URL      *string
	Events   *[]string
	IsActive *bool
}

type WebhookService struct {
	repo WebhookRepository
	now  func() time.Time
}

func NewWebhookService(repo WebhookRepository) *WebhookService {
	return &WebhookService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateEndpoint registers a URL to receive the festival's events. The
// signing secret is generated here and returned once; it is never shown
// again.
func (s *WebhookService) CreateEndpoint(ctx context.Context, festivalID uint, url string, events []string) (domain.WebhookEndpoint, error) {
	secret := "whsec_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	created, err := s.repo.CreateEndpoint(ctx, domain.WebhookEndpoint{
		FestivalID: festivalID,
		URL:        url,
		Secret:     secret,
		Events:     events,
		IsActive:   true,
	})
	if err != nil {
		return domain.WebhookEndpoint{}, fmt.Errorf("s.repo.CreateEndpoint -> %w", err)
	}

	return created, nil
}

func (s *WebhookService) GetEndpoint(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
	endpoint, err := s.repo.FindEndpointByID(ctx, id)
	if err != nil {
		return domain.WebhookEndpoint{}, fmt.Errorf("s.repo.FindEndpointByID -> %w", err)
	}

	endpoint.Secret = ""

	return endpoint, nil
}

func (s *WebhookService) ListEndpoints(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
	endpoints, err := s.repo.FindEndpointsByFestivalID(ctx, festivalID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindEndpointsByFestivalID -> %w", err)
	}

	for i := range endpoints {
		endpoints[i].Secret = ""
	}

	return endpoints, nil
}

func (s *WebhookService) UpdateEndpoint(ctx context.Context, id uint, upd WebhookEndpointUpdate) (domain.WebhookEndpoint, error) {
	fields := map[string]any{}
	if upd.URL != nil {
		fields["url"] = *upd.URL
	}
	if upd.Events != nil {
		fields["events"] = *upd.Events
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}

	updated, err := s.repo.UpdateEndpoint(ctx, id, fields)
	if err != nil {
		return domain.WebhookEndpoint{}, fmt.Errorf("s.repo.UpdateEndpoint -> %w", err)
	}

	updated.Secret = ""

	return updated, nil
}

func (s *WebhookService) DeleteEndpoint(ctx context.Context, id uint) error {
	if err := s.repo.DeleteEndpoint(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteEndpoint -> %w", err)
	}

	return nil
}

// Publish queues one delivery per subscribed endpoint of the festival.
// Deliveries are picked up and sent by the dispatcher; publishing only
// writes rows, so it stays cheap on the request path.
func (s *WebhookService) Publish(ctx context.Context, festivalID uint, event string, payload any) error {
	endpoints, err := s.repo.FindActiveEndpoints(ctx, festivalID)
	if err != nil {
		return fmt.Errorf("s.repo.FindActiveEndpoints -> %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"event":       event,
		"festival_id": festivalID,
		"created_at":  s.now().UTC().Format(time.RFC3339),
		"data":        payload,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	var deliveries []domain.WebhookDelivery
	for _, endpoint := range endpoints {
		if !endpoint.Subscribed(event) {
			continue
		}

		deliveries = append(deliveries, domain.WebhookDelivery{
			EndpointID:    endpoint.ID,
			DeliveryID:    uuid.NewString(),
			Event:         event,
			Payload:       body,
			Status:        domain.DeliveryPending,
			NextAttemptAt: s.now(),
		})
	}

	if len(deliveries) == 0 {
		return nil
	}

	if err = s.repo.CreateDeliveries(ctx, deliveries); err != nil {
		return fmt.Errorf("s.repo.CreateDeliveries -> %w", err)
	}

	return nil
}

func (s *WebhookService) ListDeliveries(ctx context.Context, endpointID uint, limit, offset int) ([]domain.WebhookDelivery, int64, error) {
	deliveries, total, err := s.repo.ListDeliveries(ctx, endpointID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.ListDeliveries -> %w", err)
	}

	return deliveries, total, nil
}
