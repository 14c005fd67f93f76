package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festivapp/festival-api/internal/domain"
)

type mockWebhookRepo struct {
	CreateEndpointFn            func(ctx context.Context, endpoint domain.WebhookEndpoint) (domain.WebhookEndpoint, error)
	FindEndpointByIDFn          func(ctx context.Context, id uint) (domain.WebhookEndpoint, error)
	FindEndpointsByFestivalIDFn func(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error)
	FindActiveEndpointsFn       func(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error)
	UpdateEndpointFn            func(ctx context.Context, id uint, fields map[string]any) (domain.WebhookEndpoint, error)
	DeleteEndpointFn            func(ctx context.Context, id uint) error
	CreateDeliveriesFn          func(ctx context.Context, deliveries []domain.WebhookDelivery) error
	ListDeliveriesFn            func(ctx context.Context, endpointID uint, limit, offset int) ([]domain.WebhookDelivery, int64, error)
}

func (m *mockWebhookRepo) CreateEndpoint(ctx context.Context, endpoint domain.WebhookEndpoint) (domain.WebhookEndpoint, error) {
	return m.CreateEndpointFn(ctx, endpoint)
}

func (m *mockWebhookRepo) FindEndpointByID(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
	return m.FindEndpointByIDFn(ctx, id)
}

func (m *mockWebhookRepo) FindEndpointsByFestivalID(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
	return m.FindEndpointsByFestivalIDFn(ctx, festivalID)
}

func (m *mockWebhookRepo) FindActiveEndpoints(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
	return m.FindActiveEndpointsFn(ctx, festivalID)
}

func (m *mockWebhookRepo) UpdateEndpoint(ctx context.Context, id uint, fields map[string]any) (domain.WebhookEndpoint, error) {
	return m.UpdateEndpointFn(ctx, id, fields)
}

func (m *mockWebhookRepo) DeleteEndpoint(ctx context.Context, id uint) error {
	return m.DeleteEndpointFn(ctx, id)
}

func (m *mockWebhookRepo) CreateDeliveries(ctx context.Context, deliveries []domain.WebhookDelivery) error {
	return m.CreateDeliveriesFn(ctx, deliveries)
}

func (m *mockWebhookRepo) ListDeliveries(ctx context.Context, endpointID uint, limit, offset int) ([]domain.WebhookDelivery, int64, error) {
	return m.ListDeliveriesFn(ctx, endpointID, limit, offset)
}

func TestWebhookService_CreateEndpoint(t *testing.T) {
	var saved domain.WebhookEndpoint
	repo := &mockWebhookRepo{
		CreateEndpointFn: func(ctx context.Context, endpoint domain.WebhookEndpoint) (domain.WebhookEndpoint, error) {
			endpoint.ID = 1
			saved = endpoint
			return endpoint, nil
		},
	}
	svc := NewWebhookService(repo)

	created, err := svc.CreateEndpoint(context.Background(), 5, "https://example.com/hook", []string{domain.EventWalletDebited})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Secret, "whsec_"), "the secret is returned on creation")
	assert.True(t, saved.IsActive, "new endpoints start active")
	assert.Equal(t, uint(5), saved.FestivalID)
}

func TestWebhookService_SecretNeverLeavesAgain(t *testing.T) {
	endpoint := domain.WebhookEndpoint{ID: 1, FestivalID: 5, Secret: "whsec_abc", IsActive: true}
	repo := &mockWebhookRepo{
		FindEndpointByIDFn: func(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
			return endpoint, nil
		},
		FindEndpointsByFestivalIDFn: func(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
			return []domain.WebhookEndpoint{endpoint}, nil
		},
		UpdateEndpointFn: func(ctx context.Context, id uint, fields map[string]any) (domain.WebhookEndpoint, error) {
			return endpoint, nil
		},
	}
	svc := NewWebhookService(repo)

	got, err := svc.GetEndpoint(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got.Secret)

	list, err := svc.ListEndpoints(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Secret)

	url := "https://example.com/new"
	updated, err := svc.UpdateEndpoint(context.Background(), 1, WebhookEndpointUpdate{URL: &url})
	require.NoError(t, err)
	assert.Empty(t, updated.Secret)
}

func TestWebhookService_UpdateEndpoint(t *testing.T) {
	var gotFields map[string]any
	repo := &mockWebhookRepo{
		UpdateEndpointFn: func(ctx context.Context, id uint, fields map[string]any) (domain.WebhookEndpoint, error) {
			gotFields = fields
			return domain.WebhookEndpoint{ID: id}, nil
		},
	}
	svc := NewWebhookService(repo)

	inactive := false
	_, err := svc.UpdateEndpoint(context.Background(), 1, WebhookEndpointUpdate{IsActive: &inactive})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"is_active": false}, gotFields, "untouched fields stay out of the update")
}

func TestWebhookService_Publish(t *testing.T) {
	now := time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)

	endpoints := []domain.WebhookEndpoint{
		{ID: 1, Events: []string{domain.EventWalletDebited}, IsActive: true},
		{ID: 2, Events: []string{domain.EventTicketScanned}, IsActive: true},
		{ID: 3, Events: nil, IsActive: true}, // empty list means everything
	}

	t.Run("queues one delivery per subscribed endpoint", func(t *testing.T) {
		var queued []domain.WebhookDelivery
		repo := &mockWebhookRepo{
			FindActiveEndpointsFn: func(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
				return endpoints, nil
			},
			CreateDeliveriesFn: func(ctx context.Context, deliveries []domain.WebhookDelivery) error {
				queued = deliveries
				return nil
			},
		}
		svc := NewWebhookService(repo)
		svc.now = func() time.Time { return now }

		err := svc.Publish(context.Background(), 5, domain.EventWalletDebited, map[string]any{"amount": 300})

		require.NoError(t, err)
		require.Len(t, queued, 2)
		assert.Equal(t, uint(1), queued[0].EndpointID)
		assert.Equal(t, uint(3), queued[1].EndpointID)
		for _, d := range queued {
			assert.Equal(t, domain.DeliveryPending, d.Status)
			assert.NotEmpty(t, d.DeliveryID)
			assert.Equal(t, now, d.NextAttemptAt)
		}
	})

	t.Run("payload envelope", func(t *testing.T) {
		var queued []domain.WebhookDelivery
		repo := &mockWebhookRepo{
			FindActiveEndpointsFn: func(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
				return endpoints[:1], nil
			},
			CreateDeliveriesFn: func(ctx context.Context, deliveries []domain.WebhookDelivery) error {
				queued = deliveries
				return nil
			},
		}
		svc := NewWebhookService(repo)
		svc.now = func() time.Time { return now }

		err := svc.Publish(context.Background(), 5, domain.EventWalletDebited, map[string]any{"amount": 300})

		require.NoError(t, err)
		require.Len(t, queued, 1)

		var envelope map[string]any
		require.NoError(t, json.Unmarshal(queued[0].Payload, &envelope))
		assert.Equal(t, domain.EventWalletDebited, envelope["event"])
		assert.Equal(t, float64(5), envelope["festival_id"])
		assert.Equal(t, "2026-07-10T18:00:00Z", envelope["created_at"])
		assert.Equal(t, map[string]any{"amount": float64(300)}, envelope["data"])
	})

	t.Run("nobody subscribed writes nothing", func(t *testing.T) {
		repo := &mockWebhookRepo{
			FindActiveEndpointsFn: func(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error) {
				return []domain.WebhookEndpoint{{ID: 2, Events: []string{domain.EventTicketScanned}, IsActive: true}}, nil
			},
			CreateDeliveriesFn: func(ctx context.Context, deliveries []domain.WebhookDelivery) error {
				t.Fatal("no deliveries expected")
				return nil
			},
		}
		svc := NewWebhookService(repo)

		err := svc.Publish(context.Background(), 5, domain.EventWalletDebited, nil)

		assert.NoError(t, err)
	})
}
