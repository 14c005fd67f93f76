package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festivapp/festival-api/internal/config"
	"github.com/festivapp/festival-api/internal/domain"
)

type mockDeliveryRepo struct {
	FindDueFn           func(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error)
	FindEndpointByIDFn  func(ctx context.Context, id uint) (domain.WebhookEndpoint, error)
	MarkDeliveredFn     func(ctx context.Context, id uint, attempts, responseStatus int) error
	MarkAttemptFailedFn func(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error
}

func (m *mockDeliveryRepo) FindDue(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error) {
	return m.FindDueFn(ctx, now, limit)
}

func (m *mockDeliveryRepo) FindEndpointByID(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
	return m.FindEndpointByIDFn(ctx, id)
}

func (m *mockDeliveryRepo) MarkDelivered(ctx context.Context, id uint, attempts, responseStatus int) error {
	return m.MarkDeliveredFn(ctx, id, attempts, responseStatus)
}

func (m *mockDeliveryRepo) MarkAttemptFailed(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error {
	return m.MarkAttemptFailedFn(ctx, id, attempts, failed, nextAttemptAt, lastError, responseStatus)
}

func newTestDispatcher(repo DeliveryRepository, maxAttempts int, now time.Time) *Dispatcher {
	d := NewDispatcher(repo, &config.WebhookConfig{
		PollIntervalSeconds: 1,
		TimeoutSeconds:      2,
		MaxAttempts:         maxAttempts,
		BatchSize:           10,
	})
	d.now = func() time.Time { return now }

	return d
}

func TestDispatcher_DeliversAndSigns(t *testing.T) {
	payload := []byte(`{"event":"wallet.debited","data":{}}`)
	now := time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)

	var gotBody []byte
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	delivered := false
	repo := &mockDeliveryRepo{
		FindDueFn: func(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error) {
			return []domain.WebhookDelivery{{
				ID:         1,
				EndpointID: 2,
				DeliveryID: "dlv-1",
				Event:      domain.EventWalletDebited,
				Payload:    payload,
			}}, nil
		},
		FindEndpointByIDFn: func(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
			return domain.WebhookEndpoint{ID: id, URL: server.URL, Secret: "whsec_test"}, nil
		},
		MarkDeliveredFn: func(ctx context.Context, id uint, attempts, responseStatus int) error {
			delivered = true
			assert.Equal(t, uint(1), id)
			assert.Equal(t, 1, attempts)
			assert.Equal(t, http.StatusOK, responseStatus)
			return nil
		},
	}

	newTestDispatcher(repo, 5, now).DispatchDue(context.Background())

	require.True(t, delivered)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, Sign("whsec_test", payload), gotHeaders.Get(HeaderSignature))
	assert.Equal(t, domain.EventWalletDebited, gotHeaders.Get(HeaderEvent))
	assert.Equal(t, "dlv-1", gotHeaders.Get(HeaderDelivery))
}

func TestDispatcher_RetriesWithBackoff(t *testing.T) {
	now := time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tests := []struct {
		name       string
		attempts   int // attempts already made
		wantFailed bool
		wantNextIn time.Duration
	}{
		{name: "first failure", attempts: 0, wantFailed: false, wantNextIn: 2 * time.Second},
		{name: "third failure", attempts: 2, wantFailed: false, wantNextIn: 8 * time.Second},
		{name: "attempts exhausted", attempts: 4, wantFailed: true, wantNextIn: 32 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marked := false
			repo := &mockDeliveryRepo{
				FindDueFn: func(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error) {
					return []domain.WebhookDelivery{{
						ID:         1,
						EndpointID: 2,
						DeliveryID: "dlv-1",
						Event:      domain.EventWalletDebited,
						Payload:    []byte(`{}`),
						Attempts:   tt.attempts,
					}}, nil
				},
				FindEndpointByIDFn: func(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
					return domain.WebhookEndpoint{ID: id, URL: server.URL, Secret: "whsec_test"}, nil
				},
				MarkAttemptFailedFn: func(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error {
					marked = true
					assert.Equal(t, tt.attempts+1, attempts)
					assert.Equal(t, tt.wantFailed, failed)
					assert.Equal(t, now.Add(tt.wantNextIn), nextAttemptAt)
					assert.Equal(t, http.StatusInternalServerError, responseStatus)
					assert.NotEmpty(t, lastError)
					return nil
				},
			}

			newTestDispatcher(repo, 5, now).DispatchDue(context.Background())

			assert.True(t, marked)
		})
	}
}

func TestDispatcher_TransportError(t *testing.T) {
	now := time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)

	marked := false
	repo := &mockDeliveryRepo{
		FindDueFn: func(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error) {
			return []domain.WebhookDelivery{{
				ID:         1,
				EndpointID: 2,
				DeliveryID: "dlv-1",
				Event:      domain.EventWalletDebited,
				Payload:    []byte(`{}`),
			}}, nil
		},
		FindEndpointByIDFn: func(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
			// Nothing listens on this port.
			return domain.WebhookEndpoint{ID: id, URL: "http://127.0.0.1:1", Secret: "whsec_test"}, nil
		},
		MarkAttemptFailedFn: func(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error {
			marked = true
			assert.Equal(t, 1, attempts)
			assert.False(t, failed)
			assert.Zero(t, responseStatus)
			return nil
		},
	}

	newTestDispatcher(repo, 5, now).DispatchDue(context.Background())

	assert.True(t, marked)
}

func TestDispatcher_EndpointGone(t *testing.T) {
	now := time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)

	marked := false
	repo := &mockDeliveryRepo{
		FindDueFn: func(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error) {
			return []domain.WebhookDelivery{{ID: 1, EndpointID: 2, DeliveryID: "dlv-1", Attempts: 1}}, nil
		},
		FindEndpointByIDFn: func(ctx context.Context, id uint) (domain.WebhookEndpoint, error) {
			return domain.WebhookEndpoint{}, context.DeadlineExceeded
		},
		MarkAttemptFailedFn: func(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error {
			marked = true
			assert.True(t, failed, "a delivery without an endpoint is dead")
			assert.Equal(t, "endpoint gone", lastError)
			return nil
		},
	}

	newTestDispatcher(repo, 5, now).DispatchDue(context.Background())

	assert.True(t, marked)
}
