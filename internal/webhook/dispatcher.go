// Package webhook delivers queued events to registered endpoints with
// signed requests and exponential retry.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/festivapp/festival-api/internal/config"
	"github.com/festivapp/festival-api/internal/domain"
)

// Request headers set on every delivery.
const (
	HeaderSignature = "X-Festival-Signature"
	HeaderEvent     = "X-Festival-Event"
	HeaderDelivery  = "X-Festival-Delivery"
)

// DeliveryRepository is the slice of storage the dispatcher needs.
type DeliveryRepository interface {
	FindDue(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error)
	FindEndpointByID(ctx context.Context, id uint) (domain.WebhookEndpoint, error)
	MarkDelivered(ctx context.Context, id uint, attempts, responseStatus int) error
	MarkAttemptFailed(ctx context.Context, id uint, attempts int, failed bool, nextAttemptAt time.Time, lastError string, responseStatus int) error
}

// Dispatcher polls the delivery queue and POSTs pending deliveries to
// their endpoints. A non-2xx response or a transport error counts as a
// failed attempt; attempt n is retried after 2^n seconds, and after
// MaxAttempts the delivery is marked FAILED for good.
type Dispatcher struct {
	repo         DeliveryRepository
	client       *http.Client
	pollInterval time.Duration
	maxAttempts  int
	batchSize    int
	now          func() time.Time
}

func NewDispatcher(repo DeliveryRepository, conf *config.WebhookConfig) *Dispatcher {
	return &Dispatcher{
		repo: repo,
		client: &http.Client{
			Timeout: time.Duration(conf.TimeoutSeconds) * time.Second,
		},
		pollInterval: time.Duration(conf.PollIntervalSeconds) * time.Second,
		maxAttempts:  conf.MaxAttempts,
		batchSize:    conf.BatchSize,
		now:          time.Now,
	}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	zap.L().Info("webhook dispatcher started",
		zap.Duration("pollInterval", d.pollInterval),
		zap.Int("maxAttempts", d.maxAttempts))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("webhook dispatcher stopped")
			return
		case <-ticker.C:
			d.DispatchDue(ctx)
		}
	}
}

// DispatchDue sends one batch of due deliveries. It is exported so a
// poll can also be triggered outside the ticker loop.
func (d *Dispatcher) DispatchDue(ctx context.Context) {
	deliveries, err := d.repo.FindDue(ctx, d.now(), d.batchSize)
	if err != nil {
		zap.L().Error("failed to load due deliveries", zap.Error(err))
		return
	}

	for _, delivery := range deliveries {
		if err = d.dispatch(ctx, delivery); err != nil {
			zap.L().Error("failed to dispatch delivery",
				zap.String("deliveryID", delivery.DeliveryID),
				zap.Error(err))
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, delivery domain.WebhookDelivery) error {
	endpoint, err := d.repo.FindEndpointByID(ctx, delivery.EndpointID)
	if err != nil {
		// The endpoint was deleted after the delivery was queued.
		return d.repo.MarkAttemptFailed(ctx, delivery.ID, delivery.Attempts+1, true, d.now(), "endpoint gone", 0)
	}

	attempt := delivery.Attempts + 1
	status, sendErr := d.send(ctx, endpoint, delivery)
	if sendErr == nil {
		zap.L().Info("webhook delivered",
			zap.String("deliveryID", delivery.DeliveryID),
			zap.String("event", delivery.Event),
			zap.Int("attempt", attempt))

		return d.repo.MarkDelivered(ctx, delivery.ID, attempt, status)
	}

	failed := attempt >= d.maxAttempts
	nextAttemptAt := d.now().Add(time.Duration(1<<uint(attempt)) * time.Second)

	zap.L().Warn("webhook attempt failed",
		zap.String("deliveryID", delivery.DeliveryID),
		zap.String("url", endpoint.URL),
		zap.Int("attempt", attempt),
		zap.Bool("exhausted", failed),
		zap.Error(sendErr))

	return d.repo.MarkAttemptFailed(ctx, delivery.ID, attempt, failed, nextAttemptAt, sendErr.Error(), status)
}

func (d *Dispatcher) send(ctx context.Context, endpoint domain.WebhookEndpoint, delivery domain.WebhookDelivery) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL, bytes.NewReader(delivery.Payload))
	if err != nil {
		return 0, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderSignature, Sign(endpoint.Secret, delivery.Payload))
	req.Header.Set(HeaderEvent, delivery.Event)
	req.Header.Set(HeaderDelivery, delivery.DeliveryID)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("d.client.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}

	return resp.StatusCode, nil
}
