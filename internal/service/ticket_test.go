package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festivapp/festival-api/internal/domain"
)

type mockTicketRepo struct {
	CreateTypeFn            func(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error)
	FindTypeByIDFn          func(ctx context.Context, id uint) (domain.TicketType, error)
	FindTypesByFestivalIDFn func(ctx context.Context, festivalID uint) ([]domain.TicketType, error)
	CreateTicketFn          func(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	FindByCodeFn            func(ctx context.Context, festivalID uint, code string) (domain.Ticket, error)
	TransitionStatusFn      func(ctx context.Context, id uint, from, to domain.TicketStatus, scannedAt *time.Time, scannedBy *uint) (bool, error)
	FindByUserAndFestivalFn func(ctx context.Context, userID, festivalID uint) ([]domain.Ticket, error)
}

func (m *mockTicketRepo) CreateType(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error) {
	return m.CreateTypeFn(ctx, ticketType)
}

func (m *mockTicketRepo) FindTypeByID(ctx context.Context, id uint) (domain.TicketType, error) {
	return m.FindTypeByIDFn(ctx, id)
}

func (m *mockTicketRepo) FindTypesByFestivalID(ctx context.Context, festivalID uint) ([]domain.TicketType, error) {
	return m.FindTypesByFestivalIDFn(ctx, festivalID)
}

func (m *mockTicketRepo) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	return m.CreateTicketFn(ctx, ticket)
}

func (m *mockTicketRepo) FindByCode(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
	return m.FindByCodeFn(ctx, festivalID, code)
}

func (m *mockTicketRepo) TransitionStatus(ctx context.Context, id uint, from, to domain.TicketStatus, scannedAt *time.Time, scannedBy *uint) (bool, error) {
	return m.TransitionStatusFn(ctx, id, from, to, scannedAt, scannedBy)
}

func (m *mockTicketRepo) FindByUserAndFestival(ctx context.Context, userID, festivalID uint) ([]domain.Ticket, error) {
	return m.FindByUserAndFestivalFn(ctx, userID, festivalID)
}

func newTicketServiceAt(repo TicketRepository, payments PaymentProvider, publisher EventPublisher, now time.Time) *TicketService {
	svc := NewTicketService(repo, payments, publisher)
	svc.now = func() time.Time { return now }

	return svc
}

func TestTicketService_PurchaseTicket(t *testing.T) {
	now := time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)
	openType := domain.TicketType{
		ID:           3,
		FestivalID:   5,
		Price:        4500,
		Quota:        100,
		Sold:         10,
		SaleStartsAt: now.Add(-time.Hour),
		SaleEndsAt:   now.Add(time.Hour),
	}

	t.Run("happy path", func(t *testing.T) {
		var created domain.Ticket
		repo := &mockTicketRepo{
			FindTypeByIDFn: func(ctx context.Context, id uint) (domain.TicketType, error) {
				return openType, nil
			},
			CreateTicketFn: func(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
				ticket.ID = 77
				created = ticket
				return ticket, nil
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				assert.Equal(t, int64(4500), amount)
				return "pi_ticket", nil
			},
		}
		publisher := &recordingPublisher{}
		svc := newTicketServiceAt(repo, payments, publisher, now)

		ticket, err := svc.PurchaseTicket(context.Background(), 3, 8, "pm_card")

		require.NoError(t, err)
		assert.Equal(t, uint(77), ticket.ID)
		assert.Equal(t, domain.TicketValid, created.Status)
		assert.NotEmpty(t, created.Code)
		assert.Equal(t, uint(5), created.FestivalID)
		assert.Equal(t, []string{domain.EventTicketPurchased}, publisher.events)
	})

	t.Run("free tickets skip the payment provider", func(t *testing.T) {
		freeType := openType
		freeType.Price = 0
		repo := &mockTicketRepo{
			FindTypeByIDFn: func(ctx context.Context, id uint) (domain.TicketType, error) {
				return freeType, nil
			},
			CreateTicketFn: func(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
				return ticket, nil
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				t.Fatal("free ticket must not be charged")
				return "", nil
			},
		}
		svc := newTicketServiceAt(repo, payments, nil, now)

		_, err := svc.PurchaseTicket(context.Background(), 3, 8, "")

		assert.NoError(t, err)
	})

	t.Run("before the sale window", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindTypeByIDFn: func(ctx context.Context, id uint) (domain.TicketType, error) {
				return openType, nil
			},
		}
		svc := newTicketServiceAt(repo, nil, nil, openType.SaleStartsAt.Add(-time.Minute))

		_, err := svc.PurchaseTicket(context.Background(), 3, 8, "pm_card")

		assert.ErrorIs(t, err, ErrSaleNotOpen)
	})

	t.Run("after the sale window", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindTypeByIDFn: func(ctx context.Context, id uint) (domain.TicketType, error) {
				return openType, nil
			},
		}
		svc := newTicketServiceAt(repo, nil, nil, openType.SaleEndsAt.Add(time.Minute))

		_, err := svc.PurchaseTicket(context.Background(), 3, 8, "pm_card")

		assert.ErrorIs(t, err, ErrSaleNotOpen)
	})

	t.Run("sold out before charging", func(t *testing.T) {
		soldOut := openType
		soldOut.Sold = soldOut.Quota
		repo := &mockTicketRepo{
			FindTypeByIDFn: func(ctx context.Context, id uint) (domain.TicketType, error) {
				return soldOut, nil
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				t.Fatal("sold-out type must not be charged")
				return "", nil
			},
		}
		svc := newTicketServiceAt(repo, payments, nil, now)

		_, err := svc.PurchaseTicket(context.Background(), 3, 8, "pm_card")

		assert.ErrorIs(t, err, ErrQuotaExhausted)
	})

	t.Run("zero quota is unlimited", func(t *testing.T) {
		unlimited := openType
		unlimited.Quota = 0
		unlimited.Sold = 5000
		repo := &mockTicketRepo{
			FindTypeByIDFn: func(ctx context.Context, id uint) (domain.TicketType, error) {
				return unlimited, nil
			},
			CreateTicketFn: func(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
				return ticket, nil
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				return "pi_ticket", nil
			},
		}
		svc := newTicketServiceAt(repo, payments, nil, now)

		_, err := svc.PurchaseTicket(context.Background(), 3, 8, "pm_card")

		assert.NoError(t, err)
	})

	t.Run("last seat lost to a racing buyer", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindTypeByIDFn: func(ctx context.Context, id uint) (domain.TicketType, error) {
				return openType, nil
			},
			CreateTicketFn: func(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
				return domain.Ticket{}, ErrQuotaExhausted
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				return "pi_ticket", nil
			},
		}
		svc := newTicketServiceAt(repo, payments, nil, now)

		_, err := svc.PurchaseTicket(context.Background(), 3, 8, "pm_card")

		assert.ErrorIs(t, err, ErrQuotaExhausted)
	})

	t.Run("declined card", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindTypeByIDFn: func(ctx context.Context, id uint) (domain.TicketType, error) {
				return openType, nil
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				return "", errors.New("card_declined")
			},
		}
		svc := newTicketServiceAt(repo, payments, nil, now)

		_, err := svc.PurchaseTicket(context.Background(), 3, 8, "pm_card")

		assert.ErrorIs(t, err, ErrPaymentFailed)
	})
}

func TestTicketService_ScanTicket(t *testing.T) {
	now := time.Date(2026, 7, 11, 12, 0, 0, 0, time.UTC)

	t.Run("valid ticket scans once", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindByCodeFn: func(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
				return domain.Ticket{ID: 1, FestivalID: festivalID, Code: code, Status: domain.TicketValid}, nil
			},
			TransitionStatusFn: func(ctx context.Context, id uint, from, to domain.TicketStatus, scannedAt *time.Time, scannedBy *uint) (bool, error) {
				assert.Equal(t, domain.TicketValid, from)
				assert.Equal(t, domain.TicketUsed, to)
				require.NotNil(t, scannedAt)
				require.NotNil(t, scannedBy)
				return true, nil
			},
		}
		publisher := &recordingPublisher{}
		svc := newTicketServiceAt(repo, nil, publisher, now)

		ticket, err := svc.ScanTicket(context.Background(), 5, "code-abc", 9)

		require.NoError(t, err)
		assert.Equal(t, domain.TicketUsed, ticket.Status)
		require.NotNil(t, ticket.ScannedAt)
		assert.Equal(t, now, *ticket.ScannedAt)
		assert.Equal(t, []string{domain.EventTicketScanned}, publisher.events)
	})

	t.Run("second scan loses", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindByCodeFn: func(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
				return domain.Ticket{ID: 1, Status: domain.TicketValid}, nil
			},
			TransitionStatusFn: func(ctx context.Context, id uint, from, to domain.TicketStatus, scannedAt *time.Time, scannedBy *uint) (bool, error) {
				// Another gate got there first.
				return false, nil
			},
		}
		svc := newTicketServiceAt(repo, nil, nil, now)

		_, err := svc.ScanTicket(context.Background(), 5, "code-abc", 9)

		assert.ErrorIs(t, err, ErrTicketAlreadyUsed)
	})

	t.Run("cancelled ticket", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindByCodeFn: func(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
				return domain.Ticket{ID: 1, Status: domain.TicketCancelled}, nil
			},
		}
		svc := newTicketServiceAt(repo, nil, nil, now)

		_, err := svc.ScanTicket(context.Background(), 5, "code-abc", 9)

		assert.ErrorIs(t, err, ErrTicketCancelled)
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindByCodeFn: func(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
				return domain.Ticket{}, ErrTicketNotFound
			},
		}
		svc := newTicketServiceAt(repo, nil, nil, now)

		_, err := svc.ScanTicket(context.Background(), 5, "nope", 9)

		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestTicketService_CancelTicket(t *testing.T) {
	now := time.Date(2026, 7, 11, 12, 0, 0, 0, time.UTC)

	t.Run("valid ticket cancels", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindByCodeFn: func(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
				return domain.Ticket{ID: 1, Status: domain.TicketValid}, nil
			},
			TransitionStatusFn: func(ctx context.Context, id uint, from, to domain.TicketStatus, scannedAt *time.Time, scannedBy *uint) (bool, error) {
				assert.Equal(t, domain.TicketCancelled, to)
				assert.Nil(t, scannedAt)
				return true, nil
			},
		}
		publisher := &recordingPublisher{}
		svc := newTicketServiceAt(repo, nil, publisher, now)

		ticket, err := svc.CancelTicket(context.Background(), 5, "code-abc")

		require.NoError(t, err)
		assert.Equal(t, domain.TicketCancelled, ticket.Status)
		assert.Equal(t, []string{domain.EventTicketCancelled}, publisher.events)
	})

	t.Run("used ticket stays used", func(t *testing.T) {
		repo := &mockTicketRepo{
			FindByCodeFn: func(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
				return domain.Ticket{ID: 1, Status: domain.TicketUsed}, nil
			},
		}
		svc := newTicketServiceAt(repo, nil, nil, now)

		_, err := svc.CancelTicket(context.Background(), 5, "code-abc")

		assert.ErrorIs(t, err, ErrTicketAlreadyUsed)
	})
}
