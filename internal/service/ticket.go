package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository"
)

var (
	ErrTicketNotFound     = repository.ErrTicketNotFound
	ErrTicketTypeNotFound = repository.ErrTicketTypeNotFound
	ErrQuotaExhausted     = repository.ErrQuotaExhausted
	ErrSaleNotOpen        = errors.New("ticket sale is not open")
	ErrTicketAlreadyUsed  = errors.New("ticket already used")
	ErrTicketCancelled    = errors.New("ticket is cancelled")
)

type TicketRepository interface {
	CreateType(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error)
	FindTypeByID(ctx context.Context, id uint) (domain.TicketType, error)
	FindTypesByFestivalID(ctx context.Context, festivalID uint) ([]domain.TicketType, error)
	CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	FindByCode(ctx context.Context, festivalID uint, code string) (domain.Ticket, error)
	TransitionStatus(ctx context.Context, id uint, from, to domain.TicketStatus, scannedAt *time.Time, scannedBy *uint) (bool, error)
	FindByUserAndFestival(ctx context.Context, userID, festivalID uint) ([]domain.Ticket, error)
}

type TicketService struct {
	repo      TicketRepository
	payments  PaymentProvider
	publisher EventPublisher
	now       func() time.Time
}

func NewTicketService(repo TicketRepository, payments PaymentProvider, publisher EventPublisher) *TicketService {
	return &TicketService{
		repo:      repo,
		payments:  payments,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *TicketService) CreateTicketType(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error) {
	created, err := s.repo.CreateType(ctx, ticketType)
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("s.repo.CreateType -> %w", err)
	}

	return created, nil
}

func (s *TicketService) GetTicketType(ctx context.Context, id uint) (domain.TicketType, error) {
	ticketType, err := s.repo.FindTypeByID(ctx, id)
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("s.repo.FindTypeByID -> %w", err)
	}

	return ticketType, nil
}

func (s *TicketService) ListTicketTypes(ctx context.Context, festivalID uint) ([]domain.TicketType, error) {
	types, err := s.repo.FindTypesByFestivalID(ctx, festivalID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTypesByFestivalID -> %w", err)
	}

	return types, nil
}

// PurchaseTicket sells one ticket of the given type to the user. The
// sale window is checked first, then the card is charged, then the
// ticket is created; the quota is enforced inside the insert so two
// buyers cannot share the last seat.
func (s *TicketService) PurchaseTicket(ctx context.Context, ticketTypeID, userID uint, paymentMethodID string) (domain.Ticket, error) {
	ticketType, err := s.repo.FindTypeByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketTypeNotFound) {
			return domain.Ticket{}, ErrTicketTypeNotFound
		}

		return domain.Ticket{}, fmt.Errorf("s.repo.FindTypeByID -> %w", err)
	}

	now := s.now()
	if now.Before(ticketType.SaleStartsAt) || now.After(ticketType.SaleEndsAt) {
		return domain.Ticket{}, ErrSaleNotOpen
	}
	if ticketType.Quota > 0 && ticketType.Sold >= ticketType.Quota {
		return domain.Ticket{}, ErrQuotaExhausted
	}

	if ticketType.Price > 0 {
		if _, err = s.payments.Charge(ctx, ticketType.Price, paymentMethodID); err != nil {
			return domain.Ticket{}, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
	}

	ticket, err := s.repo.CreateTicket(ctx, domain.Ticket{
		TicketTypeID: ticketTypeID,
		FestivalID:   ticketType.FestivalID,
		UserID:       userID,
		Code:         uuid.NewString(),
		Status:       domain.TicketValid,
	})
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExhausted) {
			// The charge went through but the last seat was taken in
			// the meantime. Needs a manual refund.
			zap.L().Error("ticket charged but quota exhausted",
				zap.Uint("ticketTypeID", ticketTypeID),
				zap.Uint("userID", userID))

			return domain.Ticket{}, ErrQuotaExhausted
		}

		return domain.Ticket{}, fmt.Errorf("s.repo.CreateTicket -> %w", err)
	}

	s.publish(ctx, ticket.FestivalID, domain.EventTicketPurchased, ticket)

	return ticket, nil
}

func (s *TicketService) GetTicketByCode(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
	ticket, err := s.repo.FindByCode(ctx, festivalID, code)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	return ticket, nil
}

// ScanTicket marks a ticket used at the gate. Only a VALID ticket can
// be scanned; the status transition happens in a single conditional
// update, so scanning the same code twice fails the second time even
// when two gates race.
func (s *TicketService) ScanTicket(ctx context.Context, festivalID uint, code string, scannedBy uint) (domain.Ticket, error) {
	ticket, err := s.repo.FindByCode(ctx, festivalID, code)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return domain.Ticket{}, ErrTicketNotFound
		}

		return domain.Ticket{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	if ticket.Status == domain.TicketCancelled {
		return domain.Ticket{}, ErrTicketCancelled
	}

	scannedAt := s.now()
	moved, err := s.repo.TransitionStatus(ctx, ticket.ID, domain.TicketValid, domain.TicketUsed, &scannedAt, &scannedBy)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.TransitionStatus -> %w", err)
	}
	if !moved {
		return domain.Ticket{}, ErrTicketAlreadyUsed
	}

	ticket.Scan(scannedBy, scannedAt)
	s.publish(ctx, ticket.FestivalID, domain.EventTicketScanned, ticket)

	return ticket, nil
}

// CancelTicket voids a VALID ticket. Used tickets stay used.
func (s *TicketService) CancelTicket(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
	ticket, err := s.repo.FindByCode(ctx, festivalID, code)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return domain.Ticket{}, ErrTicketNotFound
		}

		return domain.Ticket{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	if ticket.Status == domain.TicketUsed {
		return domain.Ticket{}, ErrTicketAlreadyUsed
	}

	moved, err := s.repo.TransitionStatus(ctx, ticket.ID, domain.TicketValid, domain.TicketCancelled, nil, nil)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.TransitionStatus -> %w", err)
	}
	if !moved {
		return domain.Ticket{}, ErrTicketCancelled
	}

	ticket.Cancel()
	s.publish(ctx, ticket.FestivalID, domain.EventTicketCancelled, ticket)

	return ticket, nil
}

func (s *TicketService) GetUserTickets(ctx context.Context, userID, festivalID uint) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindByUserAndFestival(ctx, userID, festivalID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserAndFestival -> %w", err)
	}

	return tickets, nil
}

func (s *TicketService) publish(ctx context.Context, festivalID uint, event string, payload any) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, festivalID, event, payload); err != nil {
		zap.L().Warn("failed to publish event",
			zap.String("event", event),
			zap.Uint("festivalID", festivalID),
			zap.Error(err))
	}
}
