package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository/dao"
)

var (
	ErrTicketNotFound     = dao.ErrTicketNotFound
	ErrTicketTypeNotFound = dao.ErrTicketTypeNotFound
	ErrQuotaExhausted     = dao.ErrQuotaExhausted
)

type TicketDAO interface {
	InsertType(ctx context.Context, ticketType dao.TicketType) (dao.TicketType, error)
	FindTypeByID(ctx context.Context, id uint) (dao.TicketType, error)
	FindTypesByFestivalID(ctx context.Context, festivalID uint) ([]dao.TicketType, error)
	InsertTicket(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	FindByCode(ctx context.Context, festivalID uint, code string) (dao.Ticket, error)
	TransitionStatus(ctx context.Context, id uint, from, to string, scannedAt *time.Time, scannedBy *uint) (bool, error)
	FindByUserAndFestival(ctx context.Context, userID, festivalID uint) ([]dao.Ticket, error)
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) CreateType(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error) {
	created, err := r.dao.InsertType(ctx, r.typeDomainToDao(ticketType))
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("r.dao.InsertType -> %w", err)
	}

	return r.typeDaoToDomain(created), nil
}

func (r *TicketRepository) FindTypeByID(ctx context.Context, id uint) (domain.TicketType, error) {
	found, err := r.dao.FindTypeByID(ctx, id)
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("r.dao.FindTypeByID -> %w", err)
	}

	return r.typeDaoToDomain(found), nil
}

func (r *TicketRepository) FindTypesByFestivalID(ctx context.Context, festivalID uint) ([]domain.TicketType, error) {
	found, err := r.dao.FindTypesByFestivalID(ctx, festivalID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTypesByFestivalID -> %w", err)
	}

	types := make([]domain.TicketType, len(found))
	for i, t := range found {
		types[i] = r.typeDaoToDomain(t)
	}

	return types, nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.InsertTicket(ctx, r.ticketDomainToDao(ticket))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.InsertTicket -> %w", err)
	}

	return r.ticketDaoToDomain(created), nil
}

func (r *TicketRepository) FindByCode(ctx context.Context, festivalID uint, code string) (domain.Ticket, error) {
	found, err := r.dao.FindByCode(ctx, festivalID, code)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return r.ticketDaoToDomain(found), nil
}

// TransitionStatus reports whether the ticket actually moved from one
// status to the other.
func (r *TicketRepository) TransitionStatus(ctx context.Context, id uint, from, to domain.TicketStatus, scannedAt *time.Time, scannedBy *uint) (bool, error) {
	moved, err := r.dao.TransitionStatus(ctx, id, string(from), string(to), scannedAt, scannedBy)
	if err != nil {
		return false, fmt.Errorf("r.dao.TransitionStatus -> %w", err)
	}

	return moved, nil
}

func (r *TicketRepository) FindByUserAndFestival(ctx context.Context, userID, festivalID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindByUserAndFestival(ctx, userID, festivalID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserAndFestival -> %w", err)
	}

	tickets := make([]domain.Ticket, len(found))
	for i, t := range found {
		tickets[i] = r.ticketDaoToDomain(t)
	}

	return tickets, nil
}

func (r *TicketRepository) typeDomainToDao(t domain.TicketType) dao.TicketType {
	return dao.TicketType{
		ID:           t.ID,
		FestivalID:   t.FestivalID,
		Name:         t.Name,
		Description:  t.Description,
		Price:        t.Price,
		Quota:        t.Quota,
		Sold:         t.Sold,
		SaleStartsAt: t.SaleStartsAt,
		SaleEndsAt:   t.SaleEndsAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (r *TicketRepository) typeDaoToDomain(t dao.TicketType) domain.TicketType {
	return domain.TicketType{
		ID:           t.ID,
		FestivalID:   t.FestivalID,
		Name:         t.Name,
		Description:  t.Description,
		Price:        t.Price,
		Quota:        t.Quota,
		Sold:         t.Sold,
		SaleStartsAt: t.SaleStartsAt,
		SaleEndsAt:   t.SaleEndsAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (r *TicketRepository) ticketDomainToDao(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		ID:           t.ID,
		TicketTypeID: t.TicketTypeID,
		FestivalID:   t.FestivalID,
		UserID:       t.UserID,
		Code:         t.Code,
		Status:       string(t.Status),
		ScannedAt:    t.ScannedAt,
		ScannedBy:    t.ScannedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (r *TicketRepository) ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:           t.ID,
		TicketTypeID: t.TicketTypeID,
		FestivalID:   t.FestivalID,
		UserID:       t.UserID,
		Code:         t.Code,
		Status:       domain.TicketStatus(t.Status),
		ScannedAt:    t.ScannedAt,
		ScannedBy:    t.ScannedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
