package repository

import (
	"context"
	"fmt"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository/dao"
)

var (
	ErrWalletNotFound        = dao.ErrWalletNotFound
	ErrWalletFrozen          = dao.ErrWalletFrozen
	ErrInsufficientBalance   = dao.ErrInsufficientBalance
	ErrInsufficientStock     = dao.ErrInsufficientStock
	ErrTransactionNotFound   = dao.ErrTransactionNotFound
	ErrRefundExceedsOriginal = dao.ErrRefundExceedsOriginal
)

type WalletDAO interface {
	FindOrCreate(ctx context.Context, userID, festivalID uint, qrCode string) (dao.Wallet, error)
	FindByID(ctx context.Context, id uint) (dao.Wallet, error)
	FindByUserAndFestival(ctx context.Context, userID, festivalID uint) (dao.Wallet, error)
	FindByQRCode(ctx context.Context, qrCode string) (dao.Wallet, error)
	Credit(ctx context.Context, walletID uint, entry dao.WalletTransaction) (dao.Wallet, dao.WalletTransaction, error)
	Debit(ctx context.Context, walletID uint, entry dao.WalletTransaction, productID *uint, quantity int) (dao.Wallet, dao.WalletTransaction, error)
	Refund(ctx context.Context, walletID, originalID uint, entry dao.WalletTransaction) (dao.Wallet, dao.WalletTransaction, error)
	UpdateStatus(ctx context.Context, walletID uint, status string) (dao.Wallet, error)
	ListTransactions(ctx context.Context, walletID uint, limit, offset int) ([]dao.WalletTransaction, int64, error)
}

type WalletRepository struct {
	dao WalletDAO
}

func NewWalletRepository(dao WalletDAO) *WalletRepository {
	return &WalletRepository{
		dao: dao,
	}
}

func (r *WalletRepository) FindOrCreate(ctx context.Context, userID, festivalID uint, qrCode string) (domain.Wallet, error) {
	wallet, err := r.dao.FindOrCreate(ctx, userID, festivalID, qrCode)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("r.dao.FindOrCreate -> %w", err)
	}

	return r.daoToDomain(wallet), nil
}

func (r *WalletRepository) FindByID(ctx context.Context, id uint) (domain.Wallet, error) {
	wallet, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(wallet), nil
}

func (r *WalletRepository) FindByUserAndFestival(ctx context.Context, userID, festivalID uint) (domain.Wallet, error) {
	wallet, err := r.dao.FindByUserAndFestival(ctx, userID, festivalID)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("r.dao.FindByUserAndFestival -> %w", err)
	}

	return r.daoToDomain(wallet), nil
}

func (r *WalletRepository) FindByQRCode(ctx context.Context, qrCode string) (domain.Wallet, error) {
	wallet, err := r.dao.FindByQRCode(ctx, qrCode)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("r.dao.FindByQRCode -> %w", err)
	}

	return r.daoToDomain(wallet), nil
}

func (r *WalletRepository) Credit(ctx context.Context, walletID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error) {
	wallet, created, err := r.dao.Credit(ctx, walletID, r.entryDomainToDao(entry))
	if err != nil {
		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("r.dao.Credit -> %w", err)
	}

	return r.daoToDomain(wallet), r.entryDaoToDomain(created), nil
}

func (r *WalletRepository) Debit(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error) {
	wallet, created, err := r.dao.Debit(ctx, walletID, r.entryDomainToDao(entry), productID, quantity)
	if err != nil {
		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("r.dao.Debit -> %w", err)
	}

	return r.daoToDomain(wallet), r.entryDaoToDomain(created), nil
}

func (r *WalletRepository) Refund(ctx context.Context, walletID, originalID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error) {
	wallet, created, err := r.dao.Refund(ctx, walletID, originalID, r.entryDomainToDao(entry))
	if err != nil {
		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("r.dao.Refund -> %w", err)
	}

	return r.daoToDomain(wallet), r.entryDaoToDomain(created), nil
}

func (r *WalletRepository) UpdateStatus(ctx context.Context, walletID uint, status domain.WalletStatus) (domain.Wallet, error) {
	wallet, err := r.dao.UpdateStatus(ctx, walletID, string(status))
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.daoToDomain(wallet), nil
}

func (r *WalletRepository) ListTransactions(ctx context.Context, walletID uint, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	found, total, err := r.dao.ListTransactions(ctx, walletID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListTransactions -> %w", err)
	}

	entries := make([]domain.WalletTransaction, len(found))
	for i, e := range found {
		entries[i] = r.entryDaoToDomain(e)
	}

	return entries, total, nil
}

func (r *WalletRepository) daoToDomain(w dao.Wallet) domain.Wallet {
	return domain.Wallet{
		ID:         w.ID,
		UserID:     w.UserID,
		FestivalID: w.FestivalID,
		Balance:    w.Balance,
		Status:     domain.WalletStatus(w.Status),
		QRCode:     w.QRCode,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func (r *WalletRepository) entryDomainToDao(e domain.WalletTransaction) dao.WalletTransaction {
	return dao.WalletTransaction{
		ID:          e.ID,
		WalletID:    e.WalletID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		StandID:     e.StandID,
		PerformedBy: e.PerformedBy,
		Reference:   e.Reference,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}

func (r *WalletRepository) entryDaoToDomain(e dao.WalletTransaction) domain.WalletTransaction {
	return domain.WalletTransaction{
		ID:          e.ID,
		WalletID:    e.WalletID,
		Type:        domain.WalletTransactionType(e.Type),
		Amount:      e.Amount,
		StandID:     e.StandID,
		PerformedBy: e.PerformedBy,
		Reference:   e.Reference,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}
