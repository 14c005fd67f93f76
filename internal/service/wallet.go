package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository"
)

var (
	ErrWalletNotFound        = repository.ErrWalletNotFound
	ErrWalletFrozen          = repository.ErrWalletFrozen
	ErrInsufficientBalance   = repository.ErrInsufficientBalance
	ErrInsufficientStock     = repository.ErrInsufficientStock
	ErrTransactionNotFound   = repository.ErrTransactionNotFound
	ErrRefundExceedsOriginal = repository.ErrRefundExceedsOriginal
	ErrStandClosed           = errors.New("stand is not active")
	ErrPaymentFailed         = errors.New("payment failed")
)

type WalletRepository interface {
	FindOrCreate(ctx context.Context, userID, festivalID uint, qrCode string) (domain.Wallet, error)
	FindByID(ctx context.Context, id uint) (domain.Wallet, error)
	FindByUserAndFestival(ctx context.Context, userID, festivalID uint) (domain.Wallet, error)
	FindByQRCode(ctx context.Context, qrCode string) (domain.Wallet, error)
	Credit(ctx context.Context, walletID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error)
	Debit(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error)
	Refund(ctx context.Context, walletID, originalID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error)
	UpdateStatus(ctx context.Context, walletID uint, status domain.WalletStatus) (domain.Wallet, error)
	ListTransactions(ctx context.Context, walletID uint, limit, offset int) ([]domain.WalletTransaction, int64, error)
}

// PaymentProvider charges a card and returns the provider's reference
// for the payment.
type PaymentProvider interface {
	Charge(ctx context.Context, amount int64, paymentMethodID string) (string, error)
}

// EventPublisher fans a domain event out to the festival's webhook
// endpoints.
type EventPublisher interface {
	Publish(ctx context.Context, festivalID uint, event string, payload any) error
}

// TransactionBroadcaster pushes a committed transaction to live
// listeners, e.g. stand dashboards.
type TransactionBroadcaster interface {
	BroadcastTransaction(standID uint, entry domain.WalletTransaction)
}

// PINValidator checks a staff member's PIN before a POS debit.
type PINValidator interface {
	ValidateStaffPIN(ctx context.Context, standID, userID uint, pin string) error
}

type WalletService struct {
	repo        WalletRepository
	standRepo   StandRepository
	pins        PINValidator
	payments    PaymentProvider
	publisher   EventPublisher
	broadcaster TransactionBroadcaster
}

func NewWalletService(repo WalletRepository, standRepo StandRepository, pins PINValidator, payments PaymentProvider, publisher EventPublisher, broadcaster TransactionBroadcaster) *WalletService {
	return &WalletService{
		repo:        repo,
		standRepo:   standRepo,
		pins:        pins,
		payments:    payments,
		publisher:   publisher,
		broadcaster: broadcaster,
	}
}

// GetOrCreateWallet returns the user's wallet for the festival, creating
// an empty one on first use.
func (s *WalletService) GetOrCreateWallet(ctx context.Context, userID, festivalID uint) (domain.Wallet, error) {
	wallet, err := s.repo.FindOrCreate(ctx, userID, festivalID, uuid.NewString())
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("s.repo.FindOrCreate -> %w", err)
	}

	return wallet, nil
}

func (s *WalletService) GetWallet(ctx context.Context, id uint) (domain.Wallet, error) {
	wallet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return wallet, nil
}

// GetWalletByQRCode resolves a wallet from the code a POS device scans
// off the visitor's bracelet or phone.
func (s *WalletService) GetWalletByQRCode(ctx context.Context, qrCode string) (domain.Wallet, error) {
	wallet, err := s.repo.FindByQRCode(ctx, qrCode)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("s.repo.FindByQRCode -> %w", err)
	}

	return wallet, nil
}

// TopUp charges the payment method and credits the wallet with the
// bought tokens. The credit only happens after the charge succeeded;
// the provider reference is kept on the ledger row.
func (s *WalletService) TopUp(ctx context.Context, walletID uint, amount int64, paymentMethodID string) (domain.Wallet, domain.WalletTransaction, error) {
	wallet, err := s.repo.FindByID(ctx, walletID)
	if err != nil {
		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if wallet.Status != domain.WalletActive {
		return domain.Wallet{}, domain.WalletTransaction{}, ErrWalletFrozen
	}

	reference, err := s.payments.Charge(ctx, amount, paymentMethodID)
	if err != nil {
		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	wallet, entry, err := s.repo.Credit(ctx, walletID, domain.WalletTransaction{
		Type:      domain.WalletCredit,
		Amount:    amount,
		Reference: reference,
		Note:      "top-up",
	})
	if err != nil {
		// The card was charged but the credit failed; this needs
		// a human, so it is logged loudly before returning.
		zap.L().Error("top-up charged but credit failed",
			zap.Uint("walletID", walletID),
			zap.String("reference", reference),
			zap.Error(err))

		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("s.repo.Credit -> %w", err)
	}

	s.publish(ctx, wallet.FestivalID, domain.EventWalletCredited, entry)

	return wallet, entry, nil
}

// Credit adds tokens without a card payment (staff adjustment, promo).
func (s *WalletService) Credit(ctx context.Context, walletID uint, amount int64, note string, performedBy *uint) (domain.Wallet, domain.WalletTransaction, error) {
	wallet, entry, err := s.repo.Credit(ctx, walletID, domain.WalletTransaction{
		Type:        domain.WalletCredit,
		Amount:      amount,
		Note:        note,
		PerformedBy: performedBy,
	})
	if err != nil {
		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("s.repo.Credit -> %w", err)
	}

	s.publish(ctx, wallet.FestivalID, domain.EventWalletCredited, entry)

	return wallet, entry, nil
}

// DebitRequest is a purchase at a stand, paid from the wallet.
type DebitRequest struct {
	WalletID    uint
	StandID     uint
	ProductID   *uint
	Quantity    int
	Amount      int64
	PerformedBy uint
	PIN         string
}

// Debit runs a stand purchase. The stand must be active and the
// performing user must be assigned to its staff; when the stand
// requires a PIN the staff member's PIN is validated on top of that.
// When a product is involved its price decides the amount and its stock
// is decremented with the balance, atomically.
func (s *WalletService) Debit(ctx context.Context, req DebitRequest) (domain.Wallet, domain.WalletTransaction, error) {
	stand, err := s.standRepo.FindByID(ctx, req.StandID)
	if err != nil {
		if errors.Is(err, repository.ErrStandNotFound) {
			return domain.Wallet{}, domain.WalletTransaction{}, ErrStandNotFound
		}

		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("s.standRepo.FindByID -> %w", err)
	}
	if stand.Status != domain.StandActive {
		return domain.Wallet{}, domain.WalletTransaction{}, ErrStandClosed
	}

	if _, err = s.standRepo.FindStaffByStandAndUser(ctx, req.StandID, req.PerformedBy); err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return domain.Wallet{}, domain.WalletTransaction{}, ErrStaffNotFound
		}

		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("s.standRepo.FindStaffByStandAndUser -> %w", err)
	}

	if stand.Settings.RequiresPIN {
		if err = s.pins.ValidateStaffPIN(ctx, req.StandID, req.PerformedBy, req.PIN); err != nil {
			return domain.Wallet{}, domain.WalletTransaction{}, err
		}
	}

	amount := req.Amount
	quantity := req.Quantity
	if req.ProductID != nil {
		if quantity <= 0 {
			quantity = 1
		}

		product, err := s.standRepo.FindProductByID(ctx, *req.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domain.Wallet{}, domain.WalletTransaction{}, ErrProductNotFound
			}

			return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("s.standRepo.FindProductByID -> %w", err)
		}
		if product.StandID != req.StandID {
			return domain.Wallet{}, domain.WalletTransaction{}, ErrProductNotFound
		}

		amount = product.Price * int64(quantity)
	}

	performedBy := req.PerformedBy
	wallet, entry, err := s.repo.Debit(ctx, req.WalletID, domain.WalletTransaction{
		Type:        domain.WalletDebit,
		Amount:      amount,
		StandID:     &req.StandID,
		PerformedBy: &performedBy,
	}, req.ProductID, quantity)
	if err != nil {
		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("s.repo.Debit -> %w", err)
	}

	s.publish(ctx, wallet.FestivalID, domain.EventWalletDebited, entry)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTransaction(req.StandID, entry)
	}

	return wallet, entry, nil
}

// Refund reverses (part of) a debit. The reference on the new ledger row
// points at the original transaction, and the sum of refunds against one
// debit is capped at the debited amount.
func (s *WalletService) Refund(ctx context.Context, walletID, transactionID uint, amount int64, note string, performedBy *uint) (domain.Wallet, domain.WalletTransaction, error) {
	wallet, entry, err := s.repo.Refund(ctx, walletID, transactionID, domain.WalletTransaction{
		Type:        domain.WalletRefund,
		Amount:      amount,
		Reference:   fmt.Sprintf("%d", transactionID),
		Note:        note,
		PerformedBy: performedBy,
	})
	if err != nil {
		return domain.Wallet{}, domain.WalletTransaction{}, fmt.Errorf("s.repo.Refund -> %w", err)
	}

	s.publish(ctx, wallet.FestivalID, domain.EventWalletRefunded, entry)

	return wallet, entry, nil
}

func (s *WalletService) Freeze(ctx context.Context, walletID uint) (domain.Wallet, error) {
	wallet, err := s.repo.UpdateStatus(ctx, walletID, domain.WalletFrozen)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	s.publish(ctx, wallet.FestivalID, domain.EventWalletFrozen, wallet)

	return wallet, nil
}

func (s *WalletService) Unfreeze(ctx context.Context, walletID uint) (domain.Wallet, error) {
	wallet, err := s.repo.UpdateStatus(ctx, walletID, domain.WalletActive)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	s.publish(ctx, wallet.FestivalID, domain.EventWalletUnfrozen, wallet)

	return wallet, nil
}

func (s *WalletService) ListTransactions(ctx context.Context, walletID uint, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	entries, total, err := s.repo.ListTransactions(ctx, walletID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.ListTransactions -> %w", err)
	}

	return entries, total, nil
}

// publish fans the event out; a publish failure never fails the money
// movement that already committed.
func (s *WalletService) publish(ctx context.Context, festivalID uint, event string, payload any) {
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
