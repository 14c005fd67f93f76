package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festivapp/festival-api/internal/domain"
)

type mockWalletRepo struct {
	FindOrCreateFn          func(ctx context.Context, userID, festivalID uint, qrCode string) (domain.Wallet, error)
	FindByIDFn              func(ctx context.Context, id uint) (domain.Wallet, error)
	FindByUserAndFestivalFn func(ctx context.Context, userID, festivalID uint) (domain.Wallet, error)
	FindByQRCodeFn          func(ctx context.Context, qrCode string) (domain.Wallet, error)
	CreditFn                func(ctx context.Context, walletID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error)
	DebitFn                 func(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error)
	RefundFn                func(ctx context.Context, walletID, originalID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error)
	UpdateStatusFn          func(ctx context.Context, walletID uint, status domain.WalletStatus) (domain.Wallet, error)
	ListTransactionsFn      func(ctx context.Context, walletID uint, limit, offset int) ([]domain.WalletTransaction, int64, error)
}

func (m *mockWalletRepo) FindOrCreate(ctx context.Context, userID, festivalID uint, qrCode string) (domain.Wallet, error) {
	return m.FindOrCreateFn(ctx, userID, festivalID, qrCode)
}

func (m *mockWalletRepo) FindByID(ctx context.Context, id uint) (domain.Wallet, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockWalletRepo) FindByUserAndFestival(ctx context.Context, userID, festivalID uint) (domain.Wallet, error) {
	return m.FindByUserAndFestivalFn(ctx, userID, festivalID)
}

func (m *mockWalletRepo) FindByQRCode(ctx context.Context, qrCode string) (domain.Wallet, error) {
	return m.FindByQRCodeFn(ctx, qrCode)
}

func (m *mockWalletRepo) Credit(ctx context.Context, walletID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error) {
	return m.CreditFn(ctx, walletID, entry)
}

func (m *mockWalletRepo) Debit(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error) {
	return m.DebitFn(ctx, walletID, entry, productID, quantity)
}

func (m *mockWalletRepo) Refund(ctx context.Context, walletID, originalID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error) {
	return m.RefundFn(ctx, walletID, originalID, entry)
}

func (m *mockWalletRepo) UpdateStatus(ctx context.Context, walletID uint, status domain.WalletStatus) (domain.Wallet, error) {
	return m.UpdateStatusFn(ctx, walletID, status)
}

func (m *mockWalletRepo) ListTransactions(ctx context.Context, walletID uint, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	return m.ListTransactionsFn(ctx, walletID, limit, offset)
}

type mockPaymentProvider struct {
	ChargeFn func(ctx context.Context, amount int64, paymentMethodID string) (string, error)
}

func (m *mockPaymentProvider) Charge(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
	return m.ChargeFn(ctx, amount, paymentMethodID)
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, festivalID uint, event string, payload any) error {
	p.events = append(p.events, event)

	return nil
}

type recordingBroadcaster struct {
	standIDs []uint
}

func (b *recordingBroadcaster) BroadcastTransaction(standID uint, entry domain.WalletTransaction) {
	b.standIDs = append(b.standIDs, standID)
}

type mockPINValidator struct {
	ValidateStaffPINFn func(ctx context.Context, standID, userID uint, pin string) error
	calls              int
}

func (m *mockPINValidator) ValidateStaffPIN(ctx context.Context, standID, userID uint, pin string) error {
	m.calls++
	if m.ValidateStaffPINFn == nil {
		return nil
	}

	return m.ValidateStaffPINFn(ctx, standID, userID, pin)
}

func TestWalletService_TopUp(t *testing.T) {
	t.Run("charges then credits with the provider reference", func(t *testing.T) {
		var credited domain.WalletTransaction
		repo := &mockWalletRepo{
			FindByIDFn: func(ctx context.Context, id uint) (domain.Wallet, error) {
				return domain.Wallet{ID: id, FestivalID: 5, Status: domain.WalletActive}, nil
			},
			CreditFn: func(ctx context.Context, walletID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error) {
				credited = entry
				return domain.Wallet{ID: walletID, FestivalID: 5, Balance: entry.Amount}, entry, nil
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				assert.Equal(t, int64(2500), amount)
				return "pi_123", nil
			},
		}
		publisher := &recordingPublisher{}
		svc := NewWalletService(repo, nil, nil, payments, publisher, nil)

		wallet, entry, err := svc.TopUp(context.Background(), 1, 2500, "pm_card")

		require.NoError(t, err)
		assert.Equal(t, int64(2500), wallet.Balance)
		assert.Equal(t, "pi_123", credited.Reference)
		assert.Equal(t, domain.WalletCredit, entry.Type)
		assert.Equal(t, []string{domain.EventWalletCredited}, publisher.events)
	})

	t.Run("frozen wallet refuses before charging", func(t *testing.T) {
		charged := false
		repo := &mockWalletRepo{
			FindByIDFn: func(ctx context.Context, id uint) (domain.Wallet, error) {
				return domain.Wallet{ID: id, Status: domain.WalletFrozen}, nil
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				charged = true
				return "pi_123", nil
			},
		}
		svc := NewWalletService(repo, nil, nil, payments, nil, nil)

		_, _, err := svc.TopUp(context.Background(), 1, 1000, "pm_card")

		assert.ErrorIs(t, err, ErrWalletFrozen)
		assert.False(t, charged, "a frozen wallet must never reach the payment provider")
	})

	t.Run("declined card", func(t *testing.T) {
		repo := &mockWalletRepo{
			FindByIDFn: func(ctx context.Context, id uint) (domain.Wallet, error) {
				return domain.Wallet{ID: id, Status: domain.WalletActive}, nil
			},
		}
		payments := &mockPaymentProvider{
			ChargeFn: func(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
				return "", errors.New("card_declined")
			},
		}
		svc := NewWalletService(repo, nil, nil, payments, nil, nil)

		_, _, err := svc.TopUp(context.Background(), 1, 1000, "pm_card")

		assert.ErrorIs(t, err, ErrPaymentFailed)
	})
}

func TestWalletService_Debit(t *testing.T) {
	activeStand := func(requiresPIN bool) *mockStandRepo {
		return &mockStandRepo{
			FindByIDFn: func(ctx context.Context, id uint) (domain.Stand, error) {
				return domain.Stand{
					ID:       id,
					Status:   domain.StandActive,
					Settings: domain.StandSettings{RequiresPIN: requiresPIN},
				}, nil
			},
			// User 9 is the stand's staff member in these tests.
			FindStaffByStandAndUserFn: func(ctx context.Context, standID, userID uint) (domain.StandStaff, error) {
				if userID != 9 {
					return domain.StandStaff{}, ErrStaffNotFound
				}
				return domain.StandStaff{StandID: standID, UserID: userID, Role: domain.StaffCashier}, nil
			},
			FindProductByIDFn: func(ctx context.Context, id uint) (domain.Product, error) {
				return domain.Product{ID: id, StandID: 2, Price: 450}, nil
			},
		}
	}

	t.Run("free-amount debit", func(t *testing.T) {
		var debited domain.WalletTransaction
		repo := &mockWalletRepo{
			DebitFn: func(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error) {
				debited = entry
				return domain.Wallet{ID: walletID, FestivalID: 5}, entry, nil
			},
		}
		publisher := &recordingPublisher{}
		broadcaster := &recordingBroadcaster{}
		svc := NewWalletService(repo, activeStand(false), &mockPINValidator{}, nil, publisher, broadcaster)

		_, entry, err := svc.Debit(context.Background(), DebitRequest{
			WalletID:    1,
			StandID:     2,
			Amount:      300,
			PerformedBy: 9,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(300), entry.Amount)
		assert.Equal(t, domain.WalletDebit, debited.Type)
		require.NotNil(t, debited.StandID)
		assert.Equal(t, uint(2), *debited.StandID)
		assert.Equal(t, []string{domain.EventWalletDebited}, publisher.events)
		assert.Equal(t, []uint{2}, broadcaster.standIDs)
	})

	t.Run("product price wins over the request amount", func(t *testing.T) {
		repo := &mockWalletRepo{
			DebitFn: func(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error) {
				assert.Equal(t, 3, quantity)
				return domain.Wallet{ID: walletID}, entry, nil
			},
		}
		svc := NewWalletService(repo, activeStand(false), &mockPINValidator{}, nil, nil, nil)

		productID := uint(7)
		_, entry, err := svc.Debit(context.Background(), DebitRequest{
			WalletID:    1,
			StandID:     2,
			ProductID:   &productID,
			Quantity:    3,
			Amount:      1, // ignored
			PerformedBy: 9,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1350), entry.Amount, "3 x 450")
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		repo := &mockWalletRepo{
			DebitFn: func(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error) {
				assert.Equal(t, 1, quantity)
				return domain.Wallet{ID: walletID}, entry, nil
			},
		}
		svc := NewWalletService(repo, activeStand(false), &mockPINValidator{}, nil, nil, nil)

		productID := uint(7)
		_, entry, err := svc.Debit(context.Background(), DebitRequest{
			WalletID:    1,
			StandID:     2,
			ProductID:   &productID,
			PerformedBy: 9,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(450), entry.Amount)
	})

	t.Run("product from another stand", func(t *testing.T) {
		standRepo := activeStand(false)
		standRepo.FindProductByIDFn = func(ctx context.Context, id uint) (domain.Product, error) {
			return domain.Product{ID: id, StandID: 99, Price: 450}, nil
		}
		svc := NewWalletService(&mockWalletRepo{}, standRepo, &mockPINValidator{}, nil, nil, nil)

		productID := uint(7)
		_, _, err := svc.Debit(context.Background(), DebitRequest{
			WalletID:    1,
			StandID:     2,
			ProductID:   &productID,
			PerformedBy: 9,
		})

		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("inactive stand", func(t *testing.T) {
		standRepo := &mockStandRepo{
			FindByIDFn: func(ctx context.Context, id uint) (domain.Stand, error) {
				return domain.Stand{ID: id, Status: domain.StandInactive}, nil
			},
		}
		svc := NewWalletService(&mockWalletRepo{}, standRepo, &mockPINValidator{}, nil, nil, nil)

		_, _, err := svc.Debit(context.Background(), DebitRequest{WalletID: 1, StandID: 2, Amount: 100, PerformedBy: 9})

		assert.ErrorIs(t, err, ErrStandClosed)
	})

	t.Run("performer not on the stand's staff", func(t *testing.T) {
		pins := &mockPINValidator{}
		repo := &mockWalletRepo{
			DebitFn: func(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error) {
				t.Fatal("a non-staff user must never reach the wallet")
				return domain.Wallet{}, domain.WalletTransaction{}, nil
			},
		}
		svc := NewWalletService(repo, activeStand(false), pins, nil, nil, nil)

		_, _, err := svc.Debit(context.Background(), DebitRequest{
			WalletID:    1,
			StandID:     2,
			Amount:      100,
			PerformedBy: 4242,
		})

		assert.ErrorIs(t, err, ErrStaffNotFound)
		assert.Zero(t, pins.calls)
	})

	t.Run("PIN required and wrong", func(t *testing.T) {
		pins := &mockPINValidator{
			ValidateStaffPINFn: func(ctx context.Context, standID, userID uint, pin string) error {
				return ErrInvalidPIN
			},
		}
		svc := NewWalletService(&mockWalletRepo{}, activeStand(true), pins, nil, nil, nil)

		_, _, err := svc.Debit(context.Background(), DebitRequest{WalletID: 1, StandID: 2, Amount: 100, PerformedBy: 9, PIN: "0000"})

		assert.ErrorIs(t, err, ErrInvalidPIN)
		assert.Equal(t, 1, pins.calls)
	})

	t.Run("PIN skipped when the stand does not require it", func(t *testing.T) {
		pins := &mockPINValidator{}
		repo := &mockWalletRepo{
			DebitFn: func(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error) {
				return domain.Wallet{ID: walletID}, entry, nil
			},
		}
		svc := NewWalletService(repo, activeStand(false), pins, nil, nil, nil)

		_, _, err := svc.Debit(context.Background(), DebitRequest{WalletID: 1, StandID: 2, Amount: 100, PerformedBy: 9})

		require.NoError(t, err)
		assert.Zero(t, pins.calls)
	})

	t.Run("insufficient balance surfaces the sentinel", func(t *testing.T) {
		repo := &mockWalletRepo{
			DebitFn: func(ctx context.Context, walletID uint, entry domain.WalletTransaction, productID *uint, quantity int) (domain.Wallet, domain.WalletTransaction, error) {
				return domain.Wallet{}, domain.WalletTransaction{}, ErrInsufficientBalance
			},
		}
		svc := NewWalletService(repo, activeStand(false), &mockPINValidator{}, nil, nil, nil)

		_, _, err := svc.Debit(context.Background(), DebitRequest{WalletID: 1, StandID: 2, Amount: 100, PerformedBy: 9})

		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestWalletService_Refund(t *testing.T) {
	var refunded domain.WalletTransaction
	repo := &mockWalletRepo{
		RefundFn: func(ctx context.Context, walletID, originalID uint, entry domain.WalletTransaction) (domain.Wallet, domain.WalletTransaction, error) {
			refunded = entry
			assert.Equal(t, uint(42), originalID)
			return domain.Wallet{ID: walletID, FestivalID: 5}, entry, nil
		},
	}
	publisher := &recordingPublisher{}
	svc := NewWalletService(repo, nil, nil, nil, publisher, nil)

	staffID := uint(9)
	_, entry, err := svc.Refund(context.Background(), 1, 42, 200, "spilled drink", &staffID)

	require.NoError(t, err)
	assert.Equal(t, domain.WalletRefund, entry.Type)
	assert.Equal(t, "42", refunded.Reference, "refund references the original transaction")
	assert.Equal(t, []string{domain.EventWalletRefunded}, publisher.events)
}

func TestWalletService_FreezeUnfreeze(t *testing.T) {
	var lastStatus domain.WalletStatus
	repo := &mockWalletRepo{
		UpdateStatusFn: func(ctx context.Context, walletID uint, status domain.WalletStatus) (domain.Wallet, error) {
			lastStatus = status
			return domain.Wallet{ID: walletID, FestivalID: 5, Status: status}, nil
		},
	}
	publisher := &recordingPublisher{}
	svc := NewWalletService(repo, nil, nil, nil, publisher, nil)

	wallet, err := svc.Freeze(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletFrozen, wallet.Status)
	assert.Equal(t, domain.WalletFrozen, lastStatus)

	wallet, err = svc.Unfreeze(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletActive, wallet.Status)

	assert.Equal(t, []string{domain.EventWalletFrozen, domain.EventWalletUnfrozen}, publisher.events)
}
