package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrWalletFrozen          = errors.New("wallet is frozen")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrTransactionNotFound   = errors.New("wallet transaction not found")
	ErrRefundExceedsOriginal = errors.New("refund exceeds the original transaction amount")
)

type Wallet struct {
	ID uint `gorm:"primaryKey"`

	UserID     uint   `gorm:"uniqueIndex:idx_wallets_user_festival;not null"`
	FestivalID uint   `gorm:"uniqueIndex:idx_wallets_user_festival;not null"`
	Balance    int64  `gorm:"not null;default:0"`
	Status     string `gorm:"not null;default:ACTIVE"`
	QRCode     string `gorm:"uniqueIndex;not null"`

	Transactions []WalletTransaction `gorm:"foreignKey:WalletID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type WalletTransaction struct {
	ID uint `gorm:"primaryKey"`

	WalletID    uint   `gorm:"index;not null"`
	Type        string `gorm:"not null"` // CREDIT, DEBIT or REFUND
	Amount      int64  `gorm:"not null"`
	StandID     *uint
	PerformedBy *uint
	Reference   string `gorm:"index"`
	Note        string

	CreatedAt time.Time
}

type WalletDAO struct {
	db *gorm.DB
}

func NewWalletDAO(db *gorm.DB) *WalletDAO {
	return &WalletDAO{
		db: db,
	}
}

// FindOrCreate returns the wallet for (userID, festivalID), creating it
// with the given QR code when missing. The composite unique index keeps
// concurrent creations from producing duplicates.
func (d *WalletDAO) FindOrCreate(ctx context.Context, userID, festivalID uint, qrCode string) (Wallet, error) {
	wallet := Wallet{
		UserID:     userID,
		FestivalID: festivalID,
		Status:     "ACTIVE",
		QRCode:     qrCode,
	}

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND festival_id = ?", userID, festivalID).
		Attrs(Wallet{QRCode: qrCode, Status: "ACTIVE"}).
		FirstOrCreate(&wallet)
	if result.Error != nil {
		return Wallet{}, result.Error
	}

	return wallet, nil
}

func (d *WalletDAO) FindByID(ctx context.Context, id uint) (Wallet, error) {
	var wallet Wallet

	result := d.db.WithContext(ctx).First(&wallet, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Wallet{}, ErrWalletNotFound
		}

		return Wallet{}, result.Error
	}

	return wallet, nil
}

func (d *WalletDAO) FindByUserAndFestival(ctx context.Context, userID, festivalID uint) (Wallet, error) {
	var wallet Wallet

	result := d.db.WithContext(ctx).
		First(&wallet, "user_id = ? AND festival_id = ?", userID, festivalID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Wallet{}, ErrWalletNotFound
		}

		return Wallet{}, result.Error
	}

	return wallet, nil
}

func (d *WalletDAO) FindByQRCode(ctx context.Context, qrCode string) (Wallet, error) {
	var wallet Wallet

	result := d.db.WithContext(ctx).First(&wallet, "qr_code = ?", qrCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Wallet{}, ErrWalletNotFound
		}

		return Wallet{}, result.Error
	}

	return wallet, nil
}

// lockWallet fetches the wallet row FOR UPDATE inside tx.
func lockWallet(tx *gorm.DB, walletID uint) (Wallet, error) {
	var wallet Wallet

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, walletID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Wallet{}, ErrWalletNotFound
		}

		return Wallet{}, result.Error
	}

	return wallet, nil
}

// Credit adds entry.Amount to the wallet balance and appends the ledger
// row, atomically.
func (d *WalletDAO) Credit(ctx context.Context, walletID uint, entry WalletTransaction) (Wallet, WalletTransaction, error) {
	var wallet Wallet

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = lockWallet(tx, walletID)
		if err != nil {
			return err
		}

		if wallet.Status != "ACTIVE" {
			return ErrWalletFrozen
		}

		wallet.Balance += entry.Amount
		if err = tx.Model(&Wallet{}).Where("id = ?", walletID).
			Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		entry.WalletID = walletID
		return tx.Create(&entry).Error
	})
	if err != nil {
		return Wallet{}, WalletTransaction{}, err
	}

	return wallet, entry, nil
}

// Debit subtracts entry.Amount from the wallet balance, decrements the
// product stock when a product is involved, and appends the ledger row,
// all in one transaction. The wallet row is locked for the duration, so
// the balance can never go negative under concurrent debits.
func (d *WalletDAO) Debit(ctx context.Context, walletID uint, entry WalletTransaction, productID *uint, quantity int) (Wallet, WalletTransaction, error) {
	var wallet Wallet

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = lockWallet(tx, walletID)
		if err != nil {
			return err
		}

		if wallet.Status != "ACTIVE" {
			return ErrWalletFrozen
		}
		if wallet.Balance < entry.Amount {
			return ErrInsufficientBalance
		}

		if productID != nil {
			result := tx.Model(&Product{}).
				Where("id = ? AND quantity >= ?", *productID, quantity).
				Update("quantity", gorm.Expr("quantity - ?", quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		wallet.Balance -= entry.Amount
		if err = tx.Model(&Wallet{}).Where("id = ?", walletID).
			Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		entry.WalletID = walletID
		return tx.Create(&entry).Error
	})
	if err != nil {
		return Wallet{}, WalletTransaction{}, err
	}

	return wallet, entry, nil
}

// Refund reverses (part of) the debit identified by originalID. The sum
// of refunds against one debit can never exceed the debited amount.
func (d *WalletDAO) Refund(ctx context.Context, walletID, originalID uint, entry WalletTransaction) (Wallet, WalletTransaction, error) {
	var wallet Wallet

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = lockWallet(tx, walletID)
		if err != nil {
			return err
		}

		var original WalletTransaction
		result := tx.First(&original, "id = ? AND wallet_id = ? AND type = ?", originalID, walletID, "DEBIT")
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}

			return result.Error
		}

		var refunded int64
		err = tx.Model(&WalletTransaction{}).
			Where("wallet_id = ? AND type = ? AND reference = ?", walletID, "REFUND", entry.Reference).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&refunded).Error
		if err != nil {
			return err
		}

		if refunded+entry.Amount > original.Amount {
			return ErrRefundExceedsOriginal
		}

		wallet.Balance += entry.Amount
		if err = tx.Model(&Wallet{}).Where("id = ?", walletID).
			Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		entry.WalletID = walletID
		entry.StandID = original.StandID
		return tx.Create(&entry).Error
	})
	if err != nil {
		return Wallet{}, WalletTransaction{}, err
	}

	return wallet, entry, nil
}

func (d *WalletDAO) UpdateStatus(ctx context.Context, walletID uint, status string) (Wallet, error) {
	result := d.db.WithContext(ctx).Model(&Wallet{}).
		Where("id = ?", walletID).
		Update("status", status)
	if result.Error != nil {
		return Wallet{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Wallet{}, ErrWalletNotFound
	}

	return d.FindByID(ctx, walletID)
}

func (d *WalletDAO) ListTransactions(ctx context.Context, walletID uint, limit, offset int) ([]WalletTransaction, int64, error) {
	var (
		entries []WalletTransaction
		total   int64
	)

	if err := d.db.WithContext(ctx).Model(&WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := d.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return entries, total, nil
}
