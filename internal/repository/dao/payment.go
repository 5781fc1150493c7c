package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shopspring/decimal"
)

var ErrIntentNotFound = errors.New("payment intent not found")

type PaymentIntent struct {
	ID string `gorm:"primaryKey"` // uuid

	WalletAddress string          `gorm:"not null;index"`
	FiatAmountUSD decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Lamports      uint64          `gorm:"not null"`
	OraclePrice   decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	ExpiresAt     time.Time       `gorm:"not null;index"`
	ConsumedAt    *time.Time

	CreatedAt time.Time `gorm:"not null"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, intent PaymentIntent) (PaymentIntent, error) {
	result := d.db.WithContext(ctx).Create(&intent)
	if result.Error != nil {
		return PaymentIntent{}, result.Error
	}

	return intent, nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id string) (PaymentIntent, error) {
	var intent PaymentIntent

	result := d.db.WithContext(ctx).First(&intent, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PaymentIntent{}, ErrIntentNotFound
		}

		return PaymentIntent{}, result.Error
	}

	return intent, nil
}

// FindActiveByWallet returns the newest unconsumed, unexpired intent for a
// wallet. The mint processor verifies the submitted proof against it.
func (d *PaymentDAO) FindActiveByWallet(ctx context.Context, wallet string, now time.Time) (PaymentIntent, error) {
	var intent PaymentIntent

	result := d.db.WithContext(ctx).
		Where("wallet_address = ? AND consumed_at IS NULL AND expires_at > ?", wallet, now).
		Order("created_at DESC").
		First(&intent)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PaymentIntent{}, ErrIntentNotFound
		}

		return PaymentIntent{}, result.Error
	}

	return intent, nil
}

// Consume marks an intent used. The guarded UPDATE is the single-use gate
// for payment proofs: exactly one of any number of concurrent mint attempts
// observes true.
func (d *PaymentDAO) Consume(ctx context.Context, id string, now time.Time) (bool, error) {
	result := d.db.WithContext(ctx).
		Model(&PaymentIntent{}).
		Where("id = ? AND consumed_at IS NULL AND expires_at > ?", id, now).
		Update("consumed_at", now)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// DeleteExpired discards stale unconsumed intents. Called by the scheduler.
func (d *PaymentDAO) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("consumed_at IS NULL AND expires_at <= ?", now).
		Delete(&PaymentIntent{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
