package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrClaimNotFound      = errors.New("claim record not found")
	ErrDailyLimitExceeded = errors.New("daily claim limit exhausted")
	ErrCooldownViolated   = errors.New("claim cooldown still active")
)

// ClaimGuard carries the cooldown and daily-limit bounds InsertAndCredit
// re-checks while holding the user row lock.
type ClaimGuard struct {
	CooldownCutoff *time.Time
	DayStart       time.Time
	MaxDailyClaims int
}

type ClaimRecord struct {
	ID uint `gorm:"primaryKey"`

	UserID        uint   `gorm:"not null;index:idx_claims_user_created"`
	WalletAddress string `gorm:"not null"`
	Amount        int64  `gorm:"not null"`
	FeePaid       int64  `gorm:"not null;default:0"`
	Status        string `gorm:"not null"` // "pending", "auto_approved", "completed" or "rejected"
	TxHash        string

	CreatedAt time.Time `gorm:"not null;index:idx_claims_user_created"`
}

type ClaimDAO struct {
	db *gorm.DB
}

func NewClaimDAO(db *gorm.DB) *ClaimDAO {
	return &ClaimDAO{
		db: db,
	}
}

func (d *ClaimDAO) Insert(ctx context.Context, record ClaimRecord) (ClaimRecord, error) {
	result := d.db.WithContext(ctx).Create(&record)
	if result.Error != nil {
		return ClaimRecord{}, result.Error
	}

	return record, nil
}

// InsertAndCredit writes the claim row and bumps the user's claimed total in
// one transaction so a crash cannot leave the ledger and the history apart.
// It takes a row lock on the user and re-checks the guard bounds under it:
// concurrent claims for the same user serialize here, so at most the
// permitted number of rows can land regardless of what the unlocked policy
// reads saw.
func (d *ClaimDAO) InsertAndCredit(ctx context.Context, record ClaimRecord, credit int64, guard ClaimGuard) (ClaimRecord, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user User
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, record.UserID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return result.Error
		}

		if guard.MaxDailyClaims > 0 {
			var count int64
			err := tx.Model(&ClaimRecord{}).
				Where("user_id = ? AND created_at >= ?", record.UserID, guard.DayStart).
				Count(&count).Error
			if err != nil {
				return err
			}
			if int(count) >= guard.MaxDailyClaims {
				return ErrDailyLimitExceeded
			}
		}

		if guard.CooldownCutoff != nil {
			var count int64
			err := tx.Model(&ClaimRecord{}).
				Where("user_id = ? AND status IN ? AND created_at >= ?",
					record.UserID, []string{"auto_approved", "completed"}, *guard.CooldownCutoff).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrCooldownViolated
			}
		}

		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if credit == 0 {
			return nil
		}

		return tx.Model(&User{}).
			Where("id = ?", record.UserID).
			Update("total_claimed", gorm.Expr("total_claimed + ?", credit)).Error
	})
	if err != nil {
		return ClaimRecord{}, err
	}

	return record, nil
}

func (d *ClaimDAO) LastSuccessfulClaimAt(ctx context.Context, userID uint) (*time.Time, error) {
	var record ClaimRecord

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []string{"auto_approved", "completed"}).
		Order("created_at DESC").
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	return &record.CreatedAt, nil
}

func (d *ClaimDAO) CountSince(ctx context.Context, userID uint, since time.Time) (int, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&ClaimRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(count), nil
}

func (d *ClaimDAO) FindByUserID(ctx context.Context, userID uint, limit int) ([]ClaimRecord, error) {
	var records []ClaimRecord

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}
