package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

var (
	ErrApprovalNotFound  = errors.New("approval record not found")
	ErrInvalidTransition = errors.New("invalid approval transition")
)

type ApprovalRecord struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false"`

	Approved   bool `gorm:"not null;default:false"`
	Claimed    bool `gorm:"not null;default:false"`
	ApprovedAt *time.Time
	ApprovedBy *uint
	ClaimedAt  *time.Time

	UpdatedAt time.Time `gorm:"not null"`
}

type AuditEntry struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint               `gorm:"not null;index"`
	ActorID uint               `gorm:"not null"`
	Action  string             `gorm:"not null"`
	Detail  domain.AuditDetail `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"not null"`
}

type ApprovalDAO struct {
	db *gorm.DB
}

func NewApprovalDAO(db *gorm.DB) *ApprovalDAO {
	return &ApprovalDAO{
		db: db,
	}
}

func (d *ApprovalDAO) FindByUserID(ctx context.Context, userID uint) (ApprovalRecord, error) {
	var record ApprovalRecord

	result := d.db.WithContext(ctx).First(&record, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ApprovalRecord{}, ErrApprovalNotFound
		}

		return ApprovalRecord{}, result.Error
	}

	return record, nil
}

// Approve moves Unapproved -> Approved, creating the record lazily. The
// read and write happen inside one transaction so a racing revoke cannot be
// lost.
func (d *ApprovalDAO) Approve(ctx context.Context, userID, approverID uint, now time.Time) (ApprovalRecord, error) {
	var record ApprovalRecord

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.First(&record, "user_id = ?", userID)
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		if record.Claimed {
			return ErrInvalidTransition
		}

		record.UserID = userID
		record.Approved = true
		record.ApprovedAt = &now
		record.ApprovedBy = &approverID

		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		audit := AuditEntry{
			UserID:  userID,
			ActorID: approverID,
			Action:  string(domain.AuditApproved),
			Detail:  domain.AuditDetail{Kind: domain.AuditApproved},
		}

		return tx.Create(&audit).Error
	})
	if err != nil {
		return ApprovalRecord{}, err
	}

	return record, nil
}

// Revoke moves Approved -> Unapproved. It fails with ErrInvalidTransition
// once the record is Claimed; the guarded UPDATE makes the check and the
// write one atomic statement.
func (d *ApprovalDAO) Revoke(ctx context.Context, userID, actorID uint) (ApprovalRecord, error) {
	var record ApprovalRecord

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ApprovalRecord{}).
			Where("user_id = ? AND claimed = false", userID).
			Updates(map[string]interface{}{
				"approved":    false,
				"approved_at": nil,
				"approved_by": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Either no record or already claimed. Distinguish for the caller.
			var existing ApprovalRecord
			if err := tx.First(&existing, "user_id = ?", userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrApprovalNotFound
				}
				return err
			}
			return ErrInvalidTransition
		}

		audit := AuditEntry{
			UserID:  userID,
			ActorID: actorID,
			Action:  string(domain.AuditRevoked),
			Detail:  domain.AuditDetail{Kind: domain.AuditRevoked},
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		return tx.First(&record, "user_id = ?", userID).Error
	})
	if err != nil {
		return ApprovalRecord{}, err
	}

	return record, nil
}
