package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

var ErrControlNotFound = errors.New("user claim control not found")

// ClaimSettings is a single-row table; ID is pinned to 1.
type ClaimSettings struct {
	ID uint `gorm:"primaryKey"`

	ClaimsEnabled         bool    `gorm:"not null;default:false"`
	MinClaimAmount        int64   `gorm:"not null;default:0"`
	MaxClaimAmount        int64   `gorm:"not null;default:0"`
	FeePercentage         float64 `gorm:"not null;default:0"`
	CooldownHours         int     `gorm:"not null;default:0"`
	MaxDailyClaimsPerUser int     `gorm:"not null;default:1"`

	ScheduleEnabled   bool `gorm:"not null;default:false"`
	ScheduleStartTime *time.Time
	ScheduleEndTime   *time.Time
	ScheduleTimezone  string

	AutoApprovalEnabled      bool  `gorm:"not null;default:false"`
	AutoApprovalMaxAmount    int64 `gorm:"not null;default:0"`
	AutoApprovalMinUserLevel int   `gorm:"not null;default:0"`

	UpdatedBy uint
	UpdatedAt time.Time `gorm:"not null"`
}

type UserClaimControl struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false"`

	ClaimsEnabled bool   `gorm:"not null"`
	Reason        string `gorm:"not null"`
	UpdatedBy     uint   `gorm:"not null"`

	UpdatedAt time.Time `gorm:"not null"`
}

type SettingsDAO struct {
	db *gorm.DB
}

func NewSettingsDAO(db *gorm.DB) *SettingsDAO {
	return &SettingsDAO{
		db: db,
	}
}

func (d *SettingsDAO) Get(ctx context.Context) (ClaimSettings, error) {
	var settings ClaimSettings

	result := d.db.WithContext(ctx).First(&settings, "id = ?", 1)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			// No admin write yet: claims stay disabled.
			return ClaimSettings{ID: 1}, nil
		}

		return ClaimSettings{}, result.Error
	}

	return settings, nil
}

func (d *SettingsDAO) Upsert(ctx context.Context, settings ClaimSettings) (ClaimSettings, error) {
	settings.ID = 1

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&settings)
	if result.Error != nil {
		return ClaimSettings{}, result.Error
	}

	return settings, nil
}

func (d *SettingsDAO) FindControl(ctx context.Context, userID uint) (UserClaimControl, error) {
	var control UserClaimControl

	result := d.db.WithContext(ctx).First(&control, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return UserClaimControl{}, ErrControlNotFound
		}

		return UserClaimControl{}, result.Error
	}

	return control, nil
}

// UpsertControl writes the per-user override and its audit entry in one
// transaction, so every enable/disable leaves a trace of who did it and why.
func (d *SettingsDAO) UpsertControl(ctx context.Context, control UserClaimControl) (UserClaimControl, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				UpdateAll: true,
			}).
			Create(&control)
		if result.Error != nil {
			return result.Error
		}

		enabled := control.ClaimsEnabled
		audit := AuditEntry{
			UserID:  control.UserID,
			ActorID: control.UpdatedBy,
			Action:  string(domain.AuditControlChange),
			Detail: domain.AuditDetail{
				Kind:    domain.AuditControlChange,
				Reason:  control.Reason,
				Enabled: &enabled,
			},
		}

		return tx.Create(&audit).Error
	})
	if err != nil {
		return UserClaimControl{}, err
	}

	return control, nil
}
