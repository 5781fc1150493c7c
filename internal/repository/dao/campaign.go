package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

var (
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrAllocationExceeded = errors.New("campaign allocation exceeded")
)

type Campaign struct {
	ID uint `gorm:"primaryKey"`

	Name             string `gorm:"not null"`
	TotalAllocation  int64  `gorm:"not null"`
	Distributed      int64  `gorm:"not null;default:0"`
	DistributionType string `gorm:"not null"` // "equal", "weighted", "lottery" or "activity_based"
	Status           string `gorm:"not null;default:'draft'"`

	MultiplierBonus float64 `gorm:"not null;default:0"`

	Eligibility domain.CampaignEligibility `gorm:"serializer:json"`
	TierAllocs  domain.TierAllocations     `gorm:"serializer:json"`

	LotterySeed   int64 `gorm:"not null;default:0"`
	LotteryPrizes int   `gorm:"not null;default:0"`

	StartTime time.Time
	EndTime   time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type CampaignDAO struct {
	db *gorm.DB
}

func NewCampaignDAO(db *gorm.DB) *CampaignDAO {
	return &CampaignDAO{
		db: db,
	}
}

func (d *CampaignDAO) Insert(ctx context.Context, campaign Campaign) (Campaign, error) {
	result := d.db.WithContext(ctx).Create(&campaign)
	if result.Error != nil {
		return Campaign{}, result.Error
	}

	return campaign, nil
}

func (d *CampaignDAO) FindByID(ctx context.Context, id uint) (Campaign, error) {
	var campaign Campaign

	result := d.db.WithContext(ctx).First(&campaign, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Campaign{}, ErrCampaignNotFound
		}

		return Campaign{}, result.Error
	}

	return campaign, nil
}

func (d *CampaignDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Campaign{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCampaignNotFound
	}

	return nil
}

// IncrementDistributed bumps the distributed counter only while it stays
// within the total allocation. Zero rows affected means the pool cannot
// absorb the amount; concurrent allocations can never overshoot the cap.
func (d *CampaignDAO) IncrementDistributed(ctx context.Context, id uint, amount int64) error {
	result := d.db.WithContext(ctx).
		Model(&Campaign{}).
		Where("id = ? AND distributed + ? <= total_allocation", id, amount).
		Update("distributed", gorm.Expr("distributed + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var campaign Campaign
		if err := d.db.WithContext(ctx).First(&campaign, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}
			return err
		}
		return ErrAllocationExceeded
	}

	return nil
}

// FindActivePassCampaign returns the newest active campaign carrying an
// NFT-pass multiplier; the claim flow reads the pass bonus from it.
func (d *CampaignDAO) FindActivePassCampaign(ctx context.Context) (Campaign, error) {
	var campaign Campaign

	result := d.db.WithContext(ctx).
		Where("status = ? AND multiplier_bonus > 0", "active").
		Order("created_at DESC").
		First(&campaign)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Campaign{}, ErrCampaignNotFound
		}

		return Campaign{}, result.Error
	}

	return campaign, nil
}

// FindDueForTransition returns campaigns whose schedule crossed a lifecycle
// boundary: drafts past their start and actives past their end.
func (d *CampaignDAO) FindDueForTransition(ctx context.Context, now time.Time) ([]Campaign, error) {
	var campaigns []Campaign

	result := d.db.WithContext(ctx).
		Where("(status = ? AND start_time <= ?) OR (status = ? AND end_time <= ?)",
			"draft", now, "active", now).
		Find(&campaigns)
	if result.Error != nil {
		return nil, result.Error
	}

	return campaigns, nil
}
