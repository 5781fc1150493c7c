package domain

import "time"

type DistributionType string

const (
	DistributionEqual    DistributionType = "equal"
	DistributionWeighted DistributionType = "weighted"
	DistributionLottery  DistributionType = "lottery"
	DistributionActivity DistributionType = "activity_based"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Campaign defines how a fixed token pool is split across participants.
// Distributed is monotonic and must never exceed TotalAllocation.
type Campaign struct {
	ID               uint             `json:"id"`
	Name             string           `json:"name"`
	TotalAllocation  int64            `json:"total_allocation"`
	Distributed      int64            `json:"distributed"`
	DistributionType DistributionType `json:"distribution_type"`
	Status           CampaignStatus   `json:"status"`

	// NFT-pass holders get this on top of their base claimable amount.
	MultiplierBonus float64 `json:"multiplier_bonus"`

	Eligibility   CampaignEligibility `json:"eligibility"`
	TierAllocs    TierAllocations     `json:"tier_allocations"`
	LotterySeed   int64               `json:"lottery_seed"`
	LotteryPrizes int                 `json:"lottery_prizes"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CampaignEligibility struct {
	MinFollowers     int   `json:"min_followers"`
	MinPoints        int64 `json:"min_points"`
	MinWalletAgeDays int   `json:"min_wallet_age_days"`
	TwitterRequired  bool  `json:"twitter_required"`
}

// TierAllocations holds the per-tier amount for activity_based campaigns.
type TierAllocations struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

// Participant is the slice of a user a distribution rule needs.
type Participant struct {
	UserID uint
	Tier   ActivityTier
	Weight int64
}

type Allocation struct {
	UserID uint  `json:"user_id"`
	Amount int64 `json:"amount"`
}
