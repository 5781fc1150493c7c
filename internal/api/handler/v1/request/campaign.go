package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type TierAllocationsRequest struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

type CampaignEligibilityRequest struct {
	MinFollowers     int   `json:"min_followers"`
	MinPoints        int64 `json:"min_points"`
	MinWalletAgeDays int   `json:"min_wallet_age_days"`
	TwitterRequired  bool  `json:"twitter_required"`
}

type CreateCampaignRequest struct {
	Name             string  `json:"name"`
	TotalAllocation  int64   `json:"total_allocation"`
	DistributionType string  `json:"distribution_type"`
	MultiplierBonus  float64 `json:"multiplier_bonus"`

	Eligibility CampaignEligibilityRequest `json:"eligibility"`
	TierAllocs  TierAllocationsRequest     `json:"tier_allocations"`

	LotterySeed   int64 `json:"lottery_seed"`
	LotteryPrizes int   `json:"lottery_prizes"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (req *CreateCampaignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.TotalAllocation, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.DistributionType, validation.Required,
			validation.In("equal", "weighted", "lottery", "activity_based")),
		validation.Field(&req.MultiplierBonus, validation.Min(float64(0))),
		validation.Field(&req.LotteryPrizes, validation.Min(0)),
	)
}

type AllocateParticipant struct {
	UserID uint   `json:"user_id"`
	Tier   string `json:"tier"`
	Weight int64  `json:"weight"`
}

type AllocateCampaignRequest struct {
	Participants []AllocateParticipant `json:"participants"`
}

func (req *AllocateCampaignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Participants, validation.Required, validation.Length(1, 0)),
	)
}
