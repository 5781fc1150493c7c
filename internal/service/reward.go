package service

import (
	"math"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

// TierTable maps activity tiers to base token amounts.
type TierTable struct {
	High   int64
	Medium int64
	Low    int64
}

// DefaultTierTable matches the launch configuration.
var DefaultTierTable = TierTable{High: 4000, Medium: 3500, Low: 3000}

// RewardCalculator converts accumulated points, an activity tier and the
// NFT-pass bonus into a claimable token amount. It holds configuration only,
// so ComputeClaimable is a pure function.
type RewardCalculator struct {
	tiers          TierTable
	pointsPerToken int64
}

func NewRewardCalculator(tiers TierTable, pointsPerToken int64) *RewardCalculator {
	if pointsPerToken <= 0 {
		pointsPerToken = 1
	}

	return &RewardCalculator{
		tiers:          tiers,
		pointsPerToken: pointsPerToken,
	}
}

// ComputeClaimable returns the whole-token amount a user may claim.
//
// base(tier) + points bonus is capped at maxClaimAmount first, then the pass
// multiplier is applied on top of the capped value. A maxClaimAmount of zero
// or less means no cap. The result is never negative and never fractional.
func (c *RewardCalculator) ComputeClaimable(tier domain.ActivityTier, points int64, maxClaimAmount int64, hasPass bool, multiplierBonus float64) int64 {
	base := c.baseForTier(tier)

	bonus := int64(0)
	if points > 0 {
		bonus = points / c.pointsPerToken
	}

	claimable := base + bonus
	if maxClaimAmount > 0 && claimable > maxClaimAmount {
		claimable = maxClaimAmount
	}

	if hasPass && multiplierBonus > 0 {
		claimable = int64(math.Floor(float64(claimable) * (1 + multiplierBonus)))
	}

	if claimable < 0 {
		return 0
	}

	return claimable
}

func (c *RewardCalculator) baseForTier(tier domain.ActivityTier) int64 {
	switch tier {
	case domain.TierHigh:
		return c.tiers.High
	case domain.TierMedium:
		return c.tiers.Medium
	default:
		return c.tiers.Low
	}
}
