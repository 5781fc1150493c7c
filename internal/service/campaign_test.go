package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

func participants(n int) []domain.Participant {
	out := make([]domain.Participant, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Participant{UserID: uint(i)})
	}

	return out
}

func sum(allocations []domain.Allocation) int64 {
	var total int64
	for _, a := range allocations {
		total += a.Amount
	}

	return total
}

func TestDistribute_Equal(t *testing.T) {
	campaign := domain.Campaign{
		TotalAllocation:  100,
		DistributionType: domain.DistributionEqual,
	}

	t.Run("even split", func(t *testing.T) {
		allocations := Distribute(campaign, participants(4))
		require.Len(t, allocations, 4)
		for _, a := range allocations {
			assert.Equal(t, int64(25), a.Amount)
		}
	})

	t.Run("remainder goes to the lowest user IDs", func(t *testing.T) {
		allocations := Distribute(campaign, participants(3))
		assert.Equal(t, int64(100), sum(allocations))
		assert.Equal(t, int64(34), allocations[0].Amount)
		assert.Equal(t, int64(33), allocations[1].Amount)
		assert.Equal(t, int64(33), allocations[2].Amount)
	})

	t.Run("deterministic regardless of input order", func(t *testing.T) {
		shuffled := []domain.Participant{{UserID: 3}, {UserID: 1}, {UserID: 2}}
		a := Distribute(campaign, participants(3))
		b := Distribute(campaign, shuffled)
		assert.Equal(t, a, b)
	})
}

func TestDistribute_Weighted(t *testing.T) {
	campaign := domain.Campaign{
		TotalAllocation:  100,
		DistributionType: domain.DistributionWeighted,
	}

	t.Run("proportional to weight", func(t *testing.T) {
		allocations := Distribute(campaign, []domain.Participant{
			{UserID: 1, Weight: 3},
			{UserID: 2, Weight: 1},
		})
		assert.Equal(t, int64(75), allocations[0].Amount)
		assert.Equal(t, int64(25), allocations[1].Amount)
	})

	t.Run("rounding remainder never exceeds the pool", func(t *testing.T) {
		allocations := Distribute(campaign, []domain.Participant{
			{UserID: 1, Weight: 1},
			{UserID: 2, Weight: 1},
			{UserID: 3, Weight: 1},
		})
		assert.Equal(t, int64(100), sum(allocations))
	})

	t.Run("zero total weight falls back to equal", func(t *testing.T) {
		allocations := Distribute(campaign, participants(4))
		assert.Equal(t, int64(100), sum(allocations))
		assert.Equal(t, int64(25), allocations[0].Amount)
	})
}

func TestDistribute_Lottery(t *testing.T) {
	campaign := domain.Campaign{
		TotalAllocation:  90,
		DistributionType: domain.DistributionLottery,
		LotterySeed:      42,
		LotteryPrizes:    3,
	}

	t.Run("prize count winners split the pool", func(t *testing.T) {
		allocations := Distribute(campaign, participants(10))
		require.Len(t, allocations, 3)
		assert.Equal(t, int64(90), sum(allocations))
	})

	t.Run("same seed reproduces the draw", func(t *testing.T) {
		a := Distribute(campaign, participants(10))
		b := Distribute(campaign, participants(10))
		assert.Equal(t, a, b)
	})

	t.Run("different seed changes the draw", func(t *testing.T) {
		other := campaign
		other.LotterySeed = 43
		a := Distribute(campaign, participants(100))
		b := Distribute(other, participants(100))
		assert.NotEqual(t, a, b)
	})
}

func TestDistribute_ActivityBased(t *testing.T) {
	campaign := domain.Campaign{
		TotalAllocation:  10_000,
		DistributionType: domain.DistributionActivity,
		TierAllocs:       domain.TierAllocations{High: 4000, Medium: 3500, Low: 3000},
	}

	tiered := []domain.Participant{
		{UserID: 1, Tier: domain.TierHigh},
		{UserID: 2, Tier: domain.TierMedium},
		{UserID: 3, Tier: domain.TierLow},
	}

	t.Run("tier amounts within the pool", func(t *testing.T) {
		big := campaign
		big.TotalAllocation = 20_000
		allocations := Distribute(big, tiered)
		assert.Equal(t, int64(4000), allocations[0].Amount)
		assert.Equal(t, int64(3500), allocations[1].Amount)
		assert.Equal(t, int64(3000), allocations[2].Amount)
	})

	t.Run("pro-rata scale down when the pool is short", func(t *testing.T) {
		allocations := Distribute(campaign, tiered)
		assert.LessOrEqual(t, sum(allocations), int64(10_000))
		// Ordering is preserved under scaling.
		assert.Greater(t, allocations[0].Amount, allocations[1].Amount)
		assert.Greater(t, allocations[1].Amount, allocations[2].Amount)
	})
}

func TestDistribute_NeverExceedsRemainingPool(t *testing.T) {
	for _, dt := range []domain.DistributionType{
		domain.DistributionEqual,
		domain.DistributionWeighted,
		domain.DistributionLottery,
		domain.DistributionActivity,
	} {
		campaign := domain.Campaign{
			TotalAllocation:  1000,
			Distributed:      400,
			DistributionType: dt,
			TierAllocs:       domain.TierAllocations{High: 500, Medium: 300, Low: 100},
			LotterySeed:      7,
			LotteryPrizes:    2,
		}
		people := []domain.Participant{
			{UserID: 1, Tier: domain.TierHigh, Weight: 5},
			{UserID: 2, Tier: domain.TierMedium, Weight: 2},
			{UserID: 3, Tier: domain.TierLow, Weight: 1},
		}

		allocations := Distribute(campaign, people)
		assert.LessOrEqual(t, sum(allocations), int64(600), "rule %s (pool = total - distributed)", dt)
	}
}

func TestCampaignService_Allocate(t *testing.T) {
	t.Run("allocates and reserves against the pool", func(t *testing.T) {
		repo := newFakeCampaignRepo(domain.Campaign{
			ID:               1,
			TotalAllocation:  100,
			Status:           domain.CampaignActive,
			DistributionType: domain.DistributionEqual,
		})
		svc := NewCampaignService(repo, newFakeUserRepo(), fixedClock(testNow))

		allocations, err := svc.Allocate(context.Background(), 1, participants(4))
		require.NoError(t, err)
		assert.Equal(t, int64(100), sum(allocations))

		campaign, err := repo.FindByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), campaign.Distributed)
	})

	t.Run("second allocation cannot overshoot", func(t *testing.T) {
		repo := newFakeCampaignRepo(domain.Campaign{
			ID:               1,
			TotalAllocation:  100,
			Distributed:      100,
			Status:           domain.CampaignActive,
			DistributionType: domain.DistributionEqual,
		})
		svc := NewCampaignService(repo, newFakeUserRepo(), fixedClock(testNow))

		allocations, err := svc.Allocate(context.Background(), 1, participants(4))
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum(allocations))
	})

	t.Run("inactive campaign rejected", func(t *testing.T) {
		repo := newFakeCampaignRepo(domain.Campaign{
			ID:              1,
			TotalAllocation: 100,
			Status:          domain.CampaignDraft,
		})
		svc := NewCampaignService(repo, newFakeUserRepo(), fixedClock(testNow))

		_, err := svc.Allocate(context.Background(), 1, participants(2))
		assert.ErrorIs(t, err, ErrCampaignNotActive)
	})

	t.Run("unknown campaign", func(t *testing.T) {
		svc := NewCampaignService(newFakeCampaignRepo(), newFakeUserRepo(), fixedClock(testNow))

		_, err := svc.Allocate(context.Background(), 9, participants(2))
		assert.ErrorIs(t, err, ErrCampaignNotFound)
	})

	t.Run("eligibility rules screen participants", func(t *testing.T) {
		repo := newFakeCampaignRepo(domain.Campaign{
			ID:               1,
			TotalAllocation:  100,
			Status:           domain.CampaignActive,
			DistributionType: domain.DistributionEqual,
			Eligibility: domain.CampaignEligibility{
				MinPoints:        100,
				MinWalletAgeDays: 7,
				TwitterRequired:  true,
			},
		})
		users := newFakeUserRepo(
			domain.User{ID: 1, TotalPoints: 200, TwitterHandle: "@ok", CreatedAt: testNow.AddDate(0, -1, 0)},
			domain.User{ID: 2, TotalPoints: 50, TwitterHandle: "@poor", CreatedAt: testNow.AddDate(0, -1, 0)},
			domain.User{ID: 3, TotalPoints: 200, CreatedAt: testNow.AddDate(0, -1, 0)},
			domain.User{ID: 4, TotalPoints: 200, TwitterHandle: "@new", CreatedAt: testNow.AddDate(0, 0, -1)},
		)
		svc := NewCampaignService(repo, users, fixedClock(testNow))

		allocations, err := svc.Allocate(context.Background(), 1, participants(5))
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, uint(1), allocations[0].UserID)
		assert.Equal(t, int64(100), allocations[0].Amount)
	})

	t.Run("all participants screened out", func(t *testing.T) {
		repo := newFakeCampaignRepo(domain.Campaign{
			ID:              1,
			TotalAllocation: 100,
			Status:          domain.CampaignActive,
			Eligibility:     domain.CampaignEligibility{MinPoints: 1000},
		})
		users := newFakeUserRepo(domain.User{ID: 1, TotalPoints: 10})
		svc := NewCampaignService(repo, users, fixedClock(testNow))

		_, err := svc.Allocate(context.Background(), 1, participants(1))
		assert.ErrorIs(t, err, ErrNoParticipants)
	})
}

func TestCampaignService_PassMultiplier(t *testing.T) {
	t.Run("reads the active pass campaign", func(t *testing.T) {
		repo := newFakeCampaignRepo(domain.Campaign{
			ID:              1,
			Status:          domain.CampaignActive,
			MultiplierBonus: 0.25,
		})
		svc := NewCampaignService(repo, newFakeUserRepo(), fixedClock(testNow))

		bonus, err := svc.PassMultiplier(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0.25, bonus)
	})

	t.Run("no active campaign means no bonus", func(t *testing.T) {
		svc := NewCampaignService(newFakeCampaignRepo(), newFakeUserRepo(), fixedClock(testNow))

		bonus, err := svc.PassMultiplier(context.Background())
		require.NoError(t, err)
		assert.Equal(t, float64(0), bonus)
	})
}
