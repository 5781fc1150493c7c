package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
)

var (
	ErrCampaignNotFound   = repository.ErrCampaignNotFound
	ErrAllocationExceeded = repository.ErrAllocationExceeded
	ErrCampaignNotActive  = errors.New("campaign is not active")
	ErrNoParticipants     = errors.New("campaign has no participants")
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	FindByID(ctx context.Context, id uint) (domain.Campaign, error)
	UpdateStatus(ctx context.Context, id uint, status domain.CampaignStatus) error
	IncrementDistributed(ctx context.Context, id uint, amount int64) error
	FindActivePassCampaign(ctx context.Context) (domain.Campaign, error)
}

type CampaignUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type CampaignService struct {
	repo  CampaignRepository
	users CampaignUserRepository
	now   NowFunc
}

func NewCampaignService(repo CampaignRepository, users CampaignUserRepository, now NowFunc) *CampaignService {
	if now == nil {
		now = time.Now
	}

	return &CampaignService{
		repo:  repo,
		users: users,
		now:   now,
	}
}

func (s *CampaignService) Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	if campaign.Status == "" {
		campaign.Status = domain.CampaignDraft
	}

	created, err := s.repo.Create(ctx, campaign)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Allocate screens participants against the campaign's eligibility rules,
// splits the remaining pool across the survivors and reserves the allocated
// sum against the pool with a bounded atomic increment, so concurrent
// allocations can never overshoot the total.
func (s *CampaignService) Allocate(ctx context.Context, campaignID uint, participants []domain.Participant) ([]domain.Allocation, error) {
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if campaign.Status != domain.CampaignActive {
		return nil, ErrCampaignNotActive
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	eligible, err := s.screenParticipants(ctx, campaign.Eligibility, participants)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, ErrNoParticipants
	}

	allocations := Distribute(campaign, eligible)

	var total int64
	for _, a := range allocations {
		total += a.Amount
	}
	if total == 0 {
		return allocations, nil
	}

	if err = s.repo.IncrementDistributed(ctx, campaignID, total); err != nil {
		return nil, fmt.Errorf("s.repo.IncrementDistributed -> %w", err)
	}

	return allocations, nil
}

// screenParticipants drops participants that fail the campaign's
// eligibility rules. Unknown users are skipped, not fatal. Follower counts
// live in the engagement tracker, so MinFollowers is enforced upstream
// before participants reach Allocate.
func (s *CampaignService) screenParticipants(ctx context.Context, rules domain.CampaignEligibility, participants []domain.Participant) ([]domain.Participant, error) {
	if rules == (domain.CampaignEligibility{}) {
		return participants, nil
	}

	now := s.now()
	eligible := make([]domain.Participant, 0, len(participants))
	for _, p := range participants {
		user, err := s.users.FindByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}

			return nil, fmt.Errorf("s.users.FindByID -> %w", err)
		}

		if Eligible(rules, user, now) {
			eligible = append(eligible, p)
		}
	}

	return eligible, nil
}

// Eligible reports whether a user clears the campaign's on-platform
// eligibility rules.
func Eligible(rules domain.CampaignEligibility, user domain.User, now time.Time) bool {
	if rules.MinPoints > 0 && user.TotalPoints < rules.MinPoints {
		return false
	}
	if rules.TwitterRequired && user.TwitterHandle == "" {
		return false
	}
	if rules.MinWalletAgeDays > 0 {
		minAge := time.Duration(rules.MinWalletAgeDays) * 24 * time.Hour
		if now.Sub(user.CreatedAt) < minAge {
			return false
		}
	}

	return true
}

// Distribute computes the per-participant split for a campaign's remaining
// pool. It is deterministic: participants are processed in sorted-ID order
// and the lottery draw is seeded, so audits can reproduce any allocation.
// The summed result never exceeds the remaining pool.
func Distribute(campaign domain.Campaign, participants []domain.Participant) []domain.Allocation {
	pool := campaign.TotalAllocation - campaign.Distributed
	if pool <= 0 || len(participants) == 0 {
		return []domain.Allocation{}
	}

	sorted := make([]domain.Participant, len(participants))
	copy(sorted, participants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UserID < sorted[j].UserID })

	switch campaign.DistributionType {
	case domain.DistributionWeighted:
		return distributeWeighted(pool, sorted)
	case domain.DistributionLottery:
		return distributeLottery(pool, sorted, campaign.LotterySeed, campaign.LotteryPrizes)
	case domain.DistributionActivity:
		return distributeByActivity(pool, sorted, campaign.TierAllocs)
	default:
		return distributeEqual(pool, sorted)
	}
}

// distributeEqual hands out pool/n each, with the remainder going to the
// first participants in sorted-ID order so no token is lost to rounding.
func distributeEqual(pool int64, participants []domain.Participant) []domain.Allocation {
	n := int64(len(participants))
	per := pool / n
	remainder := pool % n

	allocations := make([]domain.Allocation, len(participants))
	for i, p := range participants {
		amount := per
		if int64(i) < remainder {
			amount++
		}
		allocations[i] = domain.Allocation{UserID: p.UserID, Amount: amount}
	}

	return allocations
}

func distributeWeighted(pool int64, participants []domain.Participant) []domain.Allocation {
	var totalWeight int64
	for _, p := range participants {
		if p.Weight > 0 {
			totalWeight += p.Weight
		}
	}
	if totalWeight == 0 {
		return distributeEqual(pool, participants)
	}

	allocations := make([]domain.Allocation, len(participants))
	var assigned int64
	for i, p := range participants {
		weight := p.Weight
		if weight < 0 {
			weight = 0
		}
		amount := pool * weight / totalWeight
		allocations[i] = domain.Allocation{UserID: p.UserID, Amount: amount}
		assigned += amount
	}

	// Flooring leaves a remainder; spread it deterministically.
	for i := 0; assigned < pool && i < len(allocations); i++ {
		allocations[i].Amount++
		assigned++
	}

	return allocations
}

func distributeLottery(pool int64, participants []domain.Participant, seed int64, prizes int) []domain.Allocation {
	if prizes <= 0 {
		prizes = 1
	}
	if prizes > len(participants) {
		prizes = len(participants)
	}

	rng := rand.New(rand.NewSource(seed))
	order := rng.Perm(len(participants))

	winners := make([]domain.Participant, 0, prizes)
	for _, idx := range order[:prizes] {
		winners = append(winners, participants[idx])
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].UserID < winners[j].UserID })

	return distributeEqual(pool, winners)
}

// distributeByActivity assigns each tier's configured amount. If the sum
// would exceed the pool, every allocation is scaled down pro rata instead of
// truncating arbitrarily.
func distributeByActivity(pool int64, participants []domain.Participant, tiers domain.TierAllocations) []domain.Allocation {
	allocations := make([]domain.Allocation, len(participants))
	var sum int64
	for i, p := range participants {
		var amount int64
		switch p.Tier {
		case domain.TierHigh:
			amount = tiers.High
		case domain.TierMedium:
			amount = tiers.Medium
		default:
			amount = tiers.Low
		}
		if amount < 0 {
			amount = 0
		}
		allocations[i] = domain.Allocation{UserID: p.UserID, Amount: amount}
		sum += amount
	}

	if sum > pool && sum > 0 {
		for i := range allocations {
			allocations[i].Amount = allocations[i].Amount * pool / sum
		}
	}

	return allocations
}

// PassMultiplier reads the NFT-pass bonus from the active pass campaign.
// No active campaign means no bonus.
func (s *CampaignService) PassMultiplier(ctx context.Context) (float64, error) {
	campaign, err := s.repo.FindActivePassCampaign(ctx)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return 0, nil
		}

		return 0, fmt.Errorf("s.repo.FindActivePassCampaign -> %w", err)
	}

	return campaign.MultiplierBonus, nil
}
