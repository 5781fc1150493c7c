package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
)

var ErrNothingToClaim = errors.New("nothing to claim")

type ClaimRepository interface {
	CreateAndCredit(ctx context.Context, record domain.ClaimRecord, credit int64, guard domain.ClaimGuard) (domain.ClaimRecord, error)
	History(ctx context.Context, userID uint, limit int) ([]domain.ClaimRecord, error)
}

type ClaimUserRepository interface {
	FindOrCreateByWallet(ctx context.Context, wallet string) (domain.User, error)
}

type ClaimMintRepository interface {
	FindByWallet(ctx context.Context, wallet string) (domain.MintRecord, error)
}

type ClaimSettingsRepository interface {
	Get(ctx context.Context) (domain.ClaimSettings, error)
}

// PassMultiplierSource reports the current NFT-pass bonus.
type PassMultiplierSource interface {
	PassMultiplier(ctx context.Context) (float64, error)
}

// ClaimService turns engagement points into token claims. Every claim runs
// through the policy gate first; the fee is taken from the multiplied amount
// and only the net value is credited.
type ClaimService struct {
	claims     ClaimRepository
	users      ClaimUserRepository
	mints      ClaimMintRepository
	settings   ClaimSettingsRepository
	policy     *PolicyService
	calculator *RewardCalculator
	multiplier PassMultiplierSource
}

func NewClaimService(
	claims ClaimRepository,
	users ClaimUserRepository,
	mints ClaimMintRepository,
	settings ClaimSettingsRepository,
	policy *PolicyService,
	calculator *RewardCalculator,
	multiplier PassMultiplierSource,
) *ClaimService {
	return &ClaimService{
		claims:     claims,
		users:      users,
		mints:      mints,
		settings:   settings,
		policy:     policy,
		calculator: calculator,
		multiplier: multiplier,
	}
}

// GetBalance reports what a wallet could claim right now. Unknown wallets
// are registered on the spot with zero points.
func (s *ClaimService) GetBalance(ctx context.Context, wallet string) (domain.ClaimBalance, error) {
	user, err := s.users.FindOrCreateByWallet(ctx, wallet)
	if err != nil {
		return domain.ClaimBalance{}, fmt.Errorf("s.users.FindOrCreateByWallet -> %w", err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.ClaimBalance{}, fmt.Errorf("s.settings.Get -> %w", err)
	}

	hasPass, bonus, err := s.passBonus(ctx, wallet)
	if err != nil {
		return domain.ClaimBalance{}, err
	}

	claimable := s.calculator.ComputeClaimable(user.ActivityTier, user.TotalPoints, settings.MaxClaimAmount, hasPass, bonus)

	multiplier := 1.0
	if hasPass && bonus > 0 {
		multiplier = 1 + bonus
	}

	return domain.ClaimBalance{
		TotalPoints:     user.TotalPoints,
		ClaimableTokens: claimable,
		TotalClaimed:    user.TotalClaimed,
		ClaimMultiplier: multiplier,
	}, nil
}

// ProcessClaim validates a claim against the policy gates, computes the fee
// and records the claim. Auto-approved claims credit the user immediately;
// the rest wait for manual review and credit nothing yet.
func (s *ClaimService) ProcessClaim(ctx context.Context, wallet string, amount int64) (domain.ClaimRecord, error) {
	user, err := s.users.FindOrCreateByWallet(ctx, wallet)
	if err != nil {
		return domain.ClaimRecord{}, fmt.Errorf("s.users.FindOrCreateByWallet -> %w", err)
	}

	decision, err := s.policy.CanClaim(ctx, user, amount)
	if err != nil {
		return domain.ClaimRecord{}, fmt.Errorf("s.policy.CanClaim -> %w", err)
	}
	if !decision.Allowed {
		return domain.ClaimRecord{}, &PolicyDeniedError{Reason: decision.Reason}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.ClaimRecord{}, fmt.Errorf("s.settings.Get -> %w", err)
	}

	hasPass, bonus, err := s.passBonus(ctx, wallet)
	if err != nil {
		return domain.ClaimRecord{}, err
	}

	claimable := s.calculator.ComputeClaimable(user.ActivityTier, user.TotalPoints, settings.MaxClaimAmount, hasPass, bonus)
	if claimable <= 0 || amount > claimable {
		return domain.ClaimRecord{}, ErrNothingToClaim
	}

	gross := amount
	if hasPass && bonus > 0 {
		gross = int64(math.Floor(float64(amount) * (1 + bonus)))
	}

	fee := int64(0)
	if settings.FeePercentage > 0 {
		fee = int64(math.Floor(float64(gross) * settings.FeePercentage / 100))
	}
	net := gross - fee

	status := domain.ClaimPending
	credit := int64(0)
	if decision.AutoApproved {
		status = domain.ClaimAutoApproved
		credit = net
	}

	record, err := s.claims.CreateAndCredit(ctx, domain.ClaimRecord{
		UserID:        user.ID,
		WalletAddress: wallet,
		Amount:        net,
		FeePaid:       fee,
		Status:        status,
	}, credit, s.policy.WriteGuard(settings))
	if err != nil {
		// The insert re-checks the cooldown and daily limit under the user
		// row lock; a loss there is a policy denial, not a storage fault.
		switch {
		case errors.Is(err, repository.ErrDailyLimitExceeded):
			return domain.ClaimRecord{}, &PolicyDeniedError{Reason: domain.DenyDailyLimitReached}
		case errors.Is(err, repository.ErrCooldownViolated):
			return domain.ClaimRecord{}, &PolicyDeniedError{Reason: domain.DenyCooldownActive}
		}

		return domain.ClaimRecord{}, fmt.Errorf("s.claims.CreateAndCredit -> %w", err)
	}

	return record, nil
}

func (s *ClaimService) History(ctx context.Context, wallet string, limit int) ([]domain.ClaimRecord, error) {
	user, err := s.users.FindOrCreateByWallet(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindOrCreateByWallet -> %w", err)
	}

	records, err := s.claims.History(ctx, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("s.claims.History -> %w", err)
	}

	return records, nil
}

func (s *ClaimService) passBonus(ctx context.Context, wallet string) (bool, float64, error) {
	_, err := s.mints.FindByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, repository.ErrMintNotFound) {
			return false, 0, nil
		}

		return false, 0, fmt.Errorf("s.mints.FindByWallet -> %w", err)
	}

	bonus, err := s.multiplier.PassMultiplier(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("s.multiplier.PassMultiplier -> %w", err)
	}

	return true, bonus, nil
}
