package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
)

// NowFunc is the injected time source. Production wiring passes time.Now;
// tests pass a fixed clock.
type NowFunc func() time.Time

// PolicyDeniedError carries the machine-distinguishable denial reason.
type PolicyDeniedError struct {
	Reason domain.DenyReason
}

func (e *PolicyDeniedError) Error() string {
	return fmt.Sprintf("claim denied: %v", e.Reason)
}

type PolicySettingsRepository interface {
	Get(ctx context.Context) (domain.ClaimSettings, error)
	FindControl(ctx context.Context, userID uint) (domain.UserClaimControl, error)
}

type PolicyClaimRepository interface {
	LastSuccessfulClaimAt(ctx context.Context, userID uint) (*time.Time, error)
	CountSince(ctx context.Context, userID uint, since time.Time) (int, error)
}

// PolicyService is the claim gate. Every claim attempt flows through
// CanClaim before any token moves.
type PolicyService struct {
	settingsRepo PolicySettingsRepository
	claimRepo    PolicyClaimRepository
	now          NowFunc
}

func NewPolicyService(settingsRepo PolicySettingsRepository, claimRepo PolicyClaimRepository, now NowFunc) *PolicyService {
	if now == nil {
		now = time.Now
	}

	return &PolicyService{
		settingsRepo: settingsRepo,
		claimRepo:    claimRepo,
		now:          now,
	}
}

func (s *PolicyService) CanClaim(ctx context.Context, user domain.User, requestedAmount int64) (domain.PolicyDecision, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return domain.PolicyDecision{}, fmt.Errorf("s.settingsRepo.Get -> %w", err)
	}

	var control *domain.UserClaimControl
	found, err := s.settingsRepo.FindControl(ctx, user.ID)
	if err == nil {
		control = &found
	} else if !errors.Is(err, repository.ErrControlNotFound) {
		return domain.PolicyDecision{}, fmt.Errorf("s.settingsRepo.FindControl -> %w", err)
	}

	lastClaim, err := s.claimRepo.LastSuccessfulClaimAt(ctx, user.ID)
	if err != nil {
		return domain.PolicyDecision{}, fmt.Errorf("s.claimRepo.LastSuccessfulClaimAt -> %w", err)
	}

	now := s.now()
	todayCount, err := s.claimRepo.CountSince(ctx, user.ID, startOfDay(now, settings.Schedule.Timezone))
	if err != nil {
		return domain.PolicyDecision{}, fmt.Errorf("s.claimRepo.CountSince -> %w", err)
	}

	return Evaluate(settings, control, user, requestedAmount, lastClaim, todayCount, now), nil
}

// WriteGuard derives the write-time re-check matching the cooldown and
// daily-limit gates. CanClaim reads claim history without a lock, so the
// claim insert re-applies these bounds inside its own transaction.
func (s *PolicyService) WriteGuard(settings domain.ClaimSettings) domain.ClaimGuard {
	now := s.now()
	guard := domain.ClaimGuard{
		DayStart:       startOfDay(now, settings.Schedule.Timezone),
		MaxDailyClaims: settings.MaxDailyClaimsPerUser,
	}

	if settings.CooldownHours > 0 {
		cutoff := now.Add(-time.Duration(settings.CooldownHours) * time.Hour)
		guard.CooldownCutoff = &cutoff
	}

	return guard
}

// Evaluate applies the claim gates in order and short-circuits on the first
// failure:
//
//  1. global claims-enabled, unless overridden per user
//  2. schedule window
//  3. amount within [min, max]
//  4. cooldown since the last successful claim
//  5. daily claim count
//
// Auto-approval is decided only after every gate passes; it never bypasses
// the explicit global and schedule gates.
func Evaluate(settings domain.ClaimSettings, control *domain.UserClaimControl, user domain.User, requestedAmount int64, lastClaim *time.Time, todayCount int, now time.Time) domain.PolicyDecision {
	if control != nil {
		if !control.ClaimsEnabled {
			return deny(domain.DenyUserDisabled)
		}
	} else if !settings.ClaimsEnabled {
		return deny(domain.DenyGloballyDisabled)
	}

	if settings.Schedule.Enabled {
		localNow := inTimezone(now, settings.Schedule.Timezone)
		start := inTimezone(settings.Schedule.StartTime, settings.Schedule.Timezone)
		end := inTimezone(settings.Schedule.EndTime, settings.Schedule.Timezone)
		if localNow.Before(start) || localNow.After(end) {
			return deny(domain.DenyOutsideSchedule)
		}
	}

	if requestedAmount < settings.MinClaimAmount ||
		(settings.MaxClaimAmount > 0 && requestedAmount > settings.MaxClaimAmount) {
		return deny(domain.DenyAmountOutOfRange)
	}

	if settings.CooldownHours > 0 && lastClaim != nil {
		cooldownEnds := lastClaim.Add(time.Duration(settings.CooldownHours) * time.Hour)
		if now.Before(cooldownEnds) {
			return deny(domain.DenyCooldownActive)
		}
	}

	if settings.MaxDailyClaimsPerUser > 0 && todayCount >= settings.MaxDailyClaimsPerUser {
		return deny(domain.DenyDailyLimitReached)
	}

	auto := settings.AutoApproval.Enabled &&
		requestedAmount <= settings.AutoApproval.MaxAmount &&
		user.Level >= settings.AutoApproval.MinUserLevel

	return domain.PolicyDecision{Allowed: true, AutoApproved: auto}
}

func deny(reason domain.DenyReason) domain.PolicyDecision {
	return domain.PolicyDecision{Allowed: false, Reason: reason}
}

func inTimezone(t time.Time, tz string) time.Time {
	if tz == "" {
		return t.UTC()
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return t.UTC()
	}

	return t.In(loc)
}

func startOfDay(now time.Time, tz string) time.Time {
	local := inTimezone(now, tz)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
