package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
)

var (
	ErrApprovalNotFound  = repository.ErrApprovalNotFound
	ErrInvalidTransition = repository.ErrInvalidTransition
	ErrUserNotFound      = repository.ErrUserNotFound
)

type ApprovalRepository interface {
	FindByUserID(ctx context.Context, userID uint) (domain.ApprovalRecord, error)
	Approve(ctx context.Context, userID, approverID uint, now time.Time) (domain.ApprovalRecord, error)
	Revoke(ctx context.Context, userID, actorID uint) (domain.ApprovalRecord, error)
}

type ApprovalUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByWallet(ctx context.Context, wallet string) (domain.User, error)
}

// ApprovalService is the Unapproved -> Approved -> Claimed state machine.
// Claimed is terminal; only the mint processor ever sets it.
type ApprovalService struct {
	repo     ApprovalRepository
	userRepo ApprovalUserRepository
	now      NowFunc
}

func NewApprovalService(repo ApprovalRepository, userRepo ApprovalUserRepository, now NowFunc) *ApprovalService {
	if now == nil {
		now = time.Now
	}

	return &ApprovalService{
		repo:     repo,
		userRepo: userRepo,
		now:      now,
	}
}

// GetStatusByWallet reads the approval state for a wallet. A user with no
// record yet is simply Unapproved, not an error.
func (s *ApprovalService) GetStatusByWallet(ctx context.Context, wallet string) (domain.ApprovalRecord, error) {
	user, err := s.userRepo.FindByWallet(ctx, wallet)
	if err != nil {
		return domain.ApprovalRecord{}, fmt.Errorf("s.userRepo.FindByWallet -> %w", err)
	}

	record, err := s.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrApprovalNotFound) {
			return domain.ApprovalRecord{UserID: user.ID}, nil
		}

		return domain.ApprovalRecord{}, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return record, nil
}

// SetApproval applies an admin approve or revoke decision.
func (s *ApprovalService) SetApproval(ctx context.Context, userID uint, approved bool, actorID uint) (domain.ApprovalRecord, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return domain.ApprovalRecord{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	if approved {
		record, err := s.repo.Approve(ctx, userID, actorID, s.now())
		if err != nil {
			return domain.ApprovalRecord{}, fmt.Errorf("s.repo.Approve -> %w", err)
		}

		return record, nil
	}

	record, err := s.repo.Revoke(ctx, userID, actorID)
	if err != nil {
		return domain.ApprovalRecord{}, fmt.Errorf("s.repo.Revoke -> %w", err)
	}

	return record, nil
}
