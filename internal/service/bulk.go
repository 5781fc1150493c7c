package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

var (
	// ErrConfirmationRequired guards large batches against fat-finger
	// mistakes: the caller must first obtain a confirmation token.
	ErrConfirmationRequired = errors.New("bulk operation requires a confirmation token")
	ErrEmptyBatch           = errors.New("bulk operation has no targets")
)

const confirmationTTL = 5 * time.Minute

type BulkControlRepository interface {
	UpsertControl(ctx context.Context, control domain.UserClaimControl) (domain.UserClaimControl, error)
}

type BulkUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// BulkService applies an admin decision across many users. Each user is
// processed independently so one failure never aborts the batch, and the
// caller gets a result per user.
type BulkService struct {
	controls  BulkControlRepository
	users     BulkUserRepository
	approvals *ApprovalService

	threshold int
	now       NowFunc

	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewBulkService(controls BulkControlRepository, users BulkUserRepository, approvals *ApprovalService, threshold int, now NowFunc) *BulkService {
	if now == nil {
		now = time.Now
	}
	if threshold <= 0 {
		threshold = 10
	}

	return &BulkService{
		controls:  controls,
		users:     users,
		approvals: approvals,
		threshold: threshold,
		now:       now,
		tokens:    make(map[string]time.Time),
	}
}

// RequestConfirmation issues a short-lived token the caller must echo back
// when the batch exceeds the confirmation threshold.
func (s *BulkService) RequestConfirmation() string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = s.now().Add(confirmationTTL)

	return token
}

func (s *BulkService) consumeConfirmation(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	delete(s.tokens, token)

	return s.now().Before(expiry)
}

// BulkSetClaimStatus writes the same UserClaimControl to every listed user.
// UserClaimControl rows are independent, so the per-user writes run in
// parallel with no cross-user locking.
func (s *BulkService) BulkSetClaimStatus(ctx context.Context, userIDs []uint, enabled bool, reason string, actorID uint, confirmToken string) ([]domain.BulkUserResult, error) {
	if len(userIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(userIDs) > s.threshold && !s.consumeConfirmation(confirmToken) {
		return nil, ErrConfirmationRequired
	}

	results := make([]domain.BulkUserResult, len(userIDs))

	var wg sync.WaitGroup
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			results[i] = s.setClaimStatus(ctx, userID, enabled, reason, actorID)
		}(i, userID)
	}
	wg.Wait()

	return results, nil
}

func (s *BulkService) setClaimStatus(ctx context.Context, userID uint, enabled bool, reason string, actorID uint) domain.BulkUserResult {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.BulkUserResult{UserID: userID, Error: fmt.Sprintf("user lookup failed: %v", err)}
	}

	_, err := s.controls.UpsertControl(ctx, domain.UserClaimControl{
		UserID:        userID,
		ClaimsEnabled: enabled,
		Reason:        reason,
		UpdatedBy:     actorID,
	})
	if err != nil {
		return domain.BulkUserResult{UserID: userID, Error: fmt.Sprintf("control write failed: %v", err)}
	}

	return domain.BulkUserResult{UserID: userID, Success: true}
}

// BulkSetApproval applies the same approve/revoke decision to every listed
// user, reporting per-user outcomes. Batches above the threshold need a
// confirmation token, same as BulkSetClaimStatus.
func (s *BulkService) BulkSetApproval(ctx context.Context, userIDs []uint, approved bool, actorID uint, confirmToken string) ([]domain.BulkUserResult, error) {
	if len(userIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(userIDs) > s.threshold && !s.consumeConfirmation(confirmToken) {
		return nil, ErrConfirmationRequired
	}

	results := make([]domain.BulkUserResult, len(userIDs))

	var wg sync.WaitGroup
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			if _, err := s.approvals.SetApproval(ctx, userID, approved, actorID); err != nil {
				results[i] = domain.BulkUserResult{UserID: userID, Error: err.Error()}
				return
			}
			results[i] = domain.BulkUserResult{UserID: userID, Success: true}
		}(i, userID)
	}
	wg.Wait()

	return results, nil
}
