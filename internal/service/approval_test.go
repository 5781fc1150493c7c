package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

func fixedClock(t time.Time) NowFunc {
	return func() time.Time { return t }
}

func TestApprovalService_GetStatusByWallet(t *testing.T) {
	users := newFakeUserRepo(domain.User{ID: 1, WalletAddress: "wallet-1"})

	t.Run("no record yet means unapproved", func(t *testing.T) {
		svc := NewApprovalService(newFakeApprovalRepo(), users, fixedClock(testNow))

		record, err := svc.GetStatusByWallet(context.Background(), "wallet-1")
		require.NoError(t, err)
		assert.Equal(t, uint(1), record.UserID)
		assert.False(t, record.Approved)
		assert.False(t, record.Claimed)
	})

	t.Run("existing record is returned", func(t *testing.T) {
		approvals := newFakeApprovalRepo(domain.ApprovalRecord{UserID: 1, Approved: true})
		svc := NewApprovalService(approvals, users, fixedClock(testNow))

		record, err := svc.GetStatusByWallet(context.Background(), "wallet-1")
		require.NoError(t, err)
		assert.True(t, record.Approved)
	})

	t.Run("unknown wallet errors", func(t *testing.T) {
		svc := NewApprovalService(newFakeApprovalRepo(), users, fixedClock(testNow))

		_, err := svc.GetStatusByWallet(context.Background(), "no-such-wallet")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestApprovalService_SetApproval(t *testing.T) {
	t.Run("approve sets the record", func(t *testing.T) {
		users := newFakeUserRepo(domain.User{ID: 1})
		approvals := newFakeApprovalRepo()
		svc := NewApprovalService(approvals, users, fixedClock(testNow))

		record, err := svc.SetApproval(context.Background(), 1, true, 99)
		require.NoError(t, err)
		assert.True(t, record.Approved)
		require.NotNil(t, record.ApprovedBy)
		assert.Equal(t, uint(99), *record.ApprovedBy)
		require.NotNil(t, record.ApprovedAt)
		assert.Equal(t, testNow, *record.ApprovedAt)
	})

	t.Run("revoke clears approval", func(t *testing.T) {
		users := newFakeUserRepo(domain.User{ID: 1})
		approvals := newFakeApprovalRepo(domain.ApprovalRecord{UserID: 1, Approved: true})
		svc := NewApprovalService(approvals, users, fixedClock(testNow))

		record, err := svc.SetApproval(context.Background(), 1, false, 99)
		require.NoError(t, err)
		assert.False(t, record.Approved)
	})

	t.Run("revoke after claim fails and leaves state unchanged", func(t *testing.T) {
		users := newFakeUserRepo(domain.User{ID: 1})
		approvals := newFakeApprovalRepo(domain.ApprovalRecord{UserID: 1, Approved: true, Claimed: true})
		svc := NewApprovalService(approvals, users, fixedClock(testNow))

		_, err := svc.SetApproval(context.Background(), 1, false, 99)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		record := approvals.get(1)
		assert.True(t, record.Approved)
		assert.True(t, record.Claimed)
	})

	t.Run("unknown user fails", func(t *testing.T) {
		svc := NewApprovalService(newFakeApprovalRepo(), newFakeUserRepo(), fixedClock(testNow))

		_, err := svc.SetApproval(context.Background(), 42, true, 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
