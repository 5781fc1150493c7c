package dao_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/db"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		// No docker available; every test below skips.
		os.Exit(m.Run())
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=testdb",
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s/testdb?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = db.OpenPostgresWithURL(dsn)
		return err
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	code := m.Run()

	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("docker is not available")
	}

	return testDB
}

func createUser(t *testing.T, gormDB *gorm.DB, wallet string) dao.User {
	t.Helper()

	user, err := dao.NewUserDAO(gormDB).Insert(context.Background(), dao.User{
		WalletAddress: wallet,
		ActivityTier:  "HIGH",
	})
	require.NoError(t, err)

	return user
}

func TestUserDAO(t *testing.T) {
	gormDB := requireDB(t)
	users := dao.NewUserDAO(gormDB)
	ctx := context.Background()

	t.Run("duplicate wallet is rejected", func(t *testing.T) {
		createUser(t, gormDB, "UserDupWallet111")

		_, err := users.Insert(ctx, dao.User{WalletAddress: "UserDupWallet111"})
		assert.ErrorIs(t, err, dao.ErrWalletExists)
	})

	t.Run("find-or-create is idempotent", func(t *testing.T) {
		first, err := users.FindOrCreateByWallet(ctx, "UserFirstTouch11")
		require.NoError(t, err)

		second, err := users.FindOrCreateByWallet(ctx, "UserFirstTouch11")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "LOW", second.ActivityTier)
	})

	t.Run("claimed tokens accumulate", func(t *testing.T) {
		user := createUser(t, gormDB, "UserClaimedAccum")

		require.NoError(t, users.AddClaimedTokens(ctx, user.ID, 100))
		require.NoError(t, users.AddClaimedTokens(ctx, user.ID, 50))

		got, err := users.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(150), got.TotalClaimed)

		assert.ErrorIs(t, users.AddClaimedTokens(ctx, 999_999, 1), dao.ErrUserNotFound)
	})
}

func TestApprovalDAO(t *testing.T) {
	gormDB := requireDB(t)
	approvals := dao.NewApprovalDAO(gormDB)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("approve creates the record lazily", func(t *testing.T) {
		user := createUser(t, gormDB, "ApprovalLazy1111")

		record, err := approvals.Approve(ctx, user.ID, 1, now)
		require.NoError(t, err)
		assert.True(t, record.Approved)
		require.NotNil(t, record.ApprovedBy)
		assert.Equal(t, uint(1), *record.ApprovedBy)
	})

	t.Run("revoke clears approval", func(t *testing.T) {
		user := createUser(t, gormDB, "ApprovalRevoke11")

		_, err := approvals.Approve(ctx, user.ID, 1, now)
		require.NoError(t, err)

		record, err := approvals.Revoke(ctx, user.ID, 1)
		require.NoError(t, err)
		assert.False(t, record.Approved)
		assert.Nil(t, record.ApprovedAt)
	})

	t.Run("revoke without a record", func(t *testing.T) {
		_, err := approvals.Revoke(ctx, 999_999, 1)
		assert.ErrorIs(t, err, dao.ErrApprovalNotFound)
	})

	t.Run("claimed record is terminal", func(t *testing.T) {
		user := createUser(t, gormDB, "ApprovalClaimed1")

		_, err := approvals.Approve(ctx, user.ID, 1, now)
		require.NoError(t, err)

		_, err = dao.NewMintDAO(gormDB).InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    user.WalletAddress,
			MintAddress:      "MintClaimedTerm1",
			PaymentSignature: "sig-claimed-terminal",
		}, user.ID, now)
		require.NoError(t, err)

		_, err = approvals.Revoke(ctx, user.ID, 1)
		assert.ErrorIs(t, err, dao.ErrInvalidTransition)

		_, err = approvals.Approve(ctx, user.ID, 1, now)
		assert.ErrorIs(t, err, dao.ErrInvalidTransition)
	})
}

func TestMintDAO_InsertMintAndClaim(t *testing.T) {
	gormDB := requireDB(t)
	approvals := dao.NewApprovalDAO(gormDB)
	mints := dao.NewMintDAO(gormDB)
	ctx := context.Background()
	now := time.Now().UTC()

	approvedUser := func(t *testing.T, wallet string) dao.User {
		user := createUser(t, gormDB, wallet)
		_, err := approvals.Approve(ctx, user.ID, 1, now)
		require.NoError(t, err)
		return user
	}

	t.Run("mint flips the approval to claimed", func(t *testing.T) {
		user := approvedUser(t, "MintHappyPath111")

		record, err := mints.InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    user.WalletAddress,
			MintAddress:      "MintHappyAddr111",
			PaymentSignature: "sig-mint-happy",
		}, user.ID, now)
		require.NoError(t, err)
		assert.Positive(t, record.NFTNumber)

		approval, err := approvals.FindByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, approval.Claimed)
	})

	t.Run("one pass per wallet", func(t *testing.T) {
		user := approvedUser(t, "MintOnePerWallet")

		_, err := mints.InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    user.WalletAddress,
			PaymentSignature: "sig-one-per-wallet",
		}, user.ID, now)
		require.NoError(t, err)

		_, err = mints.InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    user.WalletAddress,
			PaymentSignature: "sig-one-per-wallet-2",
		}, user.ID, now)
		assert.ErrorIs(t, err, dao.ErrMintExists)
	})

	t.Run("payment signature is single use", func(t *testing.T) {
		first := approvedUser(t, "MintSigReuseA111")
		second := approvedUser(t, "MintSigReuseB111")

		_, err := mints.InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    first.WalletAddress,
			PaymentSignature: "sig-single-use",
		}, first.ID, now)
		require.NoError(t, err)

		_, err = mints.InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    second.WalletAddress,
			PaymentSignature: "sig-single-use",
		}, second.ID, now)
		assert.ErrorIs(t, err, dao.ErrPaymentSignatureUsed)
	})

	t.Run("unapproved user cannot mint", func(t *testing.T) {
		user := createUser(t, gormDB, "MintUnapproved11")

		_, err := mints.InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    user.WalletAddress,
			PaymentSignature: "sig-unapproved",
		}, user.ID, now)
		assert.ErrorIs(t, err, dao.ErrInvalidTransition)

		_, err = mints.FindByWallet(ctx, user.WalletAddress)
		assert.ErrorIs(t, err, dao.ErrMintNotFound)
	})

	t.Run("nft numbers are sequential", func(t *testing.T) {
		a := approvedUser(t, "MintSequentialA1")
		b := approvedUser(t, "MintSequentialB1")

		first, err := mints.InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    a.WalletAddress,
			PaymentSignature: "sig-seq-a",
		}, a.ID, now)
		require.NoError(t, err)

		second, err := mints.InsertMintAndClaim(ctx, dao.MintRecord{
			WalletAddress:    b.WalletAddress,
			PaymentSignature: "sig-seq-b",
		}, b.ID, now)
		require.NoError(t, err)
		assert.Equal(t, first.NFTNumber+1, second.NFTNumber)
	})
}

func TestPaymentDAO_Consume(t *testing.T) {
	gormDB := requireDB(t)
	payments := dao.NewPaymentDAO(gormDB)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("consume is exactly once", func(t *testing.T) {
		intent, err := payments.Insert(ctx, dao.PaymentIntent{
			ID:            "intent-consume-once",
			WalletAddress: "PayConsumeOnce11",
			Lamports:      40_000_000,
			ExpiresAt:     now.Add(5 * time.Minute),
		})
		require.NoError(t, err)

		ok, err := payments.Consume(ctx, intent.ID, now)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = payments.Consume(ctx, intent.ID, now)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired intent cannot be consumed", func(t *testing.T) {
		intent, err := payments.Insert(ctx, dao.PaymentIntent{
			ID:            "intent-expired",
			WalletAddress: "PayExpired111111",
			Lamports:      40_000_000,
			ExpiresAt:     now.Add(-time.Minute),
		})
		require.NoError(t, err)

		ok, err := payments.Consume(ctx, intent.ID, now)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete expired keeps consumed intents", func(t *testing.T) {
		_, err := payments.Insert(ctx, dao.PaymentIntent{
			ID:            "intent-sweep-stale",
			WalletAddress: "PaySweepStale111",
			Lamports:      1,
			ExpiresAt:     now.Add(-time.Hour),
		})
		require.NoError(t, err)

		deleted, err := payments.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, deleted, int64(1))

		_, err = payments.FindByID(ctx, "intent-sweep-stale")
		assert.ErrorIs(t, err, dao.ErrIntentNotFound)

		// The consumed intent from the earlier subtest survives the sweep.
		_, err = payments.FindByID(ctx, "intent-consume-once")
		assert.NoError(t, err)
	})
}

func TestCampaignDAO_IncrementDistributed(t *testing.T) {
	gormDB := requireDB(t)
	campaigns := dao.NewCampaignDAO(gormDB)
	ctx := context.Background()

	campaign, err := campaigns.Insert(ctx, dao.Campaign{
		Name:             "bounded pool",
		TotalAllocation:  1000,
		DistributionType: "equal",
		Status:           "active",
	})
	require.NoError(t, err)

	require.NoError(t, campaigns.IncrementDistributed(ctx, campaign.ID, 600))
	require.NoError(t, campaigns.IncrementDistributed(ctx, campaign.ID, 400))

	err = campaigns.IncrementDistributed(ctx, campaign.ID, 1)
	assert.ErrorIs(t, err, dao.ErrAllocationExceeded)

	got, err := campaigns.FindByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Distributed)

	err = campaigns.IncrementDistributed(ctx, 999_999, 1)
	assert.ErrorIs(t, err, dao.ErrCampaignNotFound)
}

func TestClaimDAO_InsertAndCredit(t *testing.T) {
	gormDB := requireDB(t)
	claims := dao.NewClaimDAO(gormDB)
	ctx := context.Background()

	t.Run("credits the user atomically", func(t *testing.T) {
		user := createUser(t, gormDB, "ClaimCredit11111")

		record, err := claims.InsertAndCredit(ctx, dao.ClaimRecord{
			UserID:        user.ID,
			WalletAddress: user.WalletAddress,
			Amount:        490,
			FeePaid:       10,
			Status:        "auto_approved",
		}, 490, dao.ClaimGuard{})
		require.NoError(t, err)
		assert.NotZero(t, record.ID)

		got, err := dao.NewUserDAO(gormDB).FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(490), got.TotalClaimed)
	})

	t.Run("missing user fails the whole write", func(t *testing.T) {
		_, err := claims.InsertAndCredit(ctx, dao.ClaimRecord{
			UserID:        999_999,
			WalletAddress: "ClaimNoUser11111",
			Amount:        100,
			Status:        "auto_approved",
		}, 100, dao.ClaimGuard{})
		assert.ErrorIs(t, err, dao.ErrUserNotFound)

		count, err := claims.CountSince(ctx, 999_999, time.Time{})
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("concurrent claims cannot pass the daily limit", func(t *testing.T) {
		user := createUser(t, gormDB, "ClaimDailyRace11")

		guard := dao.ClaimGuard{
			DayStart:       time.Now().Add(-time.Hour),
			MaxDailyClaims: 1,
		}

		const attempts = 8

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = claims.InsertAndCredit(ctx, dao.ClaimRecord{
					UserID:        user.ID,
					WalletAddress: user.WalletAddress,
					Amount:        500,
					Status:        "auto_approved",
				}, 500, guard)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, dao.ErrDailyLimitExceeded)
		}
		assert.Equal(t, 1, succeeded)

		count, err := claims.CountSince(ctx, user.ID, guard.DayStart)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, err := dao.NewUserDAO(gormDB).FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(500), got.TotalClaimed)
	})

	t.Run("cooldown re-checked at write time", func(t *testing.T) {
		user := createUser(t, gormDB, "ClaimCooldown111")

		cutoff := time.Now().Add(-24 * time.Hour)
		guard := dao.ClaimGuard{CooldownCutoff: &cutoff}

		_, err := claims.InsertAndCredit(ctx, dao.ClaimRecord{
			UserID:        user.ID,
			WalletAddress: user.WalletAddress,
			Amount:        500,
			Status:        "auto_approved",
		}, 500, guard)
		require.NoError(t, err)

		_, err = claims.InsertAndCredit(ctx, dao.ClaimRecord{
			UserID:        user.ID,
			WalletAddress: user.WalletAddress,
			Amount:        500,
			Status:        "auto_approved",
		}, 500, guard)
		assert.ErrorIs(t, err, dao.ErrCooldownViolated)
	})
}

func TestSettingsDAO_UpsertControlWritesAudit(t *testing.T) {
	gormDB := requireDB(t)
	settings := dao.NewSettingsDAO(gormDB)
	ctx := context.Background()

	user := createUser(t, gormDB, "ControlAudit1111")

	control, err := settings.UpsertControl(ctx, dao.UserClaimControl{
		UserID:        user.ID,
		ClaimsEnabled: false,
		Reason:        "abuse",
		UpdatedBy:     42,
	})
	require.NoError(t, err)
	assert.False(t, control.ClaimsEnabled)

	_, err = settings.UpsertControl(ctx, dao.UserClaimControl{
		UserID:        user.ID,
		ClaimsEnabled: true,
		Reason:        "appeal accepted",
		UpdatedBy:     42,
	})
	require.NoError(t, err)

	var entries []dao.AuditEntry
	err = gormDB.WithContext(ctx).
		Where("user_id = ? AND action = ?", user.ID, string(domain.AuditControlChange)).
		Order("id ASC").
		Find(&entries).Error
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, uint(42), entries[0].ActorID)
	assert.Equal(t, "abuse", entries[0].Detail.Reason)
	require.NotNil(t, entries[0].Detail.Enabled)
	assert.False(t, *entries[0].Detail.Enabled)

	assert.Equal(t, "appeal accepted", entries[1].Detail.Reason)
	require.NotNil(t, entries[1].Detail.Enabled)
	assert.True(t, *entries[1].Detail.Enabled)
}
