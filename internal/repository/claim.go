package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

var (
	ErrClaimNotFound      = dao.ErrClaimNotFound
	ErrDailyLimitExceeded = dao.ErrDailyLimitExceeded
	ErrCooldownViolated   = dao.ErrCooldownViolated
)

type ClaimDAO interface {
	Insert(ctx context.Context, record dao.ClaimRecord) (dao.ClaimRecord, error)
	InsertAndCredit(ctx context.Context, record dao.ClaimRecord, credit int64, guard dao.ClaimGuard) (dao.ClaimRecord, error)
	LastSuccessfulClaimAt(ctx context.Context, userID uint) (*time.Time, error)
	CountSince(ctx context.Context, userID uint, since time.Time) (int, error)
	FindByUserID(ctx context.Context, userID uint, limit int) ([]dao.ClaimRecord, error)
}

type ClaimRepository struct {
	dao ClaimDAO
}

func NewClaimRepository(dao ClaimDAO) *ClaimRepository {
	return &ClaimRepository{
		dao: dao,
	}
}

func (r *ClaimRepository) CreateAndCredit(ctx context.Context, record domain.ClaimRecord, credit int64, guard domain.ClaimGuard) (domain.ClaimRecord, error) {
	created, err := r.dao.InsertAndCredit(ctx, dao.ClaimRecord{
		UserID:        record.UserID,
		WalletAddress: record.WalletAddress,
		Amount:        record.Amount,
		FeePaid:       record.FeePaid,
		Status:        string(record.Status),
		TxHash:        record.TxHash,
	}, credit, dao.ClaimGuard{
		CooldownCutoff: guard.CooldownCutoff,
		DayStart:       guard.DayStart,
		MaxDailyClaims: guard.MaxDailyClaims,
	})
	if err != nil {
		return domain.ClaimRecord{}, fmt.Errorf("r.dao.InsertAndCredit -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ClaimRepository) LastSuccessfulClaimAt(ctx context.Context, userID uint) (*time.Time, error) {
	at, err := r.dao.LastSuccessfulClaimAt(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.LastSuccessfulClaimAt -> %w", err)
	}

	return at, nil
}

func (r *ClaimRepository) CountSince(ctx context.Context, userID uint, since time.Time) (int, error) {
	count, err := r.dao.CountSince(ctx, userID, since)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountSince -> %w", err)
	}

	return count, nil
}

func (r *ClaimRepository) History(ctx context.Context, userID uint, limit int) ([]domain.ClaimRecord, error) {
	records, err := r.dao.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	history := make([]domain.ClaimRecord, 0, len(records))
	for _, rec := range records {
		history = append(history, r.daoToDomain(rec))
	}

	return history, nil
}

func (r *ClaimRepository) daoToDomain(c dao.ClaimRecord) domain.ClaimRecord {
	return domain.ClaimRecord{
		ID:            c.ID,
		UserID:        c.UserID,
		WalletAddress: c.WalletAddress,
		Amount:        c.Amount,
		FeePaid:       c.FeePaid,
		Status:        domain.ClaimStatus(c.Status),
		TxHash:        c.TxHash,
		CreatedAt:     c.CreatedAt,
	}
}
