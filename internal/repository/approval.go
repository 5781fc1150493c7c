package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

var (
	ErrApprovalNotFound  = dao.ErrApprovalNotFound
	ErrInvalidTransition = dao.ErrInvalidTransition
)

type ApprovalDAO interface {
	FindByUserID(ctx context.Context, userID uint) (dao.ApprovalRecord, error)
	Approve(ctx context.Context, userID, approverID uint, now time.Time) (dao.ApprovalRecord, error)
	Revoke(ctx context.Context, userID, actorID uint) (dao.ApprovalRecord, error)
}

type ApprovalRepository struct {
	dao ApprovalDAO
}

func NewApprovalRepository(dao ApprovalDAO) *ApprovalRepository {
	return &ApprovalRepository{
		dao: dao,
	}
}

func (r *ApprovalRepository) FindByUserID(ctx context.Context, userID uint) (domain.ApprovalRecord, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return domain.ApprovalRecord{}, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ApprovalRepository) Approve(ctx context.Context, userID, approverID uint, now time.Time) (domain.ApprovalRecord, error) {
	record, err := r.dao.Approve(ctx, userID, approverID, now)
	if err != nil {
		return domain.ApprovalRecord{}, fmt.Errorf("r.dao.Approve -> %w", err)
	}

	return r.daoToDomain(record), nil
}

func (r *ApprovalRepository) Revoke(ctx context.Context, userID, actorID uint) (domain.ApprovalRecord, error) {
	record, err := r.dao.Revoke(ctx, userID, actorID)
	if err != nil {
		return domain.ApprovalRecord{}, fmt.Errorf("r.dao.Revoke -> %w", err)
	}

	return r.daoToDomain(record), nil
}

func (r *ApprovalRepository) daoToDomain(rec dao.ApprovalRecord) domain.ApprovalRecord {
	return domain.ApprovalRecord{
		UserID:     rec.UserID,
		Approved:   rec.Approved,
		Claimed:    rec.Claimed,
		ApprovedAt: rec.ApprovedAt,
		ApprovedBy: rec.ApprovedBy,
		ClaimedAt:  rec.ClaimedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
