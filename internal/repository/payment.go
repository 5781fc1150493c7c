package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

var ErrIntentNotFound = dao.ErrIntentNotFound

type PaymentDAO interface {
	Insert(ctx context.Context, intent dao.PaymentIntent) (dao.PaymentIntent, error)
	FindByID(ctx context.Context, id string) (dao.PaymentIntent, error)
	FindActiveByWallet(ctx context.Context, wallet string, now time.Time) (dao.PaymentIntent, error)
	Consume(ctx context.Context, id string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, intent domain.PaymentIntent) (domain.PaymentIntent, error) {
	created, err := r.dao.Insert(ctx, dao.PaymentIntent{
		ID:            intent.ID,
		WalletAddress: intent.WalletAddress,
		FiatAmountUSD: intent.FiatAmountUSD,
		Lamports:      intent.Lamports,
		OraclePrice:   intent.OraclePrice,
		ExpiresAt:     intent.ExpiresAt,
	})
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindActiveByWallet(ctx context.Context, wallet string, now time.Time) (domain.PaymentIntent, error) {
	found, err := r.dao.FindActiveByWallet(ctx, wallet, now)
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("r.dao.FindActiveByWallet -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) Consume(ctx context.Context, id string, now time.Time) (bool, error) {
	consumed, err := r.dao.Consume(ctx, id, now)
	if err != nil {
		return false, fmt.Errorf("r.dao.Consume -> %w", err)
	}

	return consumed, nil
}

func (r *PaymentRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := r.dao.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteExpired -> %w", err)
	}

	return deleted, nil
}

func (r *PaymentRepository) daoToDomain(p dao.PaymentIntent) domain.PaymentIntent {
	return domain.PaymentIntent{
		ID:            p.ID,
		WalletAddress: p.WalletAddress,
		FiatAmountUSD: p.FiatAmountUSD,
		Lamports:      p.Lamports,
		OraclePrice:   p.OraclePrice,
		ExpiresAt:     p.ExpiresAt,
		ConsumedAt:    p.ConsumedAt,
		CreatedAt:     p.CreatedAt,
	}
}
