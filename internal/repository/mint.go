package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

var (
	ErrMintNotFound         = dao.ErrMintNotFound
	ErrMintExists           = dao.ErrMintExists
	ErrPaymentSignatureUsed = dao.ErrPaymentSignatureUsed
)

type MintDAO interface {
	FindByWallet(ctx context.Context, wallet string) (dao.MintRecord, error)
	InsertMintAndClaim(ctx context.Context, record dao.MintRecord, userID uint, now time.Time) (dao.MintRecord, error)
}

type MintRepository struct {
	dao MintDAO
}

func NewMintRepository(dao MintDAO) *MintRepository {
	return &MintRepository{
		dao: dao,
	}
}

func (r *MintRepository) FindByWallet(ctx context.Context, wallet string) (domain.MintRecord, error) {
	found, err := r.dao.FindByWallet(ctx, wallet)
	if err != nil {
		return domain.MintRecord{}, fmt.Errorf("r.dao.FindByWallet -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// CreateMintAndClaim persists the mint and flips the approval to Claimed in
// one storage transaction. See dao.MintDAO.InsertMintAndClaim.
func (r *MintRepository) CreateMintAndClaim(ctx context.Context, record domain.MintRecord, userID uint, now time.Time) (domain.MintRecord, error) {
	created, err := r.dao.InsertMintAndClaim(ctx, dao.MintRecord{
		WalletAddress:     record.WalletAddress,
		MintAddress:       record.MintAddress,
		CreateSignature:   record.CreateSignature,
		TransferSignature: record.TransferSignature,
		PaymentSignature:  record.PaymentSignature,
	}, userID, now)
	if err != nil {
		return domain.MintRecord{}, fmt.Errorf("r.dao.InsertMintAndClaim -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MintRepository) daoToDomain(m dao.MintRecord) domain.MintRecord {
	return domain.MintRecord{
		ID:                m.ID,
		WalletAddress:     m.WalletAddress,
		NFTNumber:         m.NFTNumber,
		MintAddress:       m.MintAddress,
		CreateSignature:   m.CreateSignature,
		TransferSignature: m.TransferSignature,
		PaymentSignature:  m.PaymentSignature,
		CreatedAt:         m.CreatedAt,
	}
}
