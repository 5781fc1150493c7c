package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/chain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
)

var (
	// ErrNotApproved: the wallet has no Approved, unclaimed approval record.
	ErrNotApproved = errors.New("wallet is not approved for minting")
	// ErrAlreadyClaimed: a mint record already exists for the wallet. Terminal.
	ErrAlreadyClaimed = errors.New("wallet has already claimed its pass")
	// ErrPaymentUnverified: the payment proof could not be verified. The
	// caller may resubmit or re-pay.
	ErrPaymentUnverified = errors.New("payment could not be verified")
	// ErrReconciliationRequired: payment was verified and consumed but the
	// mint could not be completed. Never retried automatically; an operator
	// must reconcile the paid-for entitlement.
	ErrReconciliationRequired = errors.New("mint requires manual reconciliation")
)

type MintRepository interface {
	FindByWallet(ctx context.Context, wallet string) (domain.MintRecord, error)
	CreateMintAndClaim(ctx context.Context, record domain.MintRecord, userID uint, now time.Time) (domain.MintRecord, error)
}

type PaymentVerifier interface {
	GetTransfer(ctx context.Context, signature string) (chain.Transfer, error)
}

type MintSubmitter interface {
	MintAndTransfer(ctx context.Context, recipient string) (chain.MintResult, error)
}

// MintService turns a verified payment into exactly one pass per wallet.
type MintService struct {
	mints     MintRepository
	approvals ApprovalRepository
	users     ApprovalUserRepository
	intents   PaymentIntentRepository
	verifier  PaymentVerifier
	submitter MintSubmitter

	receivingAddress string
	now              NowFunc
}

func NewMintService(
	mints MintRepository,
	approvals ApprovalRepository,
	users ApprovalUserRepository,
	intents PaymentIntentRepository,
	verifier PaymentVerifier,
	submitter MintSubmitter,
	receivingAddress string,
	now NowFunc,
) *MintService {
	if now == nil {
		now = time.Now
	}

	return &MintService{
		mints:            mints,
		approvals:        approvals,
		users:            users,
		intents:          intents,
		verifier:         verifier,
		submitter:        submitter,
		receivingAddress: receivingAddress,
		now:              now,
	}
}

// ProcessMint verifies the submitted payment proof and performs the mint.
//
// Ordering matters: the payment intent is consumed (single-use, atomic)
// before the chain submission, so two concurrent attempts with the same
// proof can never both reach the submitter. The MintRecord insert and the
// Approved -> Claimed transition then commit in one storage transaction;
// its unique constraints are the final backstop against a double mint.
func (s *MintService) ProcessMint(ctx context.Context, wallet, paymentSignature string) (domain.MintRecord, error) {
	user, err := s.users.FindByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.MintRecord{}, ErrNotApproved
		}

		return domain.MintRecord{}, fmt.Errorf("s.users.FindByWallet -> %w", err)
	}

	approval, err := s.approvals.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrApprovalNotFound) {
			return domain.MintRecord{}, ErrNotApproved
		}

		return domain.MintRecord{}, fmt.Errorf("s.approvals.FindByUserID -> %w", err)
	}
	if approval.Claimed {
		return domain.MintRecord{}, ErrAlreadyClaimed
	}
	if !approval.Approved {
		return domain.MintRecord{}, ErrNotApproved
	}

	if _, err = s.mints.FindByWallet(ctx, wallet); err == nil {
		return domain.MintRecord{}, ErrAlreadyClaimed
	} else if !errors.Is(err, repository.ErrMintNotFound) {
		return domain.MintRecord{}, fmt.Errorf("s.mints.FindByWallet -> %w", err)
	}

	now := s.now()
	intent, err := s.intents.FindActiveByWallet(ctx, wallet, now)
	if err != nil {
		if errors.Is(err, repository.ErrIntentNotFound) {
			return domain.MintRecord{}, fmt.Errorf("%w: no active payment intent", ErrPaymentUnverified)
		}

		return domain.MintRecord{}, fmt.Errorf("s.intents.FindActiveByWallet -> %w", err)
	}

	transfer, err := s.verifier.GetTransfer(ctx, paymentSignature)
	if err != nil {
		return domain.MintRecord{}, fmt.Errorf("%w: %v", ErrPaymentUnverified, err)
	}
	if transfer.Destination != s.receivingAddress ||
		transfer.Source != wallet ||
		transfer.Lamports < intent.Lamports {
		return domain.MintRecord{}, ErrPaymentUnverified
	}

	consumed, err := s.intents.Consume(ctx, intent.ID, now)
	if err != nil {
		return domain.MintRecord{}, fmt.Errorf("s.intents.Consume -> %w", err)
	}
	if !consumed {
		// Lost the race (or the intent expired between read and consume).
		return domain.MintRecord{}, fmt.Errorf("%w: payment proof already consumed", ErrPaymentUnverified)
	}

	// Past this point the payment is verified and its proof is spent: any
	// failure is a reconciliation case, never a silent drop.
	result, err := s.submitter.MintAndTransfer(ctx, wallet)
	if err != nil {
		s.logReconciliation(wallet, paymentSignature, intent.ID, "chain submit failed", err)
		return domain.MintRecord{}, ErrReconciliationRequired
	}

	record, err := s.mints.CreateMintAndClaim(ctx, domain.MintRecord{
		WalletAddress:     wallet,
		MintAddress:       result.MintAddress,
		CreateSignature:   result.CreateSignature,
		TransferSignature: result.TransferSignature,
		PaymentSignature:  paymentSignature,
	}, user.ID, now)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMintExists):
			return domain.MintRecord{}, ErrAlreadyClaimed
		case errors.Is(err, repository.ErrPaymentSignatureUsed):
			return domain.MintRecord{}, fmt.Errorf("%w: payment proof already consumed", ErrPaymentUnverified)
		default:
			s.logReconciliation(wallet, paymentSignature, intent.ID, "mint record write failed after chain submit", err)
			return domain.MintRecord{}, ErrReconciliationRequired
		}
	}

	return record, nil
}

func (s *MintService) logReconciliation(wallet, paymentSignature, intentID, stage string, err error) {
	zap.L().Error("mint requires manual reconciliation",
		zap.String("wallet", wallet),
		zap.String("payment_signature", paymentSignature),
		zap.String("intent_id", intentID),
		zap.String("stage", stage),
		zap.Error(err),
	)
}
