package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/oracle"
)

// ErrStalePrice surfaces the oracle staleness failure to callers, who must
// re-quote rather than pay against degraded data.
var ErrStalePrice = oracle.ErrStalePrice

var lamportsPerSol = decimal.NewFromInt(1_000_000_000)

type PaymentIntentRepository interface {
	Create(ctx context.Context, intent domain.PaymentIntent) (domain.PaymentIntent, error)
	FindActiveByWallet(ctx context.Context, wallet string, now time.Time) (domain.PaymentIntent, error)
	Consume(ctx context.Context, id string, now time.Time) (bool, error)
}

type TransferBuilder interface {
	BuildTransferTransaction(ctx context.Context, from, to string, lamports uint64) (string, error)
}

type PaymentConfig struct {
	PriceUSD         decimal.Decimal
	Asset            string
	ReceivingAddress string
	IntentTTL        time.Duration
}

// PaymentService quotes the fiat-pegged mint payment: a live oracle price is
// bound to a lamport amount and a short-lived intent the mint processor later
// verifies against.
type PaymentService struct {
	intents PaymentIntentRepository
	oracle  oracle.Oracle
	builder TransferBuilder
	conf    PaymentConfig
	now     NowFunc
}

func NewPaymentService(intents PaymentIntentRepository, priceOracle oracle.Oracle, builder TransferBuilder, conf PaymentConfig, now NowFunc) *PaymentService {
	if now == nil {
		now = time.Now
	}
	if conf.IntentTTL <= 0 {
		conf.IntentTTL = 5 * time.Minute
	}

	return &PaymentService{
		intents: intents,
		oracle:  priceOracle,
		builder: builder,
		conf:    conf,
		now:     now,
	}
}

// QuotePayment computes the native amount for the fixed fiat price and
// persists a payment intent. Lamports round up so the payment always covers
// the fiat price.
func (s *PaymentService) QuotePayment(ctx context.Context, wallet string) (domain.PaymentQuote, error) {
	quote, err := s.oracle.GetPrice(ctx, s.conf.Asset)
	if err != nil {
		return domain.PaymentQuote{}, fmt.Errorf("s.oracle.GetPrice -> %w", err)
	}

	native := s.conf.PriceUSD.Div(quote.Price)
	lamports := uint64(native.Mul(lamportsPerSol).Ceil().IntPart())

	transaction, err := s.builder.BuildTransferTransaction(ctx, wallet, s.conf.ReceivingAddress, lamports)
	if err != nil {
		return domain.PaymentQuote{}, fmt.Errorf("s.builder.BuildTransferTransaction -> %w", err)
	}

	now := s.now()
	intent, err := s.intents.Create(ctx, domain.PaymentIntent{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		FiatAmountUSD: s.conf.PriceUSD,
		Lamports:      lamports,
		OraclePrice:   quote.Price,
		ExpiresAt:     now.Add(s.conf.IntentTTL),
	})
	if err != nil {
		return domain.PaymentQuote{}, fmt.Errorf("s.intents.Create -> %w", err)
	}

	return domain.PaymentQuote{
		IntentID:         intent.ID,
		Transaction:      transaction,
		RequiredNative:   native.Round(9),
		Lamports:         lamports,
		Price:            quote.Price,
		ReceivingAddress: s.conf.ReceivingAddress,
		ExpiresAt:        intent.ExpiresAt,
	}, nil
}
