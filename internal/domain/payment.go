package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentIntent binds a fiat price to a lamport amount for one mint attempt.
// It is consumed by the mint processor or discarded on expiry; a stale intent
// forces a re-quote.
type PaymentIntent struct {
	ID            string          `json:"id"`
	WalletAddress string          `json:"wallet_address"`
	FiatAmountUSD decimal.Decimal `json:"fiat_amount_usd"`
	Lamports      uint64          `json:"lamports"`
	OraclePrice   decimal.Decimal `json:"oracle_price"`
	ExpiresAt     time.Time       `json:"expires_at"`
	ConsumedAt    *time.Time      `json:"consumed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p *PaymentIntent) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

func (p *PaymentIntent) Consumed() bool {
	return p.ConsumedAt != nil
}

// PaymentQuote is the caller-facing shape of a freshly built intent:
// the unsigned transfer plus everything needed to display and verify it.
type PaymentQuote struct {
	IntentID         string          `json:"intent_id"`
	Transaction      string          `json:"transaction"`
	RequiredNative   decimal.Decimal `json:"required_native"`
	Lamports         uint64          `json:"lamports"`
	Price            decimal.Decimal `json:"price"`
	ReceivingAddress string          `json:"receiving_address"`
	ExpiresAt        time.Time       `json:"expires_at"`
}
