package domain

import "time"

type ActivityTier string

const (
	TierHigh   ActivityTier = "HIGH"
	TierMedium ActivityTier = "MEDIUM"
	TierLow    ActivityTier = "LOW"
)

// User is created on first wallet interaction and never destroyed.
// Points are written by the external engagement tracker and only ever grow.
type User struct {
	ID            uint         `json:"id"`
	WalletAddress string       `json:"wallet_address"`
	TwitterHandle string       `json:"twitter_handle,omitempty"`
	TotalPoints   int64        `json:"total_points"`
	ActivityTier  ActivityTier `json:"activity_tier"`
	TotalClaimed  int64        `json:"total_claimed"`
	Level         int          `json:"level"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// AdminAccount holds an operator login. Wallet routes are public; the
// admin surface is JWT-gated.
type AdminAccount struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
