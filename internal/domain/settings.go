package domain

import "time"

// ClaimSettings is the singleton global claim configuration. It is read on
// every claim attempt and only ever written by an admin.
type ClaimSettings struct {
	ClaimsEnabled         bool    `json:"claims_enabled"`
	MinClaimAmount        int64   `json:"min_claim_amount"`
	MaxClaimAmount        int64   `json:"max_claim_amount"`
	FeePercentage         float64 `json:"fee_percentage"`
	CooldownHours         int     `json:"cooldown_hours"`
	MaxDailyClaimsPerUser int     `json:"max_daily_claims_per_user"`

	Schedule     ClaimSchedule `json:"schedule"`
	AutoApproval AutoApproval  `json:"auto_approval"`

	UpdatedBy uint      `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ClaimSchedule struct {
	Enabled   bool      `json:"enabled"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Timezone  string    `json:"timezone"`
}

type AutoApproval struct {
	Enabled      bool  `json:"enabled"`
	MaxAmount    int64 `json:"max_amount"`
	MinUserLevel int   `json:"min_user_level"`
}

// UserClaimControl overrides the global claims-enabled flag for one user.
// Its presence is what activates the override.
type UserClaimControl struct {
	UserID        uint      `json:"user_id"`
	ClaimsEnabled bool      `json:"claims_enabled"`
	Reason        string    `json:"reason"`
	UpdatedBy     uint      `json:"updated_by"`
	UpdatedAt     time.Time `json:"updated_at"`
}
