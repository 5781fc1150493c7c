package domain

import "time"

// DenyReason is the machine-distinguishable cause carried by every policy
// denial.
type DenyReason string

const (
	DenyGloballyDisabled  DenyReason = "GloballyDisabled"
	DenyUserDisabled      DenyReason = "UserDisabled"
	DenyOutsideSchedule   DenyReason = "OutsideSchedule"
	DenyAmountOutOfRange  DenyReason = "AmountOutOfRange"
	DenyCooldownActive    DenyReason = "CooldownActive"
	DenyDailyLimitReached DenyReason = "DailyLimitReached"
)

// PolicyDecision is the outcome of a claim policy evaluation. AutoApproved
// is only meaningful when Allowed is true; a passing request that does not
// meet the auto-approval criteria is queued for manual review.
type PolicyDecision struct {
	Allowed      bool
	AutoApproved bool
	Reason       DenyReason
}

type ClaimStatus string

const (
	ClaimPending      ClaimStatus = "pending"
	ClaimAutoApproved ClaimStatus = "auto_approved"
	ClaimCompleted    ClaimStatus = "completed"
	ClaimRejected     ClaimStatus = "rejected"
)

// ClaimRecord is one row of claim history. The cooldown and daily-limit
// checks read it, and FeePaid powers fee reporting.
type ClaimRecord struct {
	ID            uint        `json:"id"`
	UserID        uint        `json:"user_id"`
	WalletAddress string      `json:"wallet_address"`
	Amount        int64       `json:"amount"`
	FeePaid       int64       `json:"fee_paid"`
	Status        ClaimStatus `json:"status"`
	TxHash        string      `json:"tx_hash,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ClaimGuard re-states the cooldown and daily-limit gates for the claim
// insert itself. The policy gates read claim history without a lock, so two
// racing requests can both pass them; the insert re-checks these bounds
// inside its transaction with the user row locked.
type ClaimGuard struct {
	// CooldownCutoff, when set, means a successful claim created at or
	// after this instant still holds the cooldown.
	CooldownCutoff *time.Time
	// DayStart and MaxDailyClaims bound the claims counted for today.
	// MaxDailyClaims == 0 disables the check.
	DayStart       time.Time
	MaxDailyClaims int
}

// ClaimBalance is the wallet-facing balance summary.
type ClaimBalance struct {
	TotalPoints     int64   `json:"total_points"`
	ClaimableTokens int64   `json:"claimable_tokens"`
	TotalClaimed    int64   `json:"total_claimed"`
	ClaimMultiplier float64 `json:"claim_multiplier"`
}
