package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type ScheduleSettings struct {
	Enabled   bool      `json:"enabled"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Timezone  string    `json:"timezone"`
}

type AutoApprovalSettings struct {
	Enabled      bool  `json:"enabled"`
	MaxAmount    int64 `json:"max_amount"`
	MinUserLevel int   `json:"min_user_level"`
}

type UpdateSettingsRequest struct {
	ClaimsEnabled         bool    `json:"claims_enabled"`
	MinClaimAmount        int64   `json:"min_claim_amount"`
	MaxClaimAmount        int64   `json:"max_claim_amount"`
	FeePercentage         float64 `json:"fee_percentage"`
	CooldownHours         int     `json:"cooldown_hours"`
	MaxDailyClaimsPerUser int     `json:"max_daily_claims_per_user"`

	Schedule     ScheduleSettings     `json:"schedule"`
	AutoApproval AutoApprovalSettings `json:"auto_approval"`
}

func (req *UpdateSettingsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MinClaimAmount, validation.Min(int64(0))),
		validation.Field(&req.MaxClaimAmount, validation.Min(int64(0))),
		validation.Field(&req.FeePercentage, validation.Min(float64(0)), validation.Max(float64(100))),
		validation.Field(&req.CooldownHours, validation.Min(0)),
		validation.Field(&req.MaxDailyClaimsPerUser, validation.Min(0)),
	)
}

type BulkClaimControlRequest struct {
	UserIDs           []uint `json:"user_ids"`
	ClaimsEnabled     *bool  `json:"claims_enabled"`
	Reason            string `json:"reason"`
	ConfirmationToken string `json:"confirmation_token"`
}

func (req *BulkClaimControlRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserIDs, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.ClaimsEnabled, validation.NotNil),
		validation.Field(&req.Reason, validation.Length(0, 200)),
	)
}
