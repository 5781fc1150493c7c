package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SetApprovalRequest struct {
	UserID   uint  `json:"user_id"`
	Approved *bool `json:"approved"`
}

func (req *SetApprovalRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Approved, validation.NotNil),
	)
}

type BulkApprovalRequest struct {
	UserIDs           []uint `json:"user_ids"`
	Approved          *bool  `json:"approved"`
	ConfirmationToken string `json:"confirmation_token"`
}

func (req *BulkApprovalRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserIDs, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.Approved, validation.NotNil),
	)
}
