package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type GeneratePaymentRequest struct {
	UserWallet string `json:"user_wallet"`
}

func (req *GeneratePaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserWallet, walletRules()...),
	)
}

type ProcessMintRequest struct {
	UserWallet       string `json:"user_wallet"`
	PaymentSignature string `json:"payment_signature"`
}

func (req *ProcessMintRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserWallet, walletRules()...),
		validation.Field(&req.PaymentSignature, validation.Required, validation.Length(32, 128)),
	)
}
