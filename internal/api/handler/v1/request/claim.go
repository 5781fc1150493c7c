package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ProcessClaimRequest struct {
	WalletAddress string `json:"wallet_address"`
	Amount        int64  `json:"amount"`
	HasNFTPass    bool   `json:"has_nft_pass"`
}

func (req *ProcessClaimRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.WalletAddress, walletRules()...),
		validation.Field(&req.Amount, validation.Required, validation.Min(int64(1))),
	)
}
