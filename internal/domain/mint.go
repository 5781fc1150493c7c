package domain

import "time"

// MintRecord is written exactly once per wallet and never updated.
// The unique wallet address column is what enforces one pass per wallet.
type MintRecord struct {
	ID                uint      `json:"id"`
	WalletAddress     string    `json:"wallet_address"`
	NFTNumber         int64     `json:"nft_number"`
	MintAddress       string    `json:"mint_address"`
	CreateSignature   string    `json:"create_signature"`
	TransferSignature string    `json:"transfer_signature"`
	PaymentSignature  string    `json:"payment_signature"`
	CreatedAt         time.Time `json:"created_at"`
}
