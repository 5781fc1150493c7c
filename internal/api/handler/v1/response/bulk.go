package response

import (
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

type BulkResponse struct {
	Results   []domain.BulkUserResult `json:"results"`
	Succeeded int                     `json:"succeeded"`
	Failed    int                     `json:"failed"`
}

func NewBulkResponse(results []domain.BulkUserResult) BulkResponse {
	resp := BulkResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}

	return resp
}

type ConfirmationResponse struct {
	ConfirmationToken string `json:"confirmation_token"`
}
