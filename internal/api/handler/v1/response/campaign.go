package response

import (
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

type AllocationResponse struct {
	CampaignID  uint                `json:"campaign_id"`
	Allocations []domain.Allocation `json:"allocations"`
	Total       int64               `json:"total"`
}

func NewAllocationResponse(campaignID uint, allocations []domain.Allocation) AllocationResponse {
	resp := AllocationResponse{
		CampaignID:  campaignID,
		Allocations: allocations,
	}
	for _, a := range allocations {
		resp.Total += a.Amount
	}

	return resp
}
