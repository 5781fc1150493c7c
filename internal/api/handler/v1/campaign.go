package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/handler/v1/request"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/handler/v1/response"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/service"
)

type CampaignService interface {
	Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	Allocate(ctx context.Context, campaignID uint, participants []domain.Participant) ([]domain.Allocation, error)
}

type CampaignHandler struct {
	svc CampaignService
}

func NewCampaignHandler(svc CampaignService) *CampaignHandler {
	return &CampaignHandler{
		svc: svc,
	}
}

// HandleCreateCampaign godoc
// @Summary      Create a distribution campaign
// @Tags         campaigns
// @Produce      json
// @Param        request  body      request.CreateCampaignRequest true "request body"
// @Success      201      {object}  domain.Campaign
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/campaigns [post]
func (h *CampaignHandler) HandleCreateCampaign(ctx *gin.Context) {
	var req request.CreateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	campaign, err := h.svc.Create(ctx.Request.Context(), domain.Campaign{
		Name:             req.Name,
		TotalAllocation:  req.TotalAllocation,
		DistributionType: domain.DistributionType(req.DistributionType),
		MultiplierBonus:  req.MultiplierBonus,
		Eligibility: domain.CampaignEligibility{
			MinFollowers:     req.Eligibility.MinFollowers,
			MinPoints:        req.Eligibility.MinPoints,
			MinWalletAgeDays: req.Eligibility.MinWalletAgeDays,
			TwitterRequired:  req.Eligibility.TwitterRequired,
		},
		TierAllocs: domain.TierAllocations{
			High:   req.TierAllocs.High,
			Medium: req.TierAllocs.Medium,
			Low:    req.TierAllocs.Low,
		},
		LotterySeed:   req.LotterySeed,
		LotteryPrizes: req.LotteryPrizes,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCampaign -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, campaign)
}

// HandleAllocate godoc
// @Summary      Allocate a campaign's pool across participants
// @Tags         campaigns
// @Produce      json
// @Param        campaignID  path      int true "campaign ID"
// @Param        request     body      request.AllocateCampaignRequest true "request body"
// @Success      200         {object}  response.AllocationResponse
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/campaigns/{campaignID}/allocate [post]
func (h *CampaignHandler) HandleAllocate(ctx *gin.Context) {
	campaignID, err := strconv.ParseUint(ctx.Param("campaignID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid campaign ID")))
		return
	}

	var req request.AllocateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participants := make([]domain.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, domain.Participant{
			UserID: p.UserID,
			Tier:   domain.ActivityTier(p.Tier),
			Weight: p.Weight,
		})
	}

	allocations, err := h.svc.Allocate(ctx.Request.Context(), uint(campaignID), participants)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrCampaignNotFound))
		case errors.Is(err, service.ErrCampaignNotActive):
			response.RenderErr(ctx, response.ErrConflict("CAMPAIGN_NOT_ACTIVE", service.ErrCampaignNotActive))
		case errors.Is(err, service.ErrAllocationExceeded):
			response.RenderErr(ctx, response.ErrConflict("ALLOCATION_EXCEEDED", service.ErrAllocationExceeded))
		case errors.Is(err, service.ErrNoParticipants):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNoParticipants))
		default:
			err = fmt.Errorf("v1.HandleAllocate -> h.svc.Allocate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewAllocationResponse(uint(campaignID), allocations))
}
