package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/handler/v1/request"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/handler/v1/response"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/service"
)

type ClaimService interface {
	GetBalance(ctx context.Context, wallet string) (domain.ClaimBalance, error)
	ProcessClaim(ctx context.Context, wallet string, amount int64) (domain.ClaimRecord, error)
	History(ctx context.Context, wallet string, limit int) ([]domain.ClaimRecord, error)
}

type ClaimHandler struct {
	svc ClaimService
}

func NewClaimHandler(svc ClaimService) *ClaimHandler {
	return &ClaimHandler{
		svc: svc,
	}
}

// HandleGetBalance godoc
// @Summary      Get a wallet's claimable balance
// @Tags         claims
// @Produce      json
// @Param        wallet   query     string true "wallet address"
// @Success      200      {object}  domain.ClaimBalance
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /claims/balance [get]
func (h *ClaimHandler) HandleGetBalance(ctx *gin.Context) {
	wallet := ctx.Query("wallet")
	if wallet == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("wallet is required")))
		return
	}

	balance, err := h.svc.GetBalance(ctx.Request.Context(), wallet)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBalance -> h.svc.GetBalance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, balance)
}

// HandleProcessClaim godoc
// @Summary      Process a token claim
// @Tags         claims
// @Produce      json
// @Param        request  body      request.ProcessClaimRequest true "request body"
// @Success      201      {object}  domain.ClaimRecord
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /claims/process [post]
func (h *ClaimHandler) HandleProcessClaim(ctx *gin.Context) {
	var req request.ProcessClaimRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	record, err := h.svc.ProcessClaim(ctx.Request.Context(), req.WalletAddress, req.Amount)
	if err != nil {
		var denied *service.PolicyDeniedError
		switch {
		case errors.As(err, &denied):
			response.RenderErr(ctx, response.NewErr(http.StatusForbidden, deniedCode(denied.Reason), denied))
		case errors.Is(err, service.ErrNothingToClaim):
			response.RenderErr(ctx, response.ErrUnprocessable("NOTHING_TO_CLAIM", service.ErrNothingToClaim))
		default:
			err = fmt.Errorf("v1.HandleProcessClaim -> h.svc.ProcessClaim -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, record)
}

// HandleGetHistory godoc
// @Summary      Get a wallet's claim history
// @Tags         claims
// @Produce      json
// @Param        wallet   query     string true "wallet address"
// @Success      200      {array}   domain.ClaimRecord
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /claims/history [get]
func (h *ClaimHandler) HandleGetHistory(ctx *gin.Context) {
	wallet := ctx.Query("wallet")
	if wallet == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("wallet is required")))
		return
	}

	records, err := h.svc.History(ctx.Request.Context(), wallet, 50)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetHistory -> h.svc.History -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// deniedCode maps a policy denial to its stable wire code.
func deniedCode(reason domain.DenyReason) string {
	switch reason {
	case domain.DenyGloballyDisabled:
		return "CLAIMS_DISABLED"
	case domain.DenyUserDisabled:
		return "USER_DISABLED"
	case domain.DenyOutsideSchedule:
		return "OUTSIDE_SCHEDULE"
	case domain.DenyAmountOutOfRange:
		return "AMOUNT_OUT_OF_RANGE"
	case domain.DenyCooldownActive:
		return "COOLDOWN_ACTIVE"
	case domain.DenyDailyLimitReached:
		return "DAILY_LIMIT_REACHED"
	default:
		return "CLAIM_DENIED"
	}
}
