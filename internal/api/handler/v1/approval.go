package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/handler/v1/request"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/handler/v1/response"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/middleware"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/service"
)

type ApprovalService interface {
	GetStatusByWallet(ctx context.Context, wallet string) (domain.ApprovalRecord, error)
	SetApproval(ctx context.Context, userID uint, approved bool, actorID uint) (domain.ApprovalRecord, error)
}

type BulkService interface {
	BulkSetApproval(ctx context.Context, userIDs []uint, approved bool, actorID uint, confirmToken string) ([]domain.BulkUserResult, error)
}

type ApprovalHandler struct {
	svc  ApprovalService
	bulk BulkService
}

func NewApprovalHandler(svc ApprovalService, bulk BulkService) *ApprovalHandler {
	return &ApprovalHandler{
		svc:  svc,
		bulk: bulk,
	}
}

// HandleGetStatus godoc
// @Summary      Get the approval status for a wallet
// @Tags         approvals
// @Produce      json
// @Param        wallet   query     string true "wallet address"
// @Success      200      {object}  domain.ApprovalRecord
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /approvals/status [get]
func (h *ApprovalHandler) HandleGetStatus(ctx *gin.Context) {
	wallet := ctx.Query("wallet")
	if wallet == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("wallet is required")))
		return
	}

	record, err := h.svc.GetStatusByWallet(ctx.Request.Context(), wallet)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(errors.New("wallet not found")))
			return
		}

		err = fmt.Errorf("v1.HandleGetStatus -> h.svc.GetStatusByWallet -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, record)
}

// HandleSetApproval godoc
// @Summary      Approve or revoke a user's mint approval
// @Tags         approvals
// @Produce      json
// @Param        request  body      request.SetApprovalRequest true "request body"
// @Success      200      {object}  domain.ApprovalRecord
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/approvals [post]
func (h *ApprovalHandler) HandleSetApproval(ctx *gin.Context) {
	var req request.SetApprovalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	record, err := h.svc.SetApproval(ctx.Request.Context(), req.UserID, *req.Approved, adminID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrApprovalNotFound):
			response.RenderErr(ctx, response.ErrNotFound(errors.New("user not found")))
		case errors.Is(err, service.ErrInvalidTransition):
			response.RenderErr(ctx, response.ErrConflict("INVALID_TRANSITION", service.ErrInvalidTransition))
		default:
			err = fmt.Errorf("v1.HandleSetApproval -> h.svc.SetApproval -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, record)
}

// HandleBulkApproval godoc
// @Summary      Approve or revoke many users at once
// @Tags         approvals
// @Produce      json
// @Param        request  body      request.BulkApprovalRequest true "request body"
// @Success      200      {object}  response.BulkResponse
// @Failure      400      {object}  response.Err
// @Failure      428      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/approvals/bulk [post]
func (h *ApprovalHandler) HandleBulkApproval(ctx *gin.Context) {
	var req request.BulkApprovalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	results, err := h.bulk.BulkSetApproval(ctx.Request.Context(), req.UserIDs, *req.Approved, adminID(ctx), req.ConfirmationToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBatch):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrConfirmationRequired):
			response.RenderErr(ctx, response.NewErr(http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", err))
		default:
			err = fmt.Errorf("v1.HandleBulkApproval -> h.bulk.BulkSetApproval -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewBulkResponse(results))
}

func adminID(ctx *gin.Context) uint {
	return ctx.GetUint(middleware.CtxKeyAdminID)
}
