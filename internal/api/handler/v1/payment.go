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

type PaymentService interface {
	QuotePayment(ctx context.Context, wallet string) (domain.PaymentQuote, error)
}

type MintService interface {
	ProcessMint(ctx context.Context, wallet, paymentSignature string) (domain.MintRecord, error)
}

type PaymentHandler struct {
	payments PaymentService
	mints    MintService
}

func NewPaymentHandler(payments PaymentService, mints MintService) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		mints:    mints,
	}
}

// HandleGeneratePayment godoc
// @Summary      Quote the mint payment for a wallet
// @Tags         payments
// @Produce      json
// @Param        request  body      request.GeneratePaymentRequest true "request body"
// @Success      200      {object}  domain.PaymentQuote
// @Failure      400      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /payments/generate [post]
func (h *PaymentHandler) HandleGeneratePayment(ctx *gin.Context) {
	var req request.GeneratePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	quote, err := h.payments.QuotePayment(ctx.Request.Context(), req.UserWallet)
	if err != nil {
		if errors.Is(err, service.ErrStalePrice) {
			response.RenderErr(ctx, response.ErrUnprocessable("STALE_PRICE", service.ErrStalePrice))
			return
		}

		err = fmt.Errorf("v1.HandleGeneratePayment -> h.payments.QuotePayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, quote)
}

// HandleProcessMint godoc
// @Summary      Verify a payment and mint the wallet's NFT pass
// @Tags         payments
// @Produce      json
// @Param        request  body      request.ProcessMintRequest true "request body"
// @Success      201      {object}  domain.MintRecord
// @Failure      400      {object}  response.Err
// @Failure      402      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /payments/mint [post]
func (h *PaymentHandler) HandleProcessMint(ctx *gin.Context) {
	var req request.ProcessMintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	record, err := h.mints.ProcessMint(ctx.Request.Context(), req.UserWallet, req.PaymentSignature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotApproved):
			response.RenderErr(ctx, response.NewErr(http.StatusForbidden, "NOT_APPROVED", service.ErrNotApproved))
		case errors.Is(err, service.ErrAlreadyClaimed):
			response.RenderErr(ctx, response.ErrConflict("ALREADY_CLAIMED", service.ErrAlreadyClaimed))
		case errors.Is(err, service.ErrPaymentUnverified):
			response.RenderErr(ctx, response.NewErr(http.StatusPaymentRequired, "PAYMENT_UNVERIFIED", err))
		case errors.Is(err, service.ErrReconciliationRequired):
			err = fmt.Errorf("v1.HandleProcessMint -> h.mints.ProcessMint -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		default:
			err = fmt.Errorf("v1.HandleProcessMint -> h.mints.ProcessMint -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, record)
}
