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
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/service"
)

type SettingsRepository interface {
	Get(ctx context.Context) (domain.ClaimSettings, error)
	Update(ctx context.Context, settings domain.ClaimSettings) (domain.ClaimSettings, error)
	FindControl(ctx context.Context, userID uint) (domain.UserClaimControl, error)
}

type BulkControlService interface {
	RequestConfirmation() string
	BulkSetClaimStatus(ctx context.Context, userIDs []uint, enabled bool, reason string, actorID uint, confirmToken string) ([]domain.BulkUserResult, error)
}

type AdminHandler struct {
	settings SettingsRepository
	bulk     BulkControlService
}

func NewAdminHandler(settings SettingsRepository, bulk BulkControlService) *AdminHandler {
	return &AdminHandler{
		settings: settings,
		bulk:     bulk,
	}
}

// HandleGetSettings godoc
// @Summary      Read the global claim settings
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.ClaimSettings
// @Failure      500  {object}  response.Err
// @Router       /admin/claims/settings [get]
func (h *AdminHandler) HandleGetSettings(ctx *gin.Context) {
	settings, err := h.settings.Get(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetSettings -> h.settings.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleUpdateSettings godoc
// @Summary      Update the global claim settings
// @Tags         admin
// @Produce      json
// @Param        request  body      request.UpdateSettingsRequest true "request body"
// @Success      200      {object}  domain.ClaimSettings
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/claims/settings [put]
func (h *AdminHandler) HandleUpdateSettings(ctx *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.settings.Update(ctx.Request.Context(), domain.ClaimSettings{
		ClaimsEnabled:         req.ClaimsEnabled,
		MinClaimAmount:        req.MinClaimAmount,
		MaxClaimAmount:        req.MaxClaimAmount,
		FeePercentage:         req.FeePercentage,
		CooldownHours:         req.CooldownHours,
		MaxDailyClaimsPerUser: req.MaxDailyClaimsPerUser,
		Schedule: domain.ClaimSchedule{
			Enabled:   req.Schedule.Enabled,
			StartTime: req.Schedule.StartTime,
			EndTime:   req.Schedule.EndTime,
			Timezone:  req.Schedule.Timezone,
		},
		AutoApproval: domain.AutoApproval{
			Enabled:      req.AutoApproval.Enabled,
			MaxAmount:    req.AutoApproval.MaxAmount,
			MinUserLevel: req.AutoApproval.MinUserLevel,
		},
		UpdatedBy: adminID(ctx),
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateSettings -> h.settings.Update -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleGetControl godoc
// @Summary      Read the per-user claim control
// @Tags         admin
// @Produce      json
// @Param        userID   path      int true "user ID"
// @Success      200      {object}  domain.UserClaimControl
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/claims/controls/{userID} [get]
func (h *AdminHandler) HandleGetControl(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	control, err := h.settings.FindControl(ctx.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, repository.ErrControlNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(errors.New("no claim control for user")))
			return
		}

		err = fmt.Errorf("v1.HandleGetControl -> h.settings.FindControl -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, control)
}

// HandleRequestConfirmation godoc
// @Summary      Request a confirmation token for a large bulk operation
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.ConfirmationResponse
// @Router       /admin/claims/controls/confirm [post]
func (h *AdminHandler) HandleRequestConfirmation(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.ConfirmationResponse{
		ConfirmationToken: h.bulk.RequestConfirmation(),
	})
}

// HandleBulkClaimControl godoc
// @Summary      Enable or disable claims for many users at once
// @Tags         admin
// @Produce      json
// @Param        request  body      request.BulkClaimControlRequest true "request body"
// @Success      200      {object}  response.BulkResponse
// @Failure      400      {object}  response.Err
// @Failure      428      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/claims/controls [post]
func (h *AdminHandler) HandleBulkClaimControl(ctx *gin.Context) {
	var req request.BulkClaimControlRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	results, err := h.bulk.BulkSetClaimStatus(ctx.Request.Context(),
		req.UserIDs, *req.ClaimsEnabled, req.Reason, adminID(ctx), req.ConfirmationToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConfirmationRequired):
			response.RenderErr(ctx, response.NewErr(http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", err))
		case errors.Is(err, service.ErrEmptyBatch):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleBulkClaimControl -> h.bulk.BulkSetClaimStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewBulkResponse(results))
}
