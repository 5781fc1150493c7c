package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/handler/v1/response"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetByWallet(ctx context.Context, wallet string) (domain.User, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetProfile godoc
// @Summary      Get (or register) the user behind a wallet
// @Tags         users
// @Produce      json
// @Param        wallet   query     string true "wallet address"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/profile [get]
func (h *UserHandler) HandleGetProfile(ctx *gin.Context) {
	wallet := ctx.Query("wallet")
	if wallet == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("wallet is required")))
		return
	}

	user, err := h.svc.GetByWallet(ctx.Request.Context(), wallet)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetProfile -> h.svc.GetByWallet -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path      int true "user ID"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerAuth
// @Router       /admin/users/{userID} [get]
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("userID must be numeric")))
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}
