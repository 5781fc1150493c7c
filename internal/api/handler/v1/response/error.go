package response

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the JSON error envelope. Code is machine-readable and stable;
// clients branch on it, never on Msg.
type Err struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Msg        string `json:"msg"`
}

func (e *Err) Error() string {
	return e.Msg
}

func NewErr(statusCode int, code string, err error) *Err {
	return &Err{
		StatusCode: statusCode,
		Code:       code,
		Msg:        err.Error(),
	}
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, "BAD_REQUEST", err)
}

func ErrNotFound(err error) *Err {
	return NewErr(http.StatusNotFound, "NOT_FOUND", err)
}

func ErrWrongCredentials(err error) *Err {
	return NewErr(http.StatusUnauthorized, "WRONG_CREDENTIALS", err)
}

func ErrPermissionDenied(err error) *Err {
	return NewErr(http.StatusForbidden, "PERMISSION_DENIED", err)
}

func ErrConflict(code string, err error) *Err {
	return NewErr(http.StatusConflict, code, err)
}

func ErrUnprocessable(code string, err error) *Err {
	return NewErr(http.StatusUnprocessableEntity, code, err)
}

func ErrInternalServerError(err error) *Err {
	return NewErr(http.StatusInternalServerError, "INTERNAL_ERROR", err)
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.String("code", err.Code),
			zap.String("error", err.Msg))

		// Internal details stay in the logs.
		err.Msg = "something went wrong"
	}

	ctx.JSON(err.StatusCode, err)
}
