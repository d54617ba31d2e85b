package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/utils"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error    string      `json:"error"`
	Field    string      `json:"field,omitempty"`
	Step     domain.Step `json:"step,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

// writeError maps domain errors to HTTP statuses. Unknown errors are logged and hidden behind a 500.
func writeError(c *gin.Context, err error) {
	var (
		validation   domain.ValidationError
		notFound     domain.NotFoundError
		conflict     domain.ConflictError
		precondition domain.PreconditionError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: validation.Error(), Field: validation.Field})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, errorResponse{Error: conflict.Error()})
	case errors.As(err, &precondition):
		resp := errorResponse{Error: precondition.Error()}
		if precondition.Redirect != "" {
			resp.Step = precondition.Redirect
			resp.Redirect = precondition.Redirect.Path()
		}
		c.JSON(http.StatusPreconditionFailed, resp)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, errorResponse{Error: "request cancelled"})
	default:
		utils.LogCtx(c.Request.Context(), "api", "internal_error", err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
