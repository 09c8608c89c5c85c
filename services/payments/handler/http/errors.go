package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/internal/utils"
)

var errUnauthenticated = errors.New("authentication required")

// respondError maps use case errors to HTTP responses
func respondError(c echo.Context, err error) error {
	var stateErr *models.InvalidStateError
	var gwErr *models.GatewayError

	switch {
	case errors.Is(err, errUnauthenticated):
		return utils.UnauthorizedResponse(c, "")
	case models.IsNotFound(err):
		return utils.NotFoundResponse(c, err.Error())
	case errors.As(err, &stateErr):
		return utils.ConflictResponse(c, stateErr.Error())
	case errors.Is(err, models.ErrAlreadyRegistered), errors.Is(err, models.ErrVersionConflict):
		return utils.ConflictResponse(c, err.Error())
	case errors.Is(err, models.ErrRateLimited):
		return utils.TooManyRequestsResponse(c, err.Error())
	case errors.Is(err, models.ErrUnsupportedGateway), errors.Is(err, models.ErrInvalidPayload):
		return utils.BadRequestResponse(c, err.Error())
	case errors.As(err, &gwErr):
		return utils.ErrorResponseHandler(c, http.StatusInternalServerError, "Payment gateway error: "+gwErr.Error())
	default:
		return utils.InternalServerErrorResponse(c, "")
	}
}
