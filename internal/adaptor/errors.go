package adaptor

import (
	"errors"
	"net/http"

	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"go.uber.org/zap"
)

// respondError translates usecase sentinel errors into HTTP responses.
// Anything unmatched is a 500 with the detail kept out of the body.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrCapacityExceeded),
		errors.Is(err, usecase.ErrOutsideBusinessHours):
		utils.ResponseBadRequest(w, err.Error(), nil)
	case errors.Is(err, usecase.ErrOverlap),
		errors.Is(err, usecase.ErrIllegalTransition):
		utils.ResponseConflict(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		utils.ResponseForbidden(w, err.Error())
	case errors.Is(err, usecase.ErrUpstream):
		utils.ResponseBadGateway(w, "Upstream dependency failed")
	default:
		log.Error("Unhandled service error", zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
