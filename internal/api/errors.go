package api

import (
	"errors"
	"log/slog"
	"net/http"

	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/pkg/httputil"
)

// statusFor maps service errors to response status. Unknown errors are internal
func statusFor(err error) int {
	switch {
	case errors.Is(err, errorvalues.ErrValidation),
		errors.Is(err, errorvalues.ErrInvalidMultiplier),
		errors.Is(err, errorvalues.ErrRewardOverflow),
		errors.Is(err, errorvalues.ErrInvalidCategory),
		errors.Is(err, errorvalues.ErrCategoryHasTodos):
		return http.StatusBadRequest
	case errors.Is(err, errorvalues.ErrWrongCredentials),
		errors.Is(err, errorvalues.ErrInvalidToken),
		errors.Is(err, errorvalues.ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, errorvalues.ErrWrongOwner):
		return http.StatusForbidden
	case errors.Is(err, errorvalues.ErrUserNotFound),
		errors.Is(err, errorvalues.ErrOwnerNotFound),
		errors.Is(err, errorvalues.ErrCategoryNotFound),
		errors.Is(err, errorvalues.ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, errorvalues.ErrEmailTaken),
		errors.Is(err, errorvalues.ErrUsernameTaken),
		errors.Is(err, errorvalues.ErrCategoryExists),
		errors.Is(err, errorvalues.ErrTodoAlreadyCompleted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, logger *slog.Logger, action string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(action+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, status, "internal error while "+action, nil)
		return
	}
	logger.Warn(action+" error", slog.String("error", err.Error()), slog.Int("status", status))
	httputil.WriteErrorResponse(w, status, err.Error(), nil)
}
