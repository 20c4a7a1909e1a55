package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Errors  []domain.Violation `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	fail := func(code int, msg string) (int, errorResponse) {
		return code, errorResponse{Message: msg}
	}

	// Echo's own errors (bind failures, 404 from router, auth middleware, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return fail(he.Code, fmt.Sprintf("%v", he.Message))
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Message: ve.Error(), Errors: ve.Violations}
	}

	// Known domain errors → deterministic HTTP codes. Wrapped messages carry
	// the offending value, so err.Error() is safe to return.
	switch {
	case errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNoStats):
		return fail(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		return fail(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return fail(http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrAlreadyApplied):
		return fail(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDeadlinePassed),
		errors.Is(err, domain.ErrGeocodeNoResult):
		return fail(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrFileMissing),
		errors.Is(err, domain.ErrUnsupportedFileType):
		return fail(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrFileTooLarge):
		return fail(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrGeocoderUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("geocoder unavailable")
		return fail(http.StatusBadGateway, domain.ErrGeocoderUnavailable.Error())
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return fail(http.StatusInternalServerError, "internal server error")
}
