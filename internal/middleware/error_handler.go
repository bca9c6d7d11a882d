package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"

	"finance-app/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// statusCodeOverrideKey holds a statusOverride set by StatusErrorCode
const statusCodeOverrideKey = "status_code_override"

var apiErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_errors_total",
		Help: "API error responses by catalogue code, route and HTTP status",
	},
	[]string{"code", "endpoint", "status"},
)

type statusOverride struct {
	status int
	code   errors.ErrorCode
}

// StatusErrorCode reports code instead of the generic catalogue entry when
// the route fails with an echo.HTTPError carrying status
func StatusErrorCode(status int, code errors.ErrorCode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(statusCodeOverrideKey, statusOverride{status: status, code: code})
			return next(c)
		}
	}
}

// CustomHTTPErrorHandler renders every error that reaches echo as an
// ErrorResponse, logs it and counts it
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	var resp *errors.ErrorResponse
	var status int

	switch e := err.(type) {
	case *echo.HTTPError:
		status = e.Code
		resp = errors.NewErrorResponse(errorCodeFor(c, e.Code), traceID,
			errors.WithMessage(fmt.Sprintf("%v", e.Message)))
	case validator.ValidationErrors:
		fields := make(map[string]string, len(e))
		for _, fe := range e {
			fields[fe.Field()] = formatValidationError(fe)
		}
		resp = errors.NewValidationError(fields, traceID)
		status = http.StatusBadRequest
	default:
		resp, _ = errors.WrapSystemError(err, traceID)
		status = resp.GetHTTPStatus()
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.Request().Context(), level, "request failed",
		"trace_id", traceID,
		"error_code", resp.Error.Code,
		"status", status,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	apiErrorsTotal.WithLabelValues(resp.Error.Code, c.Path(), strconv.Itoa(status)).Inc()

	if sendErr := c.JSON(status, resp); sendErr != nil {
		slog.Error("write error response", "trace_id", traceID, "error", sendErr)
	}
}

func errorCodeFor(c echo.Context, status int) errors.ErrorCode {
	if o, ok := c.Get(statusCodeOverrideKey).(statusOverride); ok && o.status == status {
		return o.code
	}
	return mapHTTPStatusToErrorCode(status)
}

func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnprocessableEntity,
		http.StatusUnsupportedMediaType:
		return errors.ValidationGeneral
	case http.StatusNotFound:
		return errors.SystemRouteNotFound
	case http.StatusRequestTimeout:
		return errors.ImportTimeout
	case http.StatusRequestEntityTooLarge:
		return errors.SystemPayloadTooLarge
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusInternalServerError:
		return errors.SystemInternalError
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemUnexpectedError
	}
}

// formatValidationError phrases the tags used by the request DTOs
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must contain at least %s items", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "dive":
		return "contains an invalid element"
	case "category_type":
		return "must be 'income' or 'expense'"
	case "keyword":
		return "must be 1 to 100 characters after trimming"
	case "currency_code":
		return "must be a 3 letter currency code"
	case "direction":
		return "must be 'incoming' or 'outgoing'"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
