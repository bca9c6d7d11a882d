package handlers

import (
	"context"
	stderrors "errors"
	"net/http"

	"finance-app/internal/errors"
	"finance-app/internal/importer"
	"finance-app/internal/models"
	"finance-app/internal/services"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// All handlers must use the following standardized error response functions:
//
// 1. SendError - For client errors and business logic errors (4xx responses)
//    Use cases:
//    - Validation errors: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Rejected uploads: SendError(c, errors.ImportUnsupportedFileType)
//    - Not found errors: SendError(c, errors.CategoryNotFound)
//    - Business rule violations: SendError(c, errors.CategoryKeywordConflict)
//
// 2. SendSystemError - For system/internal errors (500 responses)
//    Use cases:
//    - Database errors from repositories
//    - Service layer internal errors
//    - Unexpected errors that should not expose internal details to client
//
// 3. sendServiceError - For errors returned by the service layer. Known
//    sentinels are translated to their catalogue code, anything else is a
//    system error.
//
// DO NOT USE:
//    - echo.NewHTTPError() - Use SendError or SendSystemError instead
//    - Direct c.JSON() for errors - Use the helper functions
//    - return err without wrapping - Use SendSystemError to protect internal details

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty" swaggertype:"object"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty" swaggertype:"object"`
}

// ErrorResponse is an alias for the standardized error response type
// Used for backward compatibility in tests
type ErrorResponse = errors.ErrorResponse

// serviceErrorCodes maps service and importer sentinels to catalogue codes.
// Order matters: the first match wins for wrapped chains.
var serviceErrorCodes = []struct {
	target error
	code   errors.ErrorCode
}{
	{importer.ErrUnsupportedFileType, errors.ImportUnsupportedFileType},
	{importer.ErrFileTooLarge, errors.ImportFileTooLarge},
	{importer.ErrEmptyFile, errors.ImportEmptyFile},
	{importer.ErrUnreadableFile, errors.ImportUnreadableFile},
	{context.DeadlineExceeded, errors.ImportTimeout},
	{services.ErrCircuitBreakerOpen, errors.SystemServiceUnavailable},
	{services.ErrCategoryNotFound, errors.CategoryNotFound},
	{services.ErrCategoryExists, errors.CategoryAlreadyExists},
	{services.ErrInvalidCategoryType, errors.CategoryInvalidType},
	{models.ErrCategoryNameEmpty, errors.ValidationRequiredField},
	{services.ErrKeywordNotFound, errors.CategoryKeywordNotFound},
	{services.ErrKeywordExists, errors.CategoryKeywordExists},
	{services.ErrKeywordConflict, errors.CategoryKeywordConflict},
	{services.ErrInvalidKeyword, errors.CategoryKeywordInvalid},
	{services.ErrTransactionNotFound, errors.TransactionNotFound},
	{services.ErrNothingToCommit, errors.TransactionNothingToCommit},
	{services.ErrInvalidTransaction, errors.TransactionValidationFailed},
	{services.ErrNoTransactionIDs, errors.ValidationRequiredField},
	{services.ErrTransactionConflict, errors.TransactionConflict},
}

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, _ := errors.WrapSystemError(err, traceID)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// sendServiceError translates a service error into its catalogue response.
// Validation-class errors carry the underlying message as a detail.
func sendServiceError(c echo.Context, err error) error {
	for _, m := range serviceErrorCodes {
		if !stderrors.Is(err, m.target) {
			continue
		}
		if errors.GetHTTPStatus(m.code) == http.StatusBadRequest ||
			errors.GetHTTPStatus(m.code) == http.StatusUnprocessableEntity {
			return SendError(c, m.code, errors.WithDetails(err.Error()))
		}
		return SendError(c, m.code)
	}
	return SendSystemError(c, err)
}
