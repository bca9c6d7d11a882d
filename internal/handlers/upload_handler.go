package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"finance-app/internal/errors"
	"finance-app/internal/services"

	"github.com/labstack/echo/v4"
)

// UploadFormField is the multipart field carrying the spreadsheet
const UploadFormField = "file"

// UploadHandler handles spreadsheet import previews
type UploadHandler struct {
	importService services.ImportServiceInterface
	timeout       time.Duration
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler. A zero timeout leaves the
// request context unbounded.
func NewUploadHandler(importService services.ImportServiceInterface, timeout time.Duration, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{
		importService: importService,
		timeout:       timeout,
		logger:        logger,
	}
}

// Upload validates a bank statement and returns the categorized preview
// @Summary Preview a bank statement import
// @Description Validate an Excel statement, normalize its rows, suggest categories and flag rows already stored. Nothing is persisted.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bank statement (.xlsx or .xls)"
// @Success 200 {object} models.ImportResult "Import preview"
// @Failure 400 {object} errors.ErrorResponse "IMPORT_001, IMPORT_003, IMPORT_004, IMPORT_005 or IMPORT_006"
// @Failure 408 {object} errors.ErrorResponse "IMPORT_007 - Import timed out"
// @Failure 413 {object} errors.ErrorResponse "IMPORT_002 - File too large"
// @Failure 429 {object} errors.ErrorResponse "SYSTEM_006 - Rate limit exceeded"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 - Duplicate lookup unavailable"
// @Router /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	header, err := c.FormFile(UploadFormField)
	if err != nil {
		return SendError(c, errors.ImportMissingFile)
	}

	file, err := header.Open()
	if err != nil {
		return SendError(c, errors.ImportUnreadableFile)
	}
	defer file.Close()

	ctx := c.Request().Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.importService.Preview(ctx, header.Filename, file)
	if err != nil {
		h.logger.WarnContext(ctx, "import preview rejected",
			"trace_id", getTraceID(c),
			"filename", header.Filename,
			"size", header.Size,
			"error", err,
		)
		return sendServiceError(c, err)
	}

	if !result.Success {
		return SendError(c, errors.ImportInvalidStructure,
			errors.WithDetails(result.Errors...),
			errors.WithMeta("available_columns", result.AvailableColumns),
			errors.WithMeta("warnings", result.Warnings),
		)
	}

	return c.JSON(http.StatusOK, result)
}
