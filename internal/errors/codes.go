package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_005"
)

// Import error codes (IMPORT_*)
const (
	ImportUnsupportedFileType ErrorCode = "IMPORT_001"
	ImportFileTooLarge        ErrorCode = "IMPORT_002"
	ImportEmptyFile           ErrorCode = "IMPORT_003"
	ImportUnreadableFile      ErrorCode = "IMPORT_004"
	ImportInvalidStructure    ErrorCode = "IMPORT_005"
	ImportMissingFile         ErrorCode = "IMPORT_006"
	ImportTimeout             ErrorCode = "IMPORT_007"
)

// Category and keyword error codes (CATEGORY_*)
const (
	CategoryNotFound        ErrorCode = "CATEGORY_001"
	CategoryAlreadyExists   ErrorCode = "CATEGORY_002"
	CategoryInvalidType     ErrorCode = "CATEGORY_003"
	CategoryKeywordNotFound ErrorCode = "CATEGORY_004"
	CategoryKeywordExists   ErrorCode = "CATEGORY_005"
	CategoryKeywordConflict ErrorCode = "CATEGORY_006"
	CategoryKeywordInvalid  ErrorCode = "CATEGORY_007"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound         ErrorCode = "TRANSACTION_001"
	TransactionNothingToCommit  ErrorCode = "TRANSACTION_002"
	TransactionValidationFailed ErrorCode = "TRANSACTION_003"
	TransactionInvalidID        ErrorCode = "TRANSACTION_004"
	TransactionConflict         ErrorCode = "TRANSACTION_005"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
	SystemPayloadTooLarge    ErrorCode = "SYSTEM_008"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidDate:   "Invalid date format or range",

	// Import errors
	ImportUnsupportedFileType: "Only Excel files (.xlsx, .xls) are supported",
	ImportFileTooLarge:        "File exceeds the maximum upload size",
	ImportEmptyFile:           "File contains no data rows",
	ImportUnreadableFile:      "File could not be read as a spreadsheet",
	ImportInvalidStructure:    "Invalid file structure",
	ImportMissingFile:         "A file must be uploaded in the 'file' field",
	ImportTimeout:             "Import took too long and was cancelled",

	// Category errors
	CategoryNotFound:        "Category not found",
	CategoryAlreadyExists:   "A category with this name already exists",
	CategoryInvalidType:     "Category type must be 'income' or 'expense'",
	CategoryKeywordNotFound: "Keyword not found",
	CategoryKeywordExists:   "Keyword already exists for this category",
	CategoryKeywordConflict: "Keyword is already assigned to another category",
	CategoryKeywordInvalid:  "Keyword must be 1 to 100 characters",

	// Transaction errors
	TransactionNotFound:         "Transaction not found",
	TransactionNothingToCommit:  "No transactions to commit",
	TransactionValidationFailed: "Transaction validation failed",
	TransactionInvalidID:        "Invalid transaction ID",
	TransactionConflict:         "Another transaction has the same date, amount and partner",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Resource not found",
	SystemPayloadTooLarge:    "Request body exceeds the allowed size",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
