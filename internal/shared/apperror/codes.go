package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput           = "INVALID_INPUT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeInvalidState           = "INVALID_STATE"
	CodeAlreadyResolved        = "ALREADY_RESOLVED"
	CodeDuplicateActiveRequest = "DUPLICATE_ACTIVE_REQUEST"
	CodeNegativeResidual       = "NEGATIVE_RESIDUAL"
	CodeMissingAttendance      = "MISSING_ATTENDANCE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
