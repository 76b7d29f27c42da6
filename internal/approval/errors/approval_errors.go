package approvalerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approval request id",
		http.StatusBadRequest,
	)
	ErrInvalidSubjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid subject employee id",
		http.StatusBadRequest,
	)
	ErrSubjectNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"subject employee does not exist",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"kind must be one of LEAVE, RESIGNATION, PAYMENT_HOLD",
		http.StatusBadRequest,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be one of approve, reject, withdraw",
		http.StatusBadRequest,
	)
	ErrInvalidPayload = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request payload",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of ANNUAL, SICK, UNPAID",
		http.StatusBadRequest,
	)
	ErrInvalidHoldPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hold period, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"comment is required when rejecting",
		http.StatusBadRequest,
	)
	ErrOverrideNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"override_date is only allowed when approving a resignation",
		http.StatusBadRequest,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to perform this approval action",
		http.StatusForbidden,
	)
	ErrSelfDecision = apperror.New(
		apperror.CodeForbidden,
		"you cannot decide a request about yourself",
		http.StatusForbidden,
	)
	ErrNotRequester = apperror.New(
		apperror.CodeForbidden,
		"only the original requester can withdraw",
		http.StatusForbidden,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval request not found",
		http.StatusNotFound,
	)
	ErrAlreadyResolved = apperror.New(
		apperror.CodeAlreadyResolved,
		"approval request is already resolved",
		http.StatusConflict,
	)
	ErrDuplicateActiveRequest = apperror.New(
		apperror.CodeDuplicateActiveRequest,
		"an active request of this kind already exists",
		http.StatusConflict,
	)
)
