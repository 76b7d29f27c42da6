package compensationerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidAnnualTotal = apperror.New(
		apperror.CodeInvalidInput,
		"annual total must be a positive amount with at most 2 decimal places",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEffectiveDateBeforeActive = apperror.New(
		apperror.CodeInvalidInput,
		"effective date cannot precede the current active revision",
		http.StatusBadRequest,
	)
	ErrRevisionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"revision reason is required",
		http.StatusBadRequest,
	)
	ErrInvalidPolicy = apperror.New(
		apperror.CodeInvalidInput,
		"invalid compensation policy",
		http.StatusBadRequest,
	)
	ErrNegativeResidual = apperror.New(
		apperror.CodeNegativeResidual,
		"annual total is too low for the fixed salary components",
		http.StatusUnprocessableEntity,
	)
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"compensation structure not found",
		http.StatusNotFound,
	)
	ErrActiveRevisionConflict = apperror.New(
		apperror.CodeConflict,
		"another active compensation revision was created concurrently",
		http.StatusConflict,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"only HR or Admin may manage compensation",
		http.StatusForbidden,
	)
)
