package payrollerrors

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
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period",
		http.StatusBadRequest,
	)
	ErrInvalidEarnings = apperror.New(
		apperror.CodeInvalidInput,
		"earnings cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidAttendance = apperror.New(
		apperror.CodeInvalidInput,
		"attendance snapshot is inconsistent",
		http.StatusBadRequest,
	)
	ErrInvalidPolicy = apperror.New(
		apperror.CodeInvalidInput,
		"invalid statutory policy",
		http.StatusBadRequest,
	)
	ErrMissingAttendance = apperror.New(
		apperror.CodeMissingAttendance,
		"no attendance period supplied for the requested month",
		http.StatusUnprocessableEntity,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrPayslipExists = apperror.New(
		apperror.CodeConflict,
		"a payslip already exists for this employee and period",
		http.StatusConflict,
	)
	ErrPayslipOnHold = apperror.New(
		apperror.CodeInvalidState,
		"payslip is on hold by a pending payment hold",
		http.StatusConflict,
	)
	ErrPayslipNotFinalized = apperror.New(
		apperror.CodeInvalidState,
		"payslip must be finalized before it can be paid",
		http.StatusBadRequest,
	)
	ErrPayslipAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payslip is already paid",
		http.StatusConflict,
	)
	ErrStatusChanged = apperror.New(
		apperror.CodeInvalidState,
		"payslip status changed concurrently, reload and retry",
		http.StatusConflict,
	)
	ErrBatchTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"too many employees in one batch",
		http.StatusBadRequest,
	)
	ErrAsyncUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"asynchronous payroll runs are not configured",
		http.StatusServiceUnavailable,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you do not have permission for this payroll action",
		http.StatusForbidden,
	)
)
