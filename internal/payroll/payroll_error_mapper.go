package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrStatusNotMatched is returned by UpdateStatus when the row left the expected status.
var ErrStatusNotMatched = errors.New("payslip status not matched")

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayslipNotFound
	}
	if errors.Is(err, ErrStatusNotMatched) {
		return payrollerrors.ErrStatusChanged
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payslip_employee_period" {
			return payrollerrors.ErrPayslipExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payslip_employee_period") {
		return payrollerrors.ErrPayslipExists
	}

	return err
}
