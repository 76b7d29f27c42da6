package employee

import (
	"errors"
	"strings"

	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// constraintErrors maps named constraints in the employees schema to domain errors.
var constraintErrors = map[string]error{
	"uq_employee_number":           employeeerrors.ErrEmployeeNumberAlreadyExists,
	"uq_employee_email":            employeeerrors.ErrEmployeeAlreadyExists,
	"fk_employee_manager":          employeeerrors.ErrManagerNotFound,
	"chk_employee_not_own_manager": employeeerrors.ErrSelfManager,
	"fk_payslip_employee":          employeeerrors.ErrEmployeeHasPayroll,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation:
			if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
				return mapped
			}
		}
		return err
	}

	// drivers that do not surface a PgError still carry the constraint name in the text
	msg := strings.ToLower(err.Error())
	for constraint, mapped := range constraintErrors {
		if strings.Contains(msg, constraint) {
			return mapped
		}
	}
	return err
}
