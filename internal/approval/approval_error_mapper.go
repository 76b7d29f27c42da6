package approval

import (
	"errors"
	"strings"

	approvalerrors "go-payroll/internal/approval/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	pendingHoldConstraint = "uq_approval_pending_hold"
	subjectConstraint     = "fk_approval_subject"
)

var constraintErrors = map[string]error{
	pendingHoldConstraint: approvalerrors.ErrDuplicateActiveRequest,
	subjectConstraint:     approvalerrors.ErrSubjectNotFound,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return approvalerrors.ErrRequestNotFound
	}
	if errors.Is(err, ErrVersionConflict) {
		return approvalerrors.ErrAlreadyResolved
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
				return mapped
			}
		}
		return err
	}

	msg := strings.ToLower(err.Error())
	for constraint, mapped := range constraintErrors {
		if strings.Contains(msg, constraint) {
			return mapped
		}
	}
	return err
}
