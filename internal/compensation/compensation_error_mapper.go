package compensation

import (
	"errors"
	"strings"

	compensationerrors "go-payroll/internal/compensation/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return compensationerrors.ErrStructureNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_compensation_active" {
			return compensationerrors.ErrActiveRevisionConflict
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_compensation_active") {
		return compensationerrors.ErrActiveRevisionConflict
	}

	return err
}
