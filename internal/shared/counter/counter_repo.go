// Package counter hands out gap-tolerant, never-repeating sequence numbers used for
// employee numbers and payslip reference numbers.
package counter

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const codeWidth = 6

var ErrInvalidKey = errors.New("counter: scope and counter type are required")

const nextValueQuery = `
INSERT INTO counters (scope, counter_type, last_value, updated_at)
VALUES (?, ?, 1, now())
ON CONFLICT (scope, counter_type) DO UPDATE
SET last_value = counters.last_value + 1, updated_at = now()
RETURNING last_value`

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, scope string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetNextValue increments (scope, counterType) in one upsert. A caller that rolls back
// after taking a value leaves a gap.
func (r *repository) GetNextValue(ctx context.Context, scope string, counterType string) (int64, error) {
	if scope == "" || counterType == "" {
		return 0, ErrInvalidKey
	}

	var next int64
	if err := r.db.WithContext(ctx).Raw(nextValueQuery, scope, counterType).Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// Format renders v zero-padded after prefix, e.g. Format("EMP", 42) is "EMP-000042".
// Values wider than the padding are printed in full.
func Format(prefix string, v int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, codeWidth, v)
}
