package compensation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive     = "ACTIVE"
	StatusSuperseded = "SUPERSEDED"
)

// CompensationStructure is one CTC revision for an employee. Rows are never edited
// apart from the ACTIVE -> SUPERSEDED flip.
type CompensationStructure struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;index"`
	AnnualTotal    decimal.Decimal `gorm:"type:numeric(14,2)"`
	EffectiveFrom  time.Time       `gorm:"type:date"`
	Status         string
	RevisionReason string
	CreatedBy      uuid.UUID `gorm:"type:uuid"`
	SupersededAt   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CompensationStructure) TableName() string {
	return "compensation_structures"
}
