package approval

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// subjectScope narrows a query to one subject's requests, and to kind when it is set.
func subjectScope(subjectID uuid.UUID, kind string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("subject_id = ?", subjectID)
		if kind != "" {
			db = db.Where("kind = ?", kind)
		}
		return db
	}
}
