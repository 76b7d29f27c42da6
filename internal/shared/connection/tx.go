package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a context-bound gorm handle that runs on tx when one is given.
// WithContext clones the statement, so swapping the pool never leaks into db.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx != nil {
		conn.Statement.ConnPool = tx
	}
	return conn
}
