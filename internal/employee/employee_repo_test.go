package employee_test

import (
	"context"
	"regexp"
	"testing"

	"go-payroll/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gdb, mock
}

func TestEmployeeRepository_FindManagerID(t *testing.T) {
	ctx := context.Background()

	t.Run("with manager", func(t *testing.T) {
		gdb, mock := setupGorm(t)
		id, managerID := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","manager_id" FROM "employees" WHERE id = $1`)).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "manager_id"}).AddRow(id, managerID))

		got, err := employee.NewRepository(gdb).FindManagerID(ctx, id)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, managerID, *got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("top of the hierarchy", func(t *testing.T) {
		gdb, mock := setupGorm(t)
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","manager_id" FROM "employees"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "manager_id"}).AddRow(id, nil))

		got, err := employee.NewRepository(gdb).FindManagerID(ctx, id)

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("unknown employee", func(t *testing.T) {
		gdb, mock := setupGorm(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","manager_id" FROM "employees"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "manager_id"}))

		_, err := employee.NewRepository(gdb).FindManagerID(ctx, uuid.New())

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestEmployeeRepository_Delete(t *testing.T) {
	gdb, mock := setupGorm(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "employees" WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := employee.NewRepository(gdb).Delete(context.Background(), id)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
