package withdraw

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/devdibi/dondoc/pkg/domain"
	"github.com/devdibi/dondoc/pkg/domain/request"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestWithdrawRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	withdrawRepo := repo{db: db}

	w, err := request.NewWithdraw(uuid.New(), uuid.New(), "110-999999", 5000, "rent share")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "withdraw_requests" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, withdrawRepo.Create(context.Background(), w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	withdrawRepo := repo{db: db}
	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "withdraw_requests" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := withdrawRepo.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithdrawRepository_UpdateStatus_CompareAndSwap(t *testing.T) {
	db, mock := newMockDB(t)
	withdrawRepo := repo{db: db}
	id := uuid.New()
	adminID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "withdraw_requests" SET (.+) WHERE id = (.+) AND status = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := withdrawRepo.UpdateStatus(context.Background(), id, request.StatusRequested, request.StatusApproved, &adminID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	// the row already left REQUESTED; the swap loses
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "withdraw_requests" SET (.+) WHERE id = (.+) AND status = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err = withdrawRepo.UpdateStatus(context.Background(), id, request.StatusRequested, request.StatusRejected, &adminID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawRepository_UpdateStatus_Error(t *testing.T) {
	db, mock := newMockDB(t)
	withdrawRepo := repo{db: db}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "withdraw_requests" SET (.+)`).
		WillReturnError(errors.New("update error"))
	mock.ExpectRollback()

	_, err := withdrawRepo.UpdateStatus(context.Background(), uuid.New(), request.StatusRequested, request.StatusApproved, nil, time.Now())
	require.Error(t, err)
}

func TestWithdrawRepository_ListByMoims_EmptyScope(t *testing.T) {
	db, _ := newMockDB(t)
	withdrawRepo := repo{db: db}

	out, err := withdrawRepo.ListByMoims(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}
