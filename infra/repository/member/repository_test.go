package member

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/devdibi/dondoc/pkg/domain"
	domainmoim "github.com/devdibi/dondoc/pkg/domain/moim"
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

func TestMemberRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	memberRepo := repo{db: db}
	m := domainmoim.NewMember(uuid.New(), uuid.New(), domainmoim.RoleMember)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "moim_members" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, memberRepo.Create(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_Find_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	memberRepo := repo{db: db}

	mock.ExpectQuery(`SELECT (.+) FROM "moim_members" WHERE user_id = (.+) AND moim_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := memberRepo.Find(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemberRepository_Approve_CompareAndSwap(t *testing.T) {
	db, mock := newMockDB(t)
	memberRepo := repo{db: db}
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "moim_members" SET (.+) WHERE id = (.+) AND status = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := memberRepo.Approve(context.Background(), id, "110-222222", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	// the membership was already approved; the second accept loses
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "moim_members" SET (.+) WHERE id = (.+) AND status = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err = memberRepo.Approve(context.Background(), id, "110-222222", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	memberRepo := repo{db: db}
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "moim_members" WHERE (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, memberRepo.Delete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}
