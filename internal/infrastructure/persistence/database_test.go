package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return &Database{DB: db}, mock
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing()

		assert.NoError(t, db.Ping(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection lost", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		assert.EqualError(t, db.Ping(context.Background()), "connection refused")
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock := newMockDatabase(t)
	mock.ExpectClose()

	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLogger(t *testing.T) {
	o := dbOptions{gorm: &gorm.Config{}}
	l := gormlogger.Default.LogMode(gormlogger.Warn)

	WithLogger(l)(&o)

	assert.Equal(t, l, o.gorm.Logger)
}

func TestDatabase_WaitReady(t *testing.T) {
	noSleep := func(context.Context, time.Duration) error { return nil }

	t.Run("recovers after transient failures", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing().WillReturnError(errors.New("the database system is starting up"))
		mock.ExpectPing().WillReturnError(errors.New("the database system is starting up"))
		mock.ExpectPing()

		err := db.waitReady(context.Background(), 3, time.Second, dbOptions{logger: zap.NewNop(), sleep: noSleep})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		err := db.waitReady(context.Background(), 2, time.Second, dbOptions{logger: zap.NewNop(), sleep: noSleep})

		assert.ErrorContains(t, err, "after 2 attempts")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := db.waitReady(ctx, 5, time.Hour, dbOptions{logger: zap.NewNop(), sleep: sleepCtx})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
