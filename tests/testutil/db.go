package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quiet = logger.Default.LogMode(logger.Silent)

// MockDB is a postgres-dialect GORM handle whose SQL is asserted by sqlmock.
// Repositories that rely on row locks or RETURNING are tested this way;
// everything else runs against NewSQLiteDB.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 quiet,
	})
	require.NoError(t, err)
	return &MockDB{DB: db, Mock: mock, SqlDB: conn}
}

func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet())
}

// NewSQLiteDB migrates models into a private in-memory sqlite database.
// The pool is pinned to one connection since each new connection to
// ":memory:" would see an empty database.
func NewSQLiteDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: quiet})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

var fixtureNamespace = uuid.MustParse("0b6f3c52-8d1e-4d0c-9c57-7a2f0e5d9a11")

// NewTestUUID returns the same id for the same seed across runs.
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(fixtureNamespace, []byte(seed))
}

func TestUserID() uuid.UUID {
	return NewTestUUID("shopper")
}
