package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"storefront-web/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	t.Run("Postgres", func(t *testing.T) {
		cfg := &config.Config{
			StoreDriver: DriverPostgres,
			DBHost:      "localhost",
			DBUser:      "test_user",
			DBPassword:  "test_password",
			DBName:      "test_db",
			DBPort:      "5433",
		}

		expected := "host=localhost user=test_user password=test_password dbname=test_db port=5433 sslmode=disable"
		assert.Equal(t, expected, buildDSN(cfg))
	})

	t.Run("Postgres default port", func(t *testing.T) {
		cfg := &config.Config{StoreDriver: DriverPostgres, DBHost: "db"}
		assert.Contains(t, buildDSN(cfg), "port=5432")
	})

	t.Run("MySQL", func(t *testing.T) {
		cfg := &config.Config{
			StoreDriver: DriverMySQL,
			DBHost:      "db",
			DBUser:      "root",
			DBPassword:  "secret",
			DBName:      "storefront",
		}

		assert.Equal(t, "root:secret@tcp(db:3306)/storefront?parseTime=true", buildDSN(cfg))
	})
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	db, err := NewDatabase(&config.Config{StoreDriver: "sqlite"})

	assert.ErrorIs(t, err, ErrUnsupportedDriver)
	assert.Nil(t, db)
}

func TestNewDatabase_InvalidDriver(t *testing.T) {
	db, err := newDatabaseWithDriver(&config.Config{}, "invalid_driver_name")

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to connect to DB")
}

// --- Mock drivers ---

type mockDriver struct{ openErr error }

func (m *mockDriver) Open(string) (driver.Conn, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return &mockConn{}, nil
}

type mockConn struct{}

func (c *mockConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *mockConn) Close() error                        { return nil }
func (c *mockConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func init() {
	sql.Register("mock_driver_success", &mockDriver{})
	sql.Register("mock_driver_down", &mockDriver{openErr: errors.New("connection refused")})
}

func TestNewDatabase_Success(t *testing.T) {
	db, err := newDatabaseWithDriver(&config.Config{StoreDriver: DriverPostgres, DBHost: "localhost"}, "mock_driver_success")

	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.NoError(t, db.Close())
}

func TestNewDatabase_PingFailure(t *testing.T) {
	db, err := newDatabaseWithDriver(&config.Config{DBHost: "invalid_host"}, "mock_driver_down")

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to ping DB")
}
