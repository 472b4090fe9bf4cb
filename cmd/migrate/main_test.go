package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE visitor_state (visitor_id text);
CREATE INDEX idx_visitor_state_updated_at ON visitor_state (updated_at);

-- +migrate Down
DROP TABLE visitor_state;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE visitor_state")
		assert.Contains(t, up, "CREATE INDEX")
		assert.NotContains(t, up, "DROP TABLE")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE visitor_state")
		assert.NotContains(t, down, "CREATE TABLE")
	})

	t.Run("Missing section", func(t *testing.T) {
		assert.Empty(t, extractMigrationPart("-- +migrate Up\nSELECT 1;", "Down"))
	})
}

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunMigrationsUp(t *testing.T) {
	t.Run("Postgres applies pending", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dir := t.TempDir()
		done := writeMigration(t, dir, "0001_init.sql", "-- +migrate Up\nCREATE TABLE a (id int);")
		pending := writeMigration(t, dir, "0002_state.sql", "-- +migrate Up\nCREATE TABLE visitor_state (id int);\n-- +migrate Down\nDROP TABLE visitor_state;")

		mock.ExpectQuery(`SELECT EXISTS.*schema_migrations WHERE version = \$1`).
			WithArgs("0001_init.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`SELECT EXISTS.*schema_migrations`).
			WithArgs("0002_state.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE visitor_state").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO schema_migrations \(version\) VALUES \(\$1\)`).
			WithArgs("0002_state.sql").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = runMigrationsUp(db, dialects["postgres"], []string{done, pending})

		assert.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MySQL placeholders", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_state.sql", "-- +migrate Up\nCREATE TABLE visitor_state (id int);")

		mock.ExpectQuery(`SELECT EXISTS.*WHERE version = \?`).
			WithArgs("0001_state.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE visitor_state").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO schema_migrations \(version\) VALUES \(\?\)`).
			WithArgs("0001_state.sql").
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, runMigrationsUp(db, dialects["mysql"], []string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error stops at failing migration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_bad.sql", "-- +migrate Up\nCREATE TABLE broken;")

		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE broken").
			WillReturnError(sql.ErrConnDone)

		err = runMigrationsUp(db, dialects["postgres"], []string{file})

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Contains(t, err.Error(), "0001_bad.sql")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunMigrationsDown(t *testing.T) {
	t.Run("Rolls back latest", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_state.sql",
			"-- +migrate Up\nCREATE TABLE visitor_state (id int);\n-- +migrate Down\nDROP TABLE visitor_state;")

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_state.sql"))
		mock.ExpectExec("DROP TABLE visitor_state").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM schema_migrations WHERE version = \$1`).
			WithArgs("0001_state.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, runMigrationsDown(db, dialects["postgres"], []string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing applied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		assert.NoError(t, runMigrationsDown(db, dialects["postgres"], nil))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("File missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0009_gone.sql"))

		err = runMigrationsDown(db, dialects["mysql"], nil)

		assert.ErrorContains(t, err, "0009_gone.sql")
	})
}

func TestRun(t *testing.T) {
	t.Run("Unknown dialect", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		assert.ErrorContains(t, run(db, "sqlite", "up", t.TempDir()), "unknown dialect")
	})

	t.Run("Unknown mode", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorContains(t, run(db, "postgres", "sideways", t.TempDir()), "unknown mode")
	})

	t.Run("Applies files in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dir := t.TempDir()
		writeMigration(t, dir, "0002_b.sql", "-- +migrate Up\nCREATE TABLE b (id int);")
		writeMigration(t, dir, "0001_a.sql", "-- +migrate Up\nCREATE TABLE a (id int);")

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		for _, name := range []string{"0001_a.sql", "0002_b.sql"} {
			mock.ExpectQuery("SELECT EXISTS").WithArgs(name).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(name).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}

		assert.NoError(t, run(db, "postgres", "up", dir))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
