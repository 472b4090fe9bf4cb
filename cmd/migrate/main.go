package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"storefront-web/internal/config"
	"storefront-web/internal/db"
	"storefront-web/internal/logger"
)

// Bookkeeping statements per dialect.
type dialect struct {
	ensure string
	exists string
	record string
	last   string
	forget string
}

var dialects = map[string]dialect{
	db.DriverPostgres: {
		ensure: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version TEXT PRIMARY KEY,
				applied_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		exists: `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`,
		record: `INSERT INTO schema_migrations (version) VALUES ($1)`,
		last:   `SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`,
		forget: `DELETE FROM schema_migrations WHERE version = $1`,
	},
	db.DriverMySQL: {
		ensure: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version VARCHAR(255) PRIMARY KEY,
				applied_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
			)
		`,
		exists: `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)`,
		record: `INSERT INTO schema_migrations (version) VALUES (?)`,
		last:   `SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`,
		forget: `DELETE FROM schema_migrations WHERE version = ?`,
	},
}

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	dir := flag.String("dir", "./migrations", "directory holding one sub-directory of .sql files per dialect")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.StoreDriver == "memory" {
		log.Fatal("STORE_DRIVER=memory has nothing to migrate")
	}

	database, err := db.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer database.Close()

	if err := run(database, cfg.StoreDriver, *mode, filepath.Join(*dir, cfg.StoreDriver)); err != nil {
		log.Fatal(err)
	}
}

func run(db *sql.DB, driver, mode, migrationsDir string) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("unknown dialect: %s", driver)
	}

	// Ensure schema_migrations table exists
	if _, err := db.Exec(d.ensure); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	sort.Strings(files)

	switch mode {
	case "up":
		return runMigrationsUp(db, d, files)
	case "down":
		return runMigrationsDown(db, d, files)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func runMigrationsUp(db *sql.DB, d dialect, files []string) error {
	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		if err := db.QueryRow(d.exists, version).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			fmt.Printf("⏭ Skipping already applied migration: %s\n", version)
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		upSQL := extractMigrationPart(string(content), "Up")
		fmt.Printf("🚀 Applying migration: %s\n", version)

		if _, err := db.Exec(upSQL); err != nil {
			return fmt.Errorf("❌ Migration failed (%s): %w", version, err)
		}

		if _, err := db.Exec(d.record, version); err != nil {
			return fmt.Errorf("failed to record migration version: %w", err)
		}
	}
	fmt.Println("✅ All new migrations applied successfully.")
	return nil
}

func runMigrationsDown(db *sql.DB, d dialect, files []string) error {
	var lastVersion string
	err := db.QueryRow(d.last).Scan(&lastVersion)
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Println("⚠️  No migrations to roll back.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	filePath := ""
	for _, f := range files {
		if filepath.Base(f) == lastVersion {
			filePath = f
			break
		}
	}
	if filePath == "" {
		return fmt.Errorf("migration file not found for version: %s", lastVersion)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	downSQL := extractMigrationPart(string(content), "Down")
	fmt.Printf("🧹 Rolling back migration: %s\n", lastVersion)

	if _, err := db.Exec(downSQL); err != nil {
		return fmt.Errorf("❌ Rollback failed (%s): %w", filePath, err)
	}

	if _, err := db.Exec(d.forget, lastVersion); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}

	fmt.Println("✅ Rollback successful.")
	return nil
}

// extractMigrationPart returns the lines between the "-- +migrate <section>"
// marker and the next marker.
func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	var inPart bool

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+section) {
			inPart = true
			continue
		}
		if inPart && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}
