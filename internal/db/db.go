package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"storefront-web/internal/config"
	"storefront-web/internal/logger"

	"github.com/XSAM/otelsql"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	pingTimeout = 5 * time.Second
)

var ErrUnsupportedDriver = errors.New("unsupported store driver")

// NewDatabase opens the visitor state database named by cfg.StoreDriver
// through an otelsql-instrumented driver and checks it is reachable.
func NewDatabase(cfg *config.Config) (*sql.DB, error) {
	var system attribute.KeyValue
	switch cfg.StoreDriver {
	case DriverPostgres:
		system = semconv.DBSystemNamePostgreSQL
	case DriverMySQL:
		system = semconv.DBSystemNameMySQL
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.StoreDriver)
	}

	driverName, err := otelsql.Register(cfg.StoreDriver, otelsql.WithAttributes(system))
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := newDatabaseWithDriver(cfg, driverName)
	if err != nil {
		return nil, err
	}

	if err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(
		system,
		attribute.String("service.name", cfg.OTELServiceName),
	)); err != nil {
		logger.L().Warn("failed to register db stats metrics", zap.Error(err))
	}

	return db, nil
}

func newDatabaseWithDriver(cfg *config.Config, driverName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.L().Info("Database connection established",
		zap.String("driver", cfg.StoreDriver),
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)
	return db, nil
}

func buildDSN(cfg *config.Config) string {
	if cfg.StoreDriver == DriverMySQL {
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DBHost, port)
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		return mc.FormatDSN()
	}

	port := cfg.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, port,
	)
}
