package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// ErrVenueNotFound means a venue slug has no row; usually a missing seed
	ErrVenueNotFound = errors.New("venue not found")
	// ErrNotFound means the requested event does not exist
	ErrNotFound = errors.New("event not found")
)

// DatabaseConfig selects the backend
type DatabaseConfig struct {
	Driver     string `yaml:"driver"` // sqlite or postgres
	DSN        string `yaml:"dsn"`
	LogQueries bool   `yaml:"log_queries"`
}

// Store is the gorm-backed repository for venues and events
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database
func Open(ctx context.Context, cfg DatabaseConfig) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if cfg.LogQueries {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "sqlite3", "":
		dsn, err := prepareSQLitePath(cfg.DSN)
		if err != nil {
			return nil, err
		}
		db, err := gorm.Open(gormsqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite db: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("getting sql db: %w", err)
		}
		// one connection: pragmas stick and :memory: databases are shared
		sqlDB.SetMaxOpenConns(1)
		if err := db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
		return &Store{db: db}, nil

	case "postgres", "postgresql":
		db, err := gorm.Open(postgres.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("opening postgres db: %w", err)
		}
		return &Store{db: db}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// prepareSQLitePath expands ~ and creates the parent directory of a file DSN
func prepareSQLitePath(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:") {
		return dsn, nil
	}

	if strings.HasPrefix(dsn, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dsn = filepath.Join(home, dsn[2:])
	}

	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating data directory: %w", err)
		}
	}
	return dsn, nil
}

// Migrate creates or updates the schema
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Venue{}, &Event{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
