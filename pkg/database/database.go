package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// DefaultPath is used when WithPath receives an empty path.
const DefaultPath = "./data/portfoy.db"

// Database holds the GORM database instance
type Database struct {
	conn   *gorm.DB
	logger *slog.Logger
}

// Option is the functional options pattern for Database
type Option func(*Database) error

// New creates a new Database instance with options
func New(opts ...Option) (*Database, error) {
	db := &Database{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// WithLogger must come before WithPath to receive the connect message.
func WithLogger(l *slog.Logger) Option {
	return func(db *Database) error {
		if l != nil {
			db.logger = l
		}
		return nil
	}
}

// WithPath opens the SQLite database at path, creating its directory.
// In-memory DSNs skip the directory checks.
func WithPath(path string) Option {
	return func(db *Database) error {
		if path == "" {
			path = DefaultPath
		}
		if strings.HasPrefix(path, "file::memory:") || path == ":memory:" {
			return db.open(path)
		}

		// Ensure data directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}

		// Verify directory is accessible and writable
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("failed to stat data directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path %s is not a directory", dir)
		}

		// Test write permissions by creating a temp file
		testFile := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			return fmt.Errorf("data directory %s is not writable: %w", dir, err)
		}
		os.Remove(testFile)

		return db.open(path)
	}
}

func (d *Database) open(path string) error {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w (path: %s)", err, path)
	}
	d.conn = conn
	d.logger.Info("database connected", "path", path)
	return nil
}

// Get returns the underlying GORM database instance, nil before WithPath.
func (d *Database) Get() *gorm.DB {
	return d.conn
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
