// Package sqlite opens a local SQLite database with the pure Go driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	Conn *sql.DB
	Path string
	ctx  context.Context
}

func NewSQLiteDB(path string) *SQLiteDB {
	return &SQLiteDB{Path: path, ctx: context.Background()}
}

// Connect creates the parent directory and opens the file with foreign keys
// enforced on every pooled connection.
func (s *SQLiteDB) Connect() error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := "file:" + s.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.Conn = conn
	return s.Conn.PingContext(s.ctx)
}

func (s *SQLiteDB) Disconnect() error {
	if s.Conn != nil {
		return s.Conn.Close()
	}
	return nil
}

func (s *SQLiteDB) GetContext() context.Context {
	return s.ctx
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.Conn.PingContext(ctx)
}
