package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ecofamily/famsync/internal/types"
)

// SQLiteStore is the SQLite-backed family document store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore instance.
// It initializes the database with WAL mode, applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection serializes writers and keeps :memory: databases
	// coherent across the pool.
	db.SetMaxOpenConns(1)

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the database, for backup workers.
func (s *SQLiteStore) Path(ctx context.Context) (string, error) {
	var path string
	err := s.db.QueryRowContext(ctx, "SELECT file FROM pragma_database_list WHERE name = 'main'").Scan(&path)
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	return path, nil
}

// Exists reports whether a document exists for the given family code.
func (s *SQLiteStore) Exists(ctx context.Context, code string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM families WHERE code = ?", code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateFamily inserts a fresh family document. The code must be unused;
// an existing row yields ErrFamilyExists and the stored document is never
// overwritten.
func (s *SQLiteStore) CreateFamily(ctx context.Context, code string, data types.SharedData) (*types.FamilyDocument, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal shared data: %w", err)
	}

	created := time.Now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO families (code, created_at, shared_data)
		VALUES (?, ?, ?)
		ON CONFLICT (code) DO NOTHING
	`, code, created.Format(time.RFC3339), string(payload))
	if err != nil {
		return nil, err
	}

	// Zero affected rows means the code was already claimed; the stored
	// document is never overwritten.
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrFamilyExists
	}

	return &types.FamilyDocument{Created: created, SharedData: data}, nil
}

// GetSharedData returns the shared document for a family, or
// ErrFamilyNotFound when the namespace is absent.
func (s *SQLiteStore) GetSharedData(ctx context.Context, code string) (*types.SharedData, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT shared_data FROM families WHERE code = ?", code).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFamilyNotFound
	}
	if err != nil {
		return nil, err
	}

	var data types.SharedData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("unmarshal shared data for %s: %w", code, err)
	}
	return &data, nil
}

// PutSharedData replaces the family's document wholesale. There are no
// partial or merge writes at this layer.
func (s *SQLiteStore) PutSharedData(ctx context.Context, code string, data types.SharedData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal shared data: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "UPDATE families SET shared_data = ? WHERE code = ?", string(payload), code)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFamilyNotFound
	}
	return nil
}

// CountFamilies returns the number of family namespaces.
func (s *SQLiteStore) CountFamilies(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM families").Scan(&count)
	return count, err
}

// CreatedAt returns the creation timestamp of a family namespace.
func (s *SQLiteStore) CreatedAt(ctx context.Context, code string) (time.Time, error) {
	var created string
	err := s.db.QueryRowContext(ctx, "SELECT created_at FROM families WHERE code = ?", code).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrFamilyNotFound
	}
	if err != nil {
		return time.Time{}, err
	}

	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at for %s: %w", code, err)
	}
	return t, nil
}
