// Package sqlite implements the SQLite record sink: tables are created on
// first write and rows are upserted by the record's natural key, so
// repeated report runs converge instead of duplicating.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.RecordSink = (*Sink)(nil)

// Sink writes flat records to a SQLite database, one table per record type.
type Sink struct {
	db   *sql.DB
	path string

	mu     sync.Mutex
	tables map[string]bool
}

// NewSink opens (or creates) the report database. If dataDir is empty,
// defaults to ~/.rscreport/data/reports.db.
func NewSink(dataDir string) (*Sink, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".rscreport", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "reports.db")

	// WAL mode so report writes do not block readers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Sink{
		db:     db,
		path:   dbPath,
		tables: make(map[string]bool),
	}, nil
}

// Close closes the database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Sink) Path() string {
	return s.path
}

// Write persists a batch of records of a single type, creating the table
// if missing and upserting by natural key. An empty batch is a no-op.
func (s *Sink) Write(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	first := records[0]
	if first.Type == "" || len(first.Columns) == 0 || len(first.Keys) == 0 {
		return domain.ErrInvalidInput
	}

	if err := s.ensureTable(ctx, first); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertStatement(first))
	if err != nil {
		return fmt.Errorf("preparing upsert for %s: %w", first.Type, err)
	}
	defer stmt.Close()

	for i := range records {
		args := make([]any, 0, len(first.Columns))
		for _, col := range first.Columns {
			args = append(args, sqlValue(records[i].Get(col)))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("upserting %s row: %w", first.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s batch: %w", first.Type, err)
	}
	return nil
}

// ensureTable creates the destination table the first time a type is seen.
func (s *Sink) ensureTable(ctx context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[rec.Type] {
		return nil
	}

	cols := make([]string, 0, len(rec.Columns))
	for _, col := range rec.Columns {
		cols = append(cols, fmt.Sprintf("%s %s", quoteIdent(col), columnAffinity(rec.Get(col))))
	}
	keys := make([]string, 0, len(rec.Keys))
	for _, k := range rec.Keys {
		keys = append(keys, quoteIdent(k))
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s, PRIMARY KEY (%s))",
		quoteIdent(rec.Type), strings.Join(cols, ", "), strings.Join(keys, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", rec.Type, err)
	}

	s.tables[rec.Type] = true
	return nil
}

// upsertStatement builds the INSERT ... ON CONFLICT DO UPDATE statement for
// one record shape.
func upsertStatement(rec domain.Record) string {
	cols := make([]string, 0, len(rec.Columns))
	placeholders := make([]string, 0, len(rec.Columns))
	for _, col := range rec.Columns {
		cols = append(cols, quoteIdent(col))
		placeholders = append(placeholders, "?")
	}

	keySet := make(map[string]bool, len(rec.Keys))
	keys := make([]string, 0, len(rec.Keys))
	for _, k := range rec.Keys {
		keySet[k] = true
		keys = append(keys, quoteIdent(k))
	}

	updates := make([]string, 0, len(rec.Columns))
	for _, col := range rec.Columns {
		if keySet[col] {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", quoteIdent(col), quoteIdent(col)))
	}

	// Every column in the key leaves nothing to update.
	if len(updates) == 0 {
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO NOTHING",
			quoteIdent(rec.Type),
			strings.Join(cols, ", "),
			strings.Join(placeholders, ", "),
			strings.Join(keys, ", "))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		quoteIdent(rec.Type),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(keys, ", "),
		strings.Join(updates, ", "))
}

// columnAffinity picks the SQLite type for a sample value.
func columnAffinity(v any) string {
	switch v.(type) {
	case float64:
		return "REAL"
	case bool, int, int64:
		return "INTEGER"
	case *time.Time, time.Time:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// sqlValue converts record values into driver-friendly values.
func sqlValue(v any) any {
	switch val := v.(type) {
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.UTC().Format(time.RFC3339)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

// quoteIdent quotes a SQL identifier.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
