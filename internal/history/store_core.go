package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store records builds in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// connection pragmas; modernc applies _pragma parameters to every pooled
// connection.
var pragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

const (
	busyAttempts = 5
	busyBackoff  = 10 * time.Millisecond
)

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	query := url.Values{"_pragma": pragmas}
	db, err := sql.Open("sqlite", path+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// retryOnBusy reruns op while SQLite reports the database as locked,
// doubling the wait each time.
func retryOnBusy(ctx context.Context, op func() error) error {
	wait := busyBackoff
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || attempt == busyAttempts || !isBusy(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func isBusy(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		// SQLITE_BUSY and its extended codes share the low byte.
		return coder.Code()&0xff == 5
	}
	return strings.Contains(err.Error(), "database is locked")
}
