// Package journal persists seeds and roll results in SQLite so a
// simulation run can be audited and replayed later. The journal is an
// append-only record of what was rolled, not a save format: replaying a
// run means reseeding from the recorded seed and repeating the calls.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/crawlspace/internal/journal/migrations"
	"github.com/louisbranch/crawlspace/internal/platform/storage/sqlitemigrate"
)

// ErrNoSeed indicates no seed has been recorded for the requested stream.
var ErrNoSeed = errors.New("no seed recorded for stream")

// Roll is one journaled dice roll.
type Roll struct {
	ID         int64
	Expression string
	Results    []int
	Total      int
	CreatedAt  time.Time
}

// Store is a SQLite-backed roll journal.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a journal database and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the journal handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordSeed appends the seed a stream was initialized with.
func (s *Store) RecordSeed(ctx context.Context, stream string, seed uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO seeds (stream, seed, created_at) VALUES (?, ?, ?)",
		stream, strconv.FormatUint(seed, 10), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record seed: %w", err)
	}
	return nil
}

// LastSeed returns the most recently recorded seed for a stream.
func (s *Store) LastSeed(ctx context.Context, stream string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var text string
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT seed FROM seeds WHERE stream = ? ORDER BY id DESC LIMIT 1",
		stream,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrNoSeed, stream)
	}
	if err != nil {
		return 0, fmt.Errorf("query seed: %w", err)
	}
	seed, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse recorded seed %q: %w", text, err)
	}
	return seed, nil
}

// RecordRoll appends one roll result.
func (s *Store) RecordRoll(ctx context.Context, expression string, results []int, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		"INSERT INTO rolls (expression, results, total, created_at) VALUES (?, ?, ?, ?)",
		expression, string(encoded), total, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record roll: %w", err)
	}
	return nil
}

// ListRolls returns the most recent rolls, newest first, up to limit.
func (s *Store) ListRolls(ctx context.Context, limit int) ([]Roll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT id, expression, results, total, created_at FROM rolls ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query rolls: %w", err)
	}
	defer rows.Close()

	var rolls []Roll
	for rows.Next() {
		var r Roll
		var encoded string
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Expression, &encoded, &r.Total, &createdAt); err != nil {
			return nil, fmt.Errorf("scan roll: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &r.Results); err != nil {
			return nil, fmt.Errorf("decode results for roll %d: %w", r.ID, err)
		}
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		rolls = append(rolls, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rolls: %w", err)
	}
	return rolls, nil
}
