package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/valens-periods/internal/periods"
	"github.com/zapponejosh/valens-periods/internal/session"
)

// timeLayout keeps fractional seconds so ordering is exact.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB implements session.Store.
var _ session.Store = (*DB)(nil)

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Save inserts or replaces a session.
func (db *DB) Save(ctx context.Context, s *session.Session) error {
	if s.Cycles == nil {
		return errors.New("session has no cycles")
	}
	payload, err := json.Marshal(s.Cycles)
	if err != nil {
		return fmt.Errorf("encode cycles: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT OR REPLACE INTO chart_sessions
			(id, afeta, cycle_length, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		s.ID,
		string(s.Cycles.Afeta),
		s.Cycles.Length,
		string(payload),
		formatTime(s.CreatedAt),
		formatTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get loads a session. Expired rows are treated as missing.
func (db *DB) Get(ctx context.Context, id string) (*session.Session, error) {
	var payload, createdAt, expiresAt string
	err := db.QueryRowContext(ctx, `
		SELECT payload, created_at, expires_at
		FROM chart_sessions
		WHERE id = ? AND expires_at > ?
	`, id, formatTime(db.now())).Scan(&payload, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	var cycles periods.Cycles
	if err := json.Unmarshal([]byte(payload), &cycles); err != nil {
		return nil, fmt.Errorf("decode cycles: %w", err)
	}

	s := &session.Session{ID: id, Cycles: &cycles}
	if s.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if s.ExpiresAt, err = time.Parse(timeLayout, expiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	return s, nil
}

// Delete removes a session. Unknown IDs return session.ErrNotFound.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM chart_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

// PurgeExpired deletes every expired session and returns how many were removed.
func (db *DB) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := db.ExecContext(ctx,
		"DELETE FROM chart_sessions WHERE expires_at <= ?",
		formatTime(db.now()),
	)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		db.logger.Debug("purged expired sessions", slog.Int64("count", n))
	}
	return n, nil
}

// CountSessions returns the number of stored rows, expired or not.
func (db *DB) CountSessions(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chart_sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
