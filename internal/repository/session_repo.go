package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"userboard/internal/models"
)

type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite {
	return &SessionSQLite{db: db}
}

var _ Sessions = (*SessionSQLite)(nil)

const (
	insertSessionSQL        = `INSERT INTO sessions (token, user_id, username, birthdate, expires_at) VALUES (?, ?, ?, ?, ?)`
	selectSessionSQL        = `SELECT token, user_id, username, birthdate, expires_at FROM sessions WHERE token = ?`
	updateSessionExpirySQL  = `UPDATE sessions SET expires_at = ? WHERE token = ?`
	deleteSessionSQL        = `DELETE FROM sessions WHERE token = ?`
	deleteExpiredSessionSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

// Create stores a new session record.
func (r *SessionSQLite) Create(ctx context.Context, s *models.Session) error {
	_, err := r.db.ExecContext(ctx, insertSessionSQL, s.Token, s.UserID, s.Username, s.Birthdate.UTC(), s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session for user id=%d: %w", s.UserID, err)
	}
	return nil
}

// Get fetches a session by token. Returns (nil, nil) when the token is
// unknown or the session has already expired; expired rows are left for the
// janitor sweep.
func (r *SessionSQLite) Get(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, selectSessionSQL, token).
		Scan(&s.Token, &s.UserID, &s.Username, &s.Birthdate, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	if s.Expired(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

// Touch slides the session expiry forward.
func (r *SessionSQLite) Touch(ctx context.Context, token string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, updateSessionExpirySQL, expiresAt.UTC(), token); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an absent token is not an error.
func (r *SessionSQLite) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionSQL, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry is at or before now and
// reports how many rows went away.
func (r *SessionSQLite) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSessionSQL, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted sessions: %w", err)
	}
	return n, nil
}
