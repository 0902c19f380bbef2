package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"userboard/internal/models"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, password_hash, birthdate, image, image_type, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	selectUserByIDSQL       = `SELECT id, username, password_hash, birthdate, created_at FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, birthdate, created_at FROM users WHERE username = ?`
	selectAllUsersSQL       = `SELECT id, username, password_hash, birthdate, created_at FROM users ORDER BY id`
	selectUserImageSQL      = `SELECT image, image_type FROM users WHERE id = ?`

	updateUserProfileSQL = `UPDATE users SET username = ?, birthdate = ? WHERE id = ?`
)

// isUniqueViolation reports whether err was caused by the UNIQUE constraint
// on users.username. The string fallback covers errors that arrive without
// the driver's typed error (e.g. from a wrapped connection).
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create inserts a new user and returns its ID. A username collision is
// reported as ErrUsernameTaken; the existing record is left untouched.
func (r *UserSQLite) Create(ctx context.Context, username, passwordHash string, birthdate time.Time, img *models.ProfileImage) (int64, error) {
	var imgData []byte
	var imgType sql.NullString
	if img != nil {
		imgData = img.Data
		imgType = sql.NullString{String: img.ContentType, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, insertUserSQL, username, passwordHash, birthdate.UTC(), imgData, imgType, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return lastID, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user id=%d: %w", id, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// List returns every user record, oldest first. Unbounded on purpose: the
// listing page shows all users and the system targets toy scale.
func (r *UserSQLite) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectAllUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("select all users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Birthdate, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

// UpdateProfile overwrites username and birthdate for the given user. The
// password hash and image columns are never touched here. A username
// collision is reported as ErrUsernameTaken.
func (r *UserSQLite) UpdateProfile(ctx context.Context, id int64, username string, birthdate time.Time) error {
	_, err := r.db.ExecContext(ctx, updateUserProfileSQL, username, birthdate.UTC(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("update user id=%d: %w", id, err)
	}
	return nil
}

// GetImage fetches the stored profile image. Returns (nil, nil) when the
// user does not exist or has no image.
func (r *UserSQLite) GetImage(ctx context.Context, id int64) (*models.ProfileImage, error) {
	var data []byte
	var contentType sql.NullString
	err := r.db.QueryRowContext(ctx, selectUserImageSQL, id).Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select image for user id=%d: %w", id, err)
	}
	if len(data) == 0 || !contentType.Valid {
		return nil, nil
	}
	return &models.ProfileImage{Data: data, ContentType: contentType.String}, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Birthdate, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
