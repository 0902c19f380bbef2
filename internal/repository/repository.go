package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"userboard/internal/models"
	"userboard/internal/repository/db"
)

// ErrUsernameTaken is returned when an insert or update collides with the
// UNIQUE constraint on users.username.
var ErrUsernameTaken = errors.New("username already taken")

type Users interface {
	Create(ctx context.Context, username, passwordHash string, birthdate time.Time, img *models.ProfileImage) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, username string, birthdate time.Time) error
	GetImage(ctx context.Context, id int64) (*models.ProfileImage, error)
}

type Sessions interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Touch(ctx context.Context, token string, expiresAt time.Time) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository struct {
	Users    Users
	Sessions Sessions
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserSQLite(sqlDB),
		Sessions: NewSessionSQLite(sqlDB),
	}
}

// InitDB opens the SQLite database and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
