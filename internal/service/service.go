package service

import (
	"context"
	"time"

	"userboard/internal/models"
	"userboard/internal/repository"
)

// SignUpParams carries the signup form fields plus the optional image.
type SignUpParams struct {
	Username  string
	Password  string
	Birthdate time.Time
	Image     *models.ProfileImage
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Username  string
	Birthdate time.Time
}

type Auth interface {
	SignUp(ctx context.Context, p SignUpParams) (int64, error)
	Login(ctx context.Context, username, password string) (*models.Session, string, error)
	Logout(ctx context.Context, token string) error
	SessionFromCookie(ctx context.Context, cookieValue string) (*models.Session, error)
	SessionTTL() time.Duration
}

type Profiles interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error
	GetImage(ctx context.Context, id int64) (*models.ProfileImage, error)
}

// Janitor runs the background loop that sweeps expired sessions.
// Stop via context cancellation in main() for graceful shutdown.
type Janitor interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Auth
	Profiles
	Janitor
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, sessionSecret string) *Service {
	return &Service{
		Auth:     NewAuthService(repos.Users, repos.Sessions, sessionSecret),
		Profiles: NewProfileService(repos.Users),
		Janitor:  NewJanitorService(repos.Sessions),
	}
}
