package service

import (
	"context"
	"errors"

	"userboard/internal/models"
	"userboard/internal/repository"
)

// ProfileService exposes user records for listing, viewing and editing.
type ProfileService struct {
	users repository.Users
}

func NewProfileService(users repository.Users) *ProfileService {
	return &ProfileService{users: users}
}

var _ Profiles = (*ProfileService)(nil)

// GetByID returns the user or ErrUserNotFound.
func (s *ProfileService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns all users for the home listing.
func (s *ProfileService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateProfile overwrites username and birthdate for the given user. The
// storage layer's unique constraint rejects a username that another user
// already holds, surfaced as ErrUsernameTaken.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error {
	err := s.users.UpdateProfile(ctx, userID, upd.Username, upd.Birthdate)
	if errors.Is(err, repository.ErrUsernameTaken) {
		return ErrUsernameTaken
	}
	return err
}

// GetImage returns the stored profile image or ErrImageNotFound when the
// user is absent or never uploaded one.
func (s *ProfileService) GetImage(ctx context.Context, id int64) (*models.ProfileImage, error) {
	img, err := s.users.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrImageNotFound
	}
	return img, nil
}

// ErrImageNotFound is returned when a profile image is requested for a user
// that does not exist or has none stored.
var ErrImageNotFound = errors.New("profile image not found")
