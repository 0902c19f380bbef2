package handlers

import (
	"context"
	"errors"
	"time"

	"userboard/internal/models"
	"userboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

// errTest stands in for unexpected repository failures.
var errTest = errors.New("boom")

type mockAuth struct {
	signUpID  int64
	signUpErr error

	loginSess   *models.Session
	loginCookie string
	loginErr    error

	logoutErr error

	// cookie value -> session resolved by the middleware
	sessByCookie map[string]*models.Session

	lastSignUp      service.SignUpParams
	lastLoginUser   string
	lastLoginPass   string
	lastLogoutToken string
}

func (m *mockAuth) SignUp(_ context.Context, p service.SignUpParams) (int64, error) {
	m.lastSignUp = p
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (*models.Session, string, error) {
	m.lastLoginUser = username
	m.lastLoginPass = password
	return m.loginSess, m.loginCookie, m.loginErr
}

func (m *mockAuth) Logout(_ context.Context, token string) error {
	m.lastLogoutToken = token
	return m.logoutErr
}

func (m *mockAuth) SessionFromCookie(_ context.Context, cookieValue string) (*models.Session, error) {
	if s, ok := m.sessByCookie[cookieValue]; ok {
		return s, nil
	}
	return nil, service.ErrNoSession
}

func (m *mockAuth) SessionTTL() time.Duration { return 24 * time.Hour }

type mockProfiles struct {
	users  map[int64]*models.User
	images map[int64]*models.ProfileImage

	listErr   error
	updateErr error

	lastUpdateID  int64
	lastUpdate    service.ProfileUpdate
	updateCalls   int
	getImageCalls int
}

func (m *mockProfiles) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

func (m *mockProfiles) List(_ context.Context) ([]models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockProfiles) UpdateProfile(_ context.Context, userID int64, upd service.ProfileUpdate) error {
	m.updateCalls++
	m.lastUpdateID = userID
	m.lastUpdate = upd
	return m.updateErr
}

func (m *mockProfiles) GetImage(_ context.Context, id int64) (*models.ProfileImage, error) {
	m.getImageCalls++
	if img, ok := m.images[id]; ok {
		return img, nil
	}
	return nil, service.ErrImageNotFound
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, "../../web/templates/*.html")
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func testSession(userID int64, username string) *models.Session {
	return &models.Session{
		Token:     "tok-" + username,
		UserID:    userID,
		Username:  username,
		Birthdate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}
