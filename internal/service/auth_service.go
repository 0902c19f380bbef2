package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"userboard/internal/models"
	"userboard/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionTTL = 24 * time.Hour
	hashCost   = 10 // bcrypt work factor, fixed
)

// Domain errors for auth flows.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrUsernameTaken = errors.New("username already taken")
	ErrNoSession     = errors.New("no active session")
)

// AuthService handles signup, login and cookie-backed sessions.
type AuthService struct {
	users      repository.Users
	sessions   repository.Sessions
	signingKey []byte
}

func NewAuthService(users repository.Users, sessions repository.Sessions, sessionSecret string) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		signingKey: []byte(sessionSecret),
	}
}

var _ Auth = (*AuthService)(nil)

// SessionTTL returns the sliding session lifetime; handlers use it for the
// cookie MaxAge.
func (s *AuthService) SessionTTL() time.Duration {
	return sessionTTL
}

// SignUp hashes the password and creates a new user record. A username that
// is already in use is reported as ErrUsernameTaken; the storage layer's
// unique constraint decides, there is no application-level pre-check.
func (s *AuthService) SignUp(ctx context.Context, p SignUpParams) (int64, error) {
	hash, err := hashPassword(p.Password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	id, err := s.users.Create(ctx, p.Username, hash, p.Birthdate, p.Image)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	return id, nil
}

// sessionClaims binds the server-side session token into the signed cookie.
type sessionClaims struct {
	jwt.RegisteredClaims
	SessionToken string `json:"sid"`
}

// Login validates credentials, writes a session record and returns it
// together with the signed cookie value.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrWrongPassword
	}

	sess := &models.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		Birthdate: u.Birthdate,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, "", err
	}

	cookie, err := s.signCookie(sess.Token)
	if err != nil {
		return nil, "", err
	}
	return sess, cookie, nil
}

// Logout destroys the session server-side. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// SessionFromCookie verifies the cookie signature, loads the session record
// and slides its expiry forward. Any tampered, unknown or expired cookie
// yields ErrNoSession.
func (s *AuthService) SessionFromCookie(ctx context.Context, cookieValue string) (*models.Session, error) {
	token, err := s.parseCookie(cookieValue)
	if err != nil {
		return nil, ErrNoSession
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoSession
	}

	sess.ExpiresAt = time.Now().Add(sessionTTL)
	// best-effort slide; a failed touch only shortens the session
	_ = s.sessions.Touch(ctx, token, sess.ExpiresAt)
	return sess, nil
}

// signCookie wraps the session token in an HS256-signed JWT. Expiry lives in
// the session record, not in the claims, so the server-side sliding TTL stays
// authoritative.
func (s *AuthService) signCookie(sessionToken string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		SessionToken: sessionToken,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

// parseCookie verifies the cookie JWT and extracts the session token.
func (s *AuthService) parseCookie(cookieValue string) (string, error) {
	token, err := jwt.ParseWithClaims(cookieValue, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionToken == "" {
		return "", errors.New("invalid session cookie")
	}
	return claims.SessionToken, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
