package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when email or password do not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidToken is returned for a missing, malformed, or expired session token.
var ErrInvalidToken = errors.New("invalid session token")

// User is an authenticated principal. PasswordHash is a bcrypt hash.
type User struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
}

// UserStore looks up principals for sign-in.
type UserStore interface {
	FindByEmail(email string) (*User, error)
}

// Service issues and verifies bearer session tokens.
type Service struct {
	users  UserStore
	logger *zap.Logger
	secret []byte
	ttl    time.Duration
}

// NewService creates a new auth Service signing tokens with secret.
func NewService(users UserStore, logger *zap.Logger, secret string, ttl time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		users:  users,
		logger: logger,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// SignIn checks the credentials and returns a signed session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) SignIn(email, password string) (string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		s.logger.Warn("sign-in failed", zap.String("email", email), zap.Error(err))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("sign-in failed", zap.String("email", email))
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID))
	return token, nil
}

// Verify parses the session token and returns the user ID it was issued to.
func (s *Service) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HashPassword produces a bcrypt hash suitable for User.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
