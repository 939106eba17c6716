// Package services holds the mock API's business rules.
package services

import (
	"errors"
	"strconv"

	"github.com/shashiranjanraj/e2esuite/app/models"
	"github.com/shashiranjanraj/e2esuite/pkg/auth"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// legacyTokenPrefix forms the opaque token older suites assert on.
const legacyTokenPrefix = "mock-jwt-token-"

// UserFinder is the lookup AuthService needs.
type UserFinder interface {
	FindByUsername(username string) (models.User, bool)
}

// Session is a successful login.
type Session struct {
	Token       string
	AccessToken string
	User        models.User
}

type AuthService struct {
	users UserFinder
}

func NewAuthService(users UserFinder) *AuthService {
	return &AuthService{users: users}
}

// Login checks username and password and issues both the opaque mock token
// and a signed access token accepted by the Auth middleware.
func (s *AuthService) Login(username, password string) (Session, error) {
	user, ok := s.users.FindByUsername(username)
	if !ok || !auth.CheckPassword(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(user.ID, user.Username, user.Region)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:       legacyTokenPrefix + strconv.Itoa(user.ID),
		AccessToken: access,
		User:        user,
	}, nil
}
