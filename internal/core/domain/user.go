package domain

import (
	"errors"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrUserExists = errors.New("email already registered")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInactiveAccount = errors.New("inactive account")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrInvalidToken = errors.New("invalid token")

// User models a registered account. The email is the login name and is
// stored lowercased; PasswordHash is the only persisted form of the password.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IPAddress    string    `json:"ip_address,omitempty"`
	LastLoginIP  string    `json:"last_login_ip,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	DateJoined   time.Time `json:"date_joined"`
	UpdatedAt    time.Time `json:"updated_at"`
}
