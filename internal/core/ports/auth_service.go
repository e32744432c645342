package ports

import (
	"context"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	// RemoteIP is the address the registration request came from.
	RemoteIP string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
	RemoteIP string
}

// TokenPair is the credential set returned by a successful login: a
// short-lived access token and a long-lived refresh token, both HS256-signed
// with the user id as subject.
type TokenPair struct {
	Access  string
	Refresh string
}

// LoginResult bundles the authenticated identity with its token pair.
type LoginResult struct {
	Tokens TokenPair
	User   *domain.User
}

// AuthService implements registration, login, and token refresh.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// Refresh verifies a refresh token and mints a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
}
