package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
	"github.com/fiscaldesk/obligations-api/internal/core/ports"
)

type stubAccountRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAccountRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user_%d", r.nextID)
	r.byEmail[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAccountRepo) UpdateLoginIP(_ context.Context, id, ip string) error {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.LastLoginIP = ip
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubLimiter struct {
	failures map[string]int
	limit    int
}

func newStubLimiter(limit int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), limit: limit}
}

func (l *stubLimiter) TooMany(_ context.Context, email string) (bool, error) {
	return l.failures[email] >= l.limit, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	delete(l.failures, email)
	return nil
}

func newTestAuthService(repo ports.AccountRepository, limiter LoginLimiter) *AuthService {
	return NewAuthService(repo, limiter, "secret", 15*time.Minute, 24*time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, nil)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "Alice@Example.COM",
		Name:     "Alice",
		Password: "secret1",
		RemoteIP: "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if !user.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.IPAddress != "10.0.0.1" {
		t.Fatalf("expected registration ip to be recorded, got %q", user.IPAddress)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), nil)

	cases := []ports.RegisterInput{
		{Email: "", Name: "A", Password: "secret1"},
		{Email: "not-an-email", Name: "A", Password: "secret1"},
		{Email: "@example.com", Name: "A", Password: "secret1"},
		{Email: "a@example.com", Name: "A", Password: "short"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Name: "Bob", Password: "secret1"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// Same address in different case is still a duplicate.
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "BOB@example.com", Name: "Bob", Password: "secret2"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, nil)

	registered, err := svc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Name: "Carol", Password: "s3cret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), ports.LoginInput{Email: "Carol@Example.com", Password: "s3cret1", RemoteIP: "192.168.1.5"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Tokens.Access == "" || result.Tokens.Refresh == "" {
		t.Fatalf("expected non-empty token pair")
	}
	if result.User.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if result.User.LastLoginIP != "192.168.1.5" {
		t.Fatalf("expected login ip to be recorded, got %q", result.User.LastLoginIP)
	}

	claims := parseClaims(t, result.Tokens.Access)
	if claims["sub"] != registered.ID {
		t.Fatalf("expected sub %q, got %v", registered.ID, claims["sub"])
	}
	if claims["token_type"] != "access" {
		t.Fatalf("expected access token, got %v", claims["token_type"])
	}

	refreshClaims := parseClaims(t, result.Tokens.Refresh)
	if refreshClaims["token_type"] != "refresh" {
		t.Fatalf("expected refresh token, got %v", refreshClaims["token_type"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, nil)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Name: "Dave", Password: "goodpass"})
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "dave@example.com", Password: "badpass"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), nil)

	// A missing account must not be distinguishable from a bad password.
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "ghost@example.com", Password: "pass123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "eve@example.com", Name: "Eve", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	repo.byEmail["eve@example.com"].IsActive = false

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "eve@example.com", Password: "secret1"}); !errors.Is(err, domain.ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubAccountRepo()
	limiter := newStubLimiter(3)
	svc := newTestAuthService(repo, limiter)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "frank@example.com", Name: "Frank", Password: "goodpass"})

	for i := 0; i < 3; i++ {
		if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "frank@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// Budget exhausted: even the correct password is rejected now.
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "frank@example.com", Password: "goodpass"}); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ThrottleResetOnSuccess(t *testing.T) {
	repo := newStubAccountRepo()
	limiter := newStubLimiter(3)
	svc := newTestAuthService(repo, limiter)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "gina@example.com", Name: "Gina", Password: "goodpass"})

	_, _ = svc.Login(context.Background(), ports.LoginInput{Email: "gina@example.com", Password: "wrong"})
	_, _ = svc.Login(context.Background(), ports.LoginInput{Email: "gina@example.com", Password: "wrong"})

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "gina@example.com", Password: "goodpass"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if limiter.failures["gina@example.com"] != 0 {
		t.Fatalf("expected failure counter reset, got %d", limiter.failures["gina@example.com"])
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, nil)

	registered, _ := svc.Register(context.Background(), ports.RegisterInput{Email: "hank@example.com", Name: "Hank", Password: "secret1"})
	result, err := svc.Login(context.Background(), ports.LoginInput{Email: "hank@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	access, err := svc.Refresh(context.Background(), result.Tokens.Refresh)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	claims := parseClaims(t, access)
	if claims["sub"] != registered.ID {
		t.Fatalf("refreshed token has wrong subject: %v", claims["sub"])
	}
	if claims["token_type"] != "access" {
		t.Fatalf("expected access token, got %v", claims["token_type"])
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, nil)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "iris@example.com", Name: "Iris", Password: "secret1"})
	result, _ := svc.Login(context.Background(), ports.LoginInput{Email: "iris@example.com", Password: "secret1"})

	if _, err := svc.Refresh(context.Background(), result.Tokens.Access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestAuthService_Refresh_RejectsGarbage(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), nil)

	if _, err := svc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	return claims
}
