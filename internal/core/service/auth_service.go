package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
	"github.com/fiscaldesk/obligations-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	minPasswordLen = 6
)

// LoginLimiter abstracts the brute-force throttle (Redis). Limiter failures
// are never fatal to a login attempt.
type LoginLimiter interface {
	TooMany(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, login, and the token issuer.
type AuthService struct {
	repo       ports.AccountRepository
	limiter    LoginLimiter
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

// NewAuthService builds an AuthService. A nil limiter disables login
// throttling; non-positive TTLs fall back to the defaults.
func NewAuthService(repo ports.AccountRepository, limiter LoginLimiter, jwtSecret string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *AuthService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		repo:       repo,
		limiter:    limiter,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return nil, fmt.Errorf("%w: email is malformed", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         in.Name,
		PasswordHash: string(hash),
		IPAddress:    in.RemoteIP,
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", created.Email).Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		tooMany, err := s.limiter.TooMany(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, continuing")
		} else if tooMany {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// A missing account and a wrong password are indistinguishable to
		// the caller.
		if err == domain.ErrUserNotFound {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("login throttle reset failed")
		}
	}

	if in.RemoteIP != "" {
		if err := s.repo.UpdateLoginIP(ctx, user.ID, in.RemoteIP); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record login ip")
		} else {
			user.LastLoginIP = in.RemoteIP
		}
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", user.Email).Str("user_id", user.ID).Msg("login succeeded")
	return &ports.LoginResult{Tokens: pair, User: user}, nil
}

// Refresh verifies a refresh token and mints a new access token for the same
// subject. Expiry is the only invalidation mechanism; there is no revocation
// list.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	if claims["token_type"] != tokenTypeRefresh {
		return "", domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	isStaff, _ := claims["is_staff"].(bool)

	return s.signToken(sub, email, isStaff, tokenTypeAccess, s.accessTTL)
}

func (s *AuthService) issuePair(user *domain.User) (ports.TokenPair, error) {
	access, err := s.signToken(user.ID, user.Email, user.IsStaff, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.signToken(user.ID, user.Email, user.IsStaff, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return ports.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) signToken(sub, email string, isStaff bool, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        sub,
		"email":      email,
		"is_staff":   isStaff,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login throttle record failed")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
