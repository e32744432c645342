package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, tokenType string, claims jwt.MapClaims) string {
	t.Helper()
	if claims == nil {
		claims = jwt.MapClaims{}
	}
	claims["token_type"] = tokenType
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/obligations", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(testSecret)(next)(c)
	return c, err
}

func TestAuth_ValidAccessToken(t *testing.T) {
	token := mintToken(t, testSecret, "access", jwt.MapClaims{
		"sub":      "user_1",
		"email":    "a@x.com",
		"is_staff": false,
	})

	c, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}
	if c.Get("user_id") != "user_1" {
		t.Fatalf("user_id not set from sub claim: %v", c.Get("user_id"))
	}
	if c.Get("email") != "a@x.com" {
		t.Fatalf("email not propagated: %v", c.Get("email"))
	}
}

func TestAuth_RejectsRefreshToken(t *testing.T) {
	token := mintToken(t, testSecret, "refresh", jwt.MapClaims{"sub": "user_1"})

	_, err := runAuth(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %v", err)
	}
}

func TestAuth_RejectsExpiredToken(t *testing.T) {
	token := mintToken(t, testSecret, "access", jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := runAuth(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", err)
	}
}

func TestAuth_RejectsWrongSecret(t *testing.T) {
	token := mintToken(t, "other-secret", "access", jwt.MapClaims{"sub": "user_1"})

	_, err := runAuth(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %v", err)
	}
}

func TestAuth_RejectsMissingSubject(t *testing.T) {
	token := mintToken(t, testSecret, "access", jwt.MapClaims{})

	_, err := runAuth(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without sub claim, got %v", err)
	}
}

func TestAuth_MalformedHeaders(t *testing.T) {
	cases := []string{
		"",
		"Bearer",
		"Basic dXNlcjpwYXNz",
		"Bearer not-a-jwt",
	}
	for _, header := range cases {
		_, err := runAuth(t, header)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %v", header, err)
		}
	}
}
