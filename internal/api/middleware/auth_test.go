package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/savannaherds/site-api/internal/core/domain"
)

type stubAuthenticator struct {
	principals map[string]*domain.Principal
	calls      int
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.Principal, error) {
	s.calls++
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	if token == "orphan" {
		return nil, domain.ErrForbidden
	}
	return nil, domain.ErrUnauthorized
}

func newAuthenticator() *stubAuthenticator {
	return &stubAuthenticator{principals: map[string]*domain.Principal{
		"admin-token": {UID: "a1", Role: domain.RoleAdmin},
		"user-token":  {UID: "u1", Role: domain.RoleUser},
	}}
}

func runAuth(t *testing.T, auth Authenticator, header string) (echo.Context, error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := Authenticate(auth)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, err, called
}

func TestAuthenticate_ValidToken(t *testing.T) {
	c, err, called := runAuth(t, newAuthenticator(), "Bearer admin-token")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if p := PrincipalFrom(c); p == nil || p.UID != "a1" {
		t.Fatalf("principal not set: %+v", p)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		check  func(error) bool
	}{
		{"missing header", "", isHTTPStatus(http.StatusUnauthorized)},
		{"wrong scheme", "Token abc", isHTTPStatus(http.StatusUnauthorized)},
		{"empty bearer", "Bearer ", isHTTPStatus(http.StatusUnauthorized)},
		{"invalid token", "Bearer nope", func(err error) bool { return errors.Is(err, domain.ErrUnauthorized) }},
		{"no role record", "Bearer orphan", func(err error) bool { return errors.Is(err, domain.ErrForbidden) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err, called := runAuth(t, newAuthenticator(), tt.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAuthenticate_VerifiesEveryRequest(t *testing.T) {
	auth := newAuthenticator()
	for i := 0; i < 3; i++ {
		_, _, _ = runAuth(t, auth, "Bearer user-token")
	}
	if auth.calls != 3 {
		t.Fatalf("expected 3 verifications, got %d", auth.calls)
	}
}

func isHTTPStatus(code int) func(error) bool {
	return func(err error) bool {
		var he *echo.HTTPError
		return errors.As(err, &he) && he.Code == code
	}
}
