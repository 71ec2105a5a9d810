package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/savannaherds/site-api/internal/core/domain"
)

func runRBAC(t *testing.T, principal *domain.Principal) (error, bool) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if principal != nil {
		c.Set(principalKey, principal)
	}

	called := false
	err := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return err, called
}

func TestRequireRole_Allows(t *testing.T) {
	err, called := runRBAC(t, &domain.Principal{UID: "a1", Role: domain.RoleAdmin})
	if err != nil || !called {
		t.Fatalf("admin should pass, err=%v called=%v", err, called)
	}
}

func TestRequireRole_ForbidsOtherRoles(t *testing.T) {
	err, called := runRBAC(t, &domain.Principal{UID: "u1", Role: domain.RoleUser})
	if called {
		t.Fatalf("should not reach next")
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_WithoutPrincipal(t *testing.T) {
	err, called := runRBAC(t, nil)
	if called {
		t.Fatalf("should not reach next")
	}
	if !isHTTPStatus(http.StatusUnauthorized)(err) {
		t.Fatalf("expected 401, got %v", err)
	}
}
