package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savannaherds/site-api/internal/api/middleware"
	"github.com/savannaherds/site-api/internal/core/domain"
)

// ctxPrincipal returns the principal injected by the Authenticate middleware.
// A missing principal means the route was registered without the gate.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil || p.UID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}
