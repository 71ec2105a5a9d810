package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savannaherds/site-api/internal/api/middleware"
	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	issuer      ports.TokenIssuer // nil when the identity provider issues its own tokens
}

func NewAuthHandler(authService ports.AuthService, issuer ports.TokenIssuer) *AuthHandler {
	return &AuthHandler{authService: authService, issuer: issuer}
}

// Login checks an identity token and admits admins only.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Identity token"
// @Success      200   {object}  domain.Principal
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	principal, err := h.authService.Login(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, principal)
}

// Verify reports whether the bearer token belongs to a known user of any role.
//
// @Summary      Verify a token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyResponse
// @Failure      401  {object}  verifyResponse
// @Failure      403  {object}  verifyResponse
// @Router       /api/auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	token, err := middleware.BearerToken(c.Request())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, verifyResponse{Valid: false, Error: "no token provided"})
	}

	principal, err := h.authService.Authenticate(c.Request().Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, verifyResponse{Valid: false, Error: domain.ErrUserNotFound.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, verifyResponse{Valid: false, Error: domain.ErrUnauthorized.Error()})
	default:
		return err
	}

	return c.JSON(http.StatusOK, verifyResponse{
		Valid: true,
		UID:   principal.UID,
		Email: principal.Email,
		Name:  principal.Name,
		Role:  principal.Role,
	})
}

// IssueToken exchanges email and password for a token of the built-in identity provider.
//
// @Summary      Issue a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      501   {object}  errorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) IssueToken(c echo.Context) error {
	if h.issuer == nil {
		return fmt.Errorf("%w: tokens are issued by the external identity provider", domain.ErrUnsupported)
	}

	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	token, err := h.issuer.IssueToken(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}
