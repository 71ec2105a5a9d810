package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/api/metrics"
	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

// AuthService is the identity verifier: the provider checks the token, the
// role repository supplies the role. Nothing is cached between requests.
type AuthService struct {
	idp    ports.IdentityProvider
	roles  ports.RoleRepository
	logger zerolog.Logger
}

func NewAuthService(idp ports.IdentityProvider, roles ports.RoleRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{
		idp:    idp,
		roles:  roles,
		logger: logger.With().Str("component", "auth_service").Logger(),
	}
}

// Authenticate returns domain.ErrUnauthorized for a bad token and
// domain.ErrForbidden when the subject has no role record.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*domain.Principal, error) {
	if rawToken == "" {
		metrics.AuthChecksTotal.WithLabelValues("unauthorized").Inc()
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.idp.VerifyToken(ctx, rawToken)
	if err != nil {
		metrics.AuthChecksTotal.WithLabelValues("unauthorized").Inc()
		s.logger.Debug().Err(err).Msg("token verification failed")
		return nil, domain.ErrUnauthorized
	}

	record, err := s.roles.FindByUID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthChecksTotal.WithLabelValues("forbidden").Inc()
			return nil, fmt.Errorf("%w: user not found in database", domain.ErrForbidden)
		}
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	metrics.AuthChecksTotal.WithLabelValues("ok").Inc()
	return &domain.Principal{
		UID:   claims.Subject,
		Email: domain.FirstNonEmpty(claims.Email, record.Email),
		Name:  domain.FirstNonEmpty(record.Name, claims.Name),
		Role:  record.Role,
	}, nil
}

// Login authenticates and requires the admin role. The name falls back to the
// local part of the email address.
func (s *AuthService) Login(ctx context.Context, rawToken string) (*domain.Principal, error) {
	principal, err := s.Authenticate(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() {
		s.logger.Info().Str("uid", principal.UID).Msg("login refused: not an admin")
		return nil, fmt.Errorf("%w: admin privileges required", domain.ErrForbidden)
	}

	principal.Name = domain.FirstNonEmpty(principal.Name, domain.NameFromEmail(principal.Email))
	s.logger.Info().Str("uid", principal.UID).Msg("admin login")
	return principal, nil
}
