// Package identity holds identity providers backed by an external issuer.
package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

// OIDCConfig holds the issuer and the audience tokens must be minted for.
type OIDCConfig struct {
	Issuer   string
	ClientID string
}

// OIDCProvider verifies ID tokens issued by an external OpenID Connect
// provider. Accounts are managed by that provider, not here.
type OIDCProvider struct {
	verifier *oidc.IDTokenVerifier
	logger   zerolog.Logger
}

var _ ports.IdentityProvider = (*OIDCProvider)(nil)

// NewOIDCProvider discovers the issuer's keys and builds a verifier.
func NewOIDCProvider(ctx context.Context, cfg OIDCConfig, logger zerolog.Logger) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("create OIDC provider: %w", err)
	}

	p := newOIDCProvider(provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}), logger)
	p.logger.Info().Str("issuer", cfg.Issuer).Msg("OIDC provider initialized")
	return p, nil
}

func newOIDCProvider(verifier *oidc.IDTokenVerifier, logger zerolog.Logger) *OIDCProvider {
	return &OIDCProvider{
		verifier: verifier,
		logger:   logger.With().Str("component", "oidc").Logger(),
	}
}

type idTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// VerifyToken checks signature, issuer, audience and expiry.
func (p *OIDCProvider) VerifyToken(ctx context.Context, rawToken string) (*domain.TokenClaims, error) {
	token, err := p.verifier.Verify(ctx, rawToken)
	if err != nil {
		p.logger.Debug().Err(err).Msg("ID token rejected")
		return nil, domain.ErrUnauthorized
	}

	var claims idTokenClaims
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims", domain.ErrUnauthorized)
	}
	if token.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return &domain.TokenClaims{
		Subject: token.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

func (p *OIDCProvider) CreateAccount(context.Context, string, string, string) (*domain.Account, error) {
	return nil, fmt.Errorf("%w: accounts are managed by the OIDC issuer", domain.ErrUnsupported)
}

func (p *OIDCProvider) ListAccounts(context.Context) ([]*domain.Account, error) {
	return nil, fmt.Errorf("%w: accounts are managed by the OIDC issuer", domain.ErrUnsupported)
}

func (p *OIDCProvider) DeleteAccount(context.Context, string) error {
	return fmt.Errorf("%w: accounts are managed by the OIDC issuer", domain.ErrUnsupported)
}
