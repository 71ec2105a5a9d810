package ports

import (
	"context"

	"github.com/savannaherds/site-api/internal/core/domain"
)

// AuthService resolves bearer tokens into role-annotated principals.
type AuthService interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.Principal, error)
	// Login authenticates and additionally requires the admin role.
	Login(ctx context.Context, rawToken string) (*domain.Principal, error)
}

// TokenIssuer is implemented by identity providers that sign their own tokens.
type TokenIssuer interface {
	IssueToken(ctx context.Context, email, password string) (string, error)
}
