package ports

import (
	"context"

	"github.com/savannaherds/site-api/internal/core/domain"
)

// IdentityProvider verifies bearer tokens and, where it owns the accounts,
// manages them. Providers that cannot manage accounts return domain.ErrUnsupported.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, rawToken string) (*domain.TokenClaims, error)
	CreateAccount(ctx context.Context, email, password, displayName string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	DeleteAccount(ctx context.Context, uid string) error
}

// CredentialRepository stores accounts of the self-hosted identity provider.
type CredentialRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Delete(ctx context.Context, uid string) error
}

// RoleRepository stores application role records keyed by account UID.
type RoleRepository interface {
	FindByUID(ctx context.Context, uid string) (*domain.RoleRecord, error)
	// HasRole reports whether at least one record holds role.
	HasRole(ctx context.Context, role string) (bool, error)
	Create(ctx context.Context, record *domain.RoleRecord) error
	UpdateRole(ctx context.Context, uid, role string) error
	Delete(ctx context.Context, uid string) error
}
