package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

// UserService bridges identity-provider accounts and application role records.
// An account and its role record are always created and removed together.
type UserService struct {
	idp    ports.IdentityProvider
	roles  ports.RoleRepository
	logger zerolog.Logger
}

func NewUserService(idp ports.IdentityProvider, roles ports.RoleRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		idp:    idp,
		roles:  roles,
		logger: logger.With().Str("component", "user_service").Logger(),
	}
}

// List joins every account with its role record. Accounts without a record are
// reported with the "user" role.
func (s *UserService) List(ctx context.Context) ([]ports.UserSummary, error) {
	accounts, err := s.idp.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]ports.UserSummary, 0, len(accounts))
	for _, a := range accounts {
		summary := ports.UserSummary{
			UID:       a.UID,
			Email:     a.Email,
			Name:      domain.FirstNonEmpty(a.DisplayName, domain.NameFromEmail(a.Email)),
			Role:      domain.RoleUser,
			CreatedAt: a.CreatedAt,
		}

		record, err := s.roles.FindByUID(ctx, a.UID)
		switch {
		case err == nil:
			summary.Name = domain.FirstNonEmpty(record.Name, summary.Name)
			summary.Role = domain.FirstNonEmpty(record.Role, domain.RoleUser)
		case errors.Is(err, domain.ErrUserNotFound):
		default:
			return nil, fmt.Errorf("list users: %w", err)
		}

		out = append(out, summary)
	}
	return out, nil
}

// Create registers the account with the identity provider, then writes its
// role record. If the record cannot be written the account is removed again.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*ports.UserSummary, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	role := domain.FirstNonEmpty(input.Role, domain.RoleUser)
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	name := domain.FirstNonEmpty(input.Name, domain.NameFromEmail(email))

	account, err := s.idp.CreateAccount(ctx, email, input.Password, name)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	record := &domain.RoleRecord{
		UID:       account.UID,
		Email:     account.Email,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.roles.Create(ctx, record); err != nil {
		if delErr := s.idp.DeleteAccount(ctx, account.UID); delErr != nil {
			s.logger.Error().Err(delErr).Str("uid", account.UID).Msg("failed to roll back account after role write failure")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("uid", account.UID).Str("role", role).Msg("user created")
	return &ports.UserSummary{
		UID:       account.UID,
		Email:     account.Email,
		Name:      name,
		Role:      role,
		CreatedAt: account.CreatedAt,
	}, nil
}

// EnsureAdmin creates an admin account for email when no admin role record
// exists yet. It reports whether an account was created. An empty email is a
// no-op.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}

	exists, err := s.roles.HasRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if exists {
		s.logger.Debug().Msg("admin already present, bootstrap skipped")
		return false, nil
	}

	admin, err := s.Create(ctx, ports.CreateUserInput{Email: email, Password: password, Role: domain.RoleAdmin})
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	s.logger.Info().Str("uid", admin.UID).Str("email", admin.Email).Msg("bootstrap admin created")
	return true, nil
}

func (s *UserService) UpdateRole(ctx context.Context, uid, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}
	if err := s.roles.UpdateRole(ctx, uid, role); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	s.logger.Info().Str("uid", uid).Str("role", role).Msg("user role updated")
	return nil
}

// Delete removes the account, then its role record.
func (s *UserService) Delete(ctx context.Context, uid string) error {
	if err := s.idp.DeleteAccount(ctx, uid); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.roles.Delete(ctx, uid); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Str("uid", uid).Msg("user deleted")
	return nil
}
