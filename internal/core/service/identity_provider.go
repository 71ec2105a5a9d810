package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

// LocalIdentityProvider is a self-hosted identity provider: accounts live in
// the credential repository, passwords are bcrypt hashes and tokens are HS256
// JWTs whose subject is the account UID.
type LocalIdentityProvider struct {
	repo      ports.CredentialRepository
	jwtSecret string
	tokenTTL  time.Duration
}

var (
	_ ports.IdentityProvider = (*LocalIdentityProvider)(nil)
	_ ports.TokenIssuer      = (*LocalIdentityProvider)(nil)
)

func NewLocalIdentityProvider(repo ports.CredentialRepository, jwtSecret string, tokenTTL time.Duration) *LocalIdentityProvider {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &LocalIdentityProvider{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (p *LocalIdentityProvider) CreateAccount(ctx context.Context, email, password, displayName string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        email,
		DisplayName:  domain.FirstNonEmpty(displayName, domain.NameFromEmail(email)),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := p.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (p *LocalIdentityProvider) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return p.repo.List(ctx)
}

func (p *LocalIdentityProvider) DeleteAccount(ctx context.Context, uid string) error {
	return p.repo.Delete(ctx, uid)
}

// IssueToken checks the password and returns a signed token for the account.
func (p *LocalIdentityProvider) IssueToken(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	account, err := p.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	return p.generateToken(account)
}

// VerifyToken validates signature, algorithm and expiry.
func (p *LocalIdentityProvider) VerifyToken(_ context.Context, rawToken string) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(p.jwtSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, domain.ErrUnauthorized
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &domain.TokenClaims{Subject: sub, Email: email, Name: name}, nil
}

func (p *LocalIdentityProvider) generateToken(account *domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   account.UID,
		"email": account.Email,
		"name":  account.DisplayName,
		"iat":   now.Unix(),
		"exp":   now.Add(p.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(p.jwtSecret))
}
