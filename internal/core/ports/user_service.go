package ports

import (
	"context"
	"time"
)

// CreateUserInput carries a new directory entry.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// UserSummary joins an identity-provider account with its role record.
type UserSummary struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserService manages the admin user directory.
type UserService interface {
	List(ctx context.Context) ([]UserSummary, error)
	Create(ctx context.Context, input CreateUserInput) (*UserSummary, error)
	UpdateRole(ctx context.Context, uid, role string) error
	Delete(ctx context.Context, uid string) error
}
