package ports

import (
	"context"

	"github.com/savannaherds/site-api/internal/core/domain"
)

// CreateCommentInput is the DTO passed from the transport layer on submission.
type CreateCommentInput struct {
	FullName string
	Email    string
	Company  string
	Phone    string
	Website  string
	Products string
	Message  string
	Image    *domain.Upload // optional
}

// UpdateCommentInput carries a partial update. Nil fields were absent from the request.
type UpdateCommentInput struct {
	FullName *string
	Email    *string
	Company  *string
	Phone    *string
	Website  *string
	Products *string
	Message  *string
	Approved *bool

	Image       *domain.Upload // optional replacement
	RemoveImage bool
}

// CommentService defines the moderated comment lifecycle.
type CommentService interface {
	Create(ctx context.Context, input CreateCommentInput) (*domain.Comment, error)
	List(ctx context.Context) ([]*domain.Comment, error)
	Get(ctx context.Context, id string) (*domain.Comment, error)
	Approve(ctx context.Context, id string) error
	Update(ctx context.Context, id string, input UpdateCommentInput) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
}
