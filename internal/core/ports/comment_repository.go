package ports

import (
	"context"
	"time"

	"github.com/savannaherds/site-api/internal/core/domain"
)

// CommentPatch carries the fields of a partial comment update. Nil pointers are
// left untouched. When SetImage is true ImageURL replaces the stored value, and a
// nil ImageURL clears it.
type CommentPatch struct {
	FullName *string
	Email    *string
	Company  *string
	Phone    *string
	Website  *string
	Products *string
	Message  *string
	Approved *bool

	SetImage bool
	ImageURL *string

	UpdatedAt time.Time
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	// Create inserts the comment and returns it with its generated ID.
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	// List returns every comment ordered newest first.
	List(ctx context.Context) ([]*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	Approve(ctx context.Context, id string) error
	// Update applies patch and returns the stored document after the update.
	Update(ctx context.Context, id string, patch CommentPatch) (*domain.Comment, error)
	// Delete removes the comment. Deleting an absent comment is not an error.
	Delete(ctx context.Context, id string) error
}
