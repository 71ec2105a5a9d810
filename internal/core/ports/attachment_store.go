package ports

import (
	"context"

	"github.com/savannaherds/site-api/internal/core/domain"
)

// AttachmentStore persists uploaded binaries and hands back a retrieval URL.
type AttachmentStore interface {
	// Backend names the storage strategy, used for logs and metric labels.
	Backend() string
	Store(ctx context.Context, upload domain.Upload) (string, error)
	// Delete removes the binary previously returned by Store under url.
	Delete(ctx context.Context, url string) error
}
