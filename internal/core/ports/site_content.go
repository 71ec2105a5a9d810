package ports

import (
	"context"
	"time"

	"github.com/savannaherds/site-api/internal/core/domain"
)

// SiteContentPatch holds the homepage fields present in a write request.
type SiteContentPatch struct {
	HeroTitle    *string
	HeroSubtitle *string
	AboutText    *string
	ContactInfo  *string
}

// SiteContentRepository persists the homepage singleton.
type SiteContentRepository interface {
	// Get returns domain.ErrSiteContentNotFound when the document was never written.
	Get(ctx context.Context) (*domain.SiteContent, error)
	// Upsert merges patch into the document, creating it when absent.
	Upsert(ctx context.Context, patch SiteContentPatch, updatedBy string, at time.Time) (*domain.SiteContent, error)
}

// SiteContentService exposes public reads and admin writes of the homepage copy.
type SiteContentService interface {
	Read(ctx context.Context) (*domain.SiteContent, error)
	Write(ctx context.Context, patch SiteContentPatch, writerUID string) (*domain.SiteContent, error)
}
