package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

type siteContentService struct {
	repo   ports.SiteContentRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewSiteContentService returns a SiteContentService implementation.
func NewSiteContentService(repo ports.SiteContentRepository, logger zerolog.Logger) ports.SiteContentService {
	return &siteContentService{
		repo:   repo,
		logger: logger.With().Str("component", "site_content").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Read returns the stored homepage copy, or the built-in default when nothing
// was written yet. The default is not persisted.
func (s *siteContentService) Read(ctx context.Context) (*domain.SiteContent, error) {
	content, err := s.repo.Get(ctx)
	if errors.Is(err, domain.ErrSiteContentNotFound) {
		return domain.DefaultSiteContent(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read site content: %w", err)
	}
	return content, nil
}

func (s *siteContentService) Write(ctx context.Context, patch ports.SiteContentPatch, writerUID string) (*domain.SiteContent, error) {
	if writerUID == "" {
		return nil, domain.ErrUnauthorized
	}

	content, err := s.repo.Upsert(ctx, patch, writerUID, s.now())
	if err != nil {
		return nil, fmt.Errorf("write site content: %w", err)
	}

	s.logger.Info().Str("updated_by", writerUID).Msg("site content updated")
	return content, nil
}
