package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/api/metrics"
	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

// CommentService implements the moderated comment lifecycle, including image
// attachment resolution and best-effort cleanup of replaced attachments.
type CommentService struct {
	repo   ports.CommentRepository
	store  ports.AttachmentStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewCommentService(repo ports.CommentRepository, store ports.AttachmentStore, logger zerolog.Logger) *CommentService {
	return &CommentService{
		repo:   repo,
		store:  store,
		logger: logger.With().Str("component", "comment_service").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create stores the optional image, then persists a new unapproved comment.
func (s *CommentService) Create(ctx context.Context, input ports.CreateCommentInput) (*domain.Comment, error) {
	comment := &domain.Comment{
		FullName:  input.FullName,
		Email:     input.Email,
		Company:   input.Company,
		Phone:     input.Phone,
		Website:   input.Website,
		Products:  input.Products,
		Message:   input.Message,
		Approved:  false,
		CreatedAt: s.now(),
	}
	if missing := comment.MissingRequired(); len(missing) > 0 {
		s.logger.Warn().Strs("missing", missing).Msg("comment submitted without required fields")
	}

	if input.Image != nil {
		url, err := s.storeImage(ctx, *input.Image)
		if err != nil {
			return nil, fmt.Errorf("create comment: %w", err)
		}
		comment.ImageURL = &url
	}

	created, err := s.repo.Create(ctx, comment)
	if err != nil {
		if comment.HasImage() {
			s.removeAttachment(ctx, *comment.ImageURL)
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	metrics.CommentsCreatedTotal.Inc()
	s.logger.Info().Str("comment_id", created.ID).Bool("image", created.HasImage()).Msg("comment created")
	return created, nil
}

// List returns all comments, newest first. Equal timestamps keep the
// repository's order.
func (s *CommentService) List(ctx context.Context) ([]*domain.Comment, error) {
	comments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	slices.SortStableFunc(comments, func(a, b *domain.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// Approve marks the comment approved. Approving twice is a no-op success.
func (s *CommentService) Approve(ctx context.Context, id string) error {
	if err := s.repo.Approve(ctx, id); err != nil {
		return fmt.Errorf("approve comment: %w", err)
	}
	metrics.CommentsApprovedTotal.Inc()
	s.logger.Info().Str("comment_id", id).Msg("comment approved")
	return nil
}

// Update merges the fields present in input over the stored comment.
//
// Image precedence: RemoveImage clears the URL, otherwise a new Image replaces
// it, otherwise it is left alone. A replaced or cleared attachment is deleted
// only after the record no longer references it.
func (s *CommentService) Update(ctx context.Context, id string, input ports.UpdateCommentInput) (*domain.Comment, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	patch := ports.CommentPatch{
		FullName:  input.FullName,
		Email:     input.Email,
		Company:   input.Company,
		Phone:     input.Phone,
		Website:   input.Website,
		Products:  input.Products,
		Message:   input.Message,
		Approved:  input.Approved,
		UpdatedAt: s.now(),
	}

	var stale, fresh string
	switch {
	case input.RemoveImage:
		patch.SetImage = true
		patch.ImageURL = nil
		if current.HasImage() {
			stale = *current.ImageURL
		}
	case input.Image != nil:
		url, err := s.storeImage(ctx, *input.Image)
		if err != nil {
			return nil, fmt.Errorf("update comment: %w", err)
		}
		fresh = url
		patch.SetImage = true
		patch.ImageURL = &url
		if current.HasImage() {
			stale = *current.ImageURL
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if fresh != "" {
			s.removeAttachment(ctx, fresh)
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	if stale != "" && stale != fresh {
		s.removeAttachment(ctx, stale)
	}

	s.logger.Info().
		Str("comment_id", id).
		Bool("image_removed", input.RemoveImage).
		Bool("image_replaced", fresh != "").
		Msg("comment updated")
	return updated, nil
}

// Delete removes the comment's attachment (best effort), then the comment.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	comment, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		if comment.HasImage() {
			s.removeAttachment(ctx, *comment.ImageURL)
		}
	case isNotFound(err):
		// Nothing to clean up; deletion stays idempotent.
	default:
		return fmt.Errorf("delete comment: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	metrics.CommentsDeletedTotal.Inc()
	s.logger.Info().Str("comment_id", id).Msg("comment deleted")
	return nil
}

func (s *CommentService) storeImage(ctx context.Context, upload domain.Upload) (string, error) {
	if !upload.IsImage() {
		return "", domain.ErrUnsupportedMediaType
	}
	url, err := s.store.Store(ctx, upload)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	metrics.AttachmentsStoredTotal.WithLabelValues(s.store.Backend()).Inc()
	return url, nil
}

// removeAttachment never fails the caller: cleanup errors are logged and counted.
func (s *CommentService) removeAttachment(ctx context.Context, url string) {
	if err := s.store.Delete(ctx, url); err != nil {
		metrics.AttachmentCleanupFailuresTotal.WithLabelValues(s.store.Backend()).Inc()
		s.logger.Warn().Err(err).Str("image_url", url).Msg("failed to remove attachment")
		return
	}
	s.logger.Debug().Str("image_url", url).Msg("attachment removed")
}
