package ports

import (
	"context"
	"time"

	"github.com/savannaherds/site-api/internal/core/domain"
)

// Mailer delivers a rendered message to the site inbox.
type Mailer interface {
	Send(ctx context.Context, msg domain.MailMessage) error
}

// SubmissionDedup suppresses repeated identical contact-form submissions.
type SubmissionDedup interface {
	// Seen atomically records key and reports whether it was already present within window.
	Seen(ctx context.Context, key string, window time.Duration) (bool, error)
}

// ContactService relays contact-form submissions.
type ContactService interface {
	Submit(ctx context.Context, msg domain.ContactMessage) error
}
