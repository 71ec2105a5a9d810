package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/api/metrics"
	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

const defaultDedupWindow = 10 * time.Minute

// ContactOptions tunes how contact submissions are rendered and deduplicated.
type ContactOptions struct {
	// LegacySubject reproduces the subject expression of the first site
	// revision; see legacySubject.
	LegacySubject bool
	DedupWindow   time.Duration
}

type contactService struct {
	mailer ports.Mailer
	dedup  ports.SubmissionDedup // optional
	opts   ContactOptions
	log    zerolog.Logger
}

// NewContactService returns a ContactService. dedup may be nil.
func NewContactService(mailer ports.Mailer, dedup ports.SubmissionDedup, opts ContactOptions, log zerolog.Logger) ports.ContactService {
	if opts.DedupWindow <= 0 {
		opts.DedupWindow = defaultDedupWindow
	}
	return &contactService{
		mailer: mailer,
		dedup:  dedup,
		opts:   opts,
		log:    log.With().Str("component", "contact_service").Logger(),
	}
}

// Submit relays the message to the site inbox. Identical submissions within the
// dedup window are acknowledged without sending again.
func (s *contactService) Submit(ctx context.Context, in domain.ContactMessage) error {
	msg := domain.MailMessage{
		FromName: in.Name,
		ReplyTo:  in.Email,
		Subject:  s.subject(in),
		Body:     fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", in.Name, in.Email, in.Message),
	}

	if s.dedup != nil {
		seen, err := s.dedup.Seen(ctx, submissionKey(in), s.opts.DedupWindow)
		if err != nil {
			s.log.Warn().Err(err).Str("reply_to", in.Email).Msg("dedup check failed, sending anyway")
		} else if seen {
			metrics.ContactEmailsTotal.WithLabelValues("duplicate").Inc()
			s.log.Info().Str("reply_to", in.Email).Msg("duplicate contact submission skipped")
			return nil
		}
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.ContactEmailsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("send contact email: %w", err)
	}

	metrics.ContactEmailsTotal.WithLabelValues("sent").Inc()
	s.log.Info().Str("reply_to", in.Email).Msg("contact email sent")
	return nil
}

func (s *contactService) subject(in domain.ContactMessage) string {
	if s.opts.LegacySubject {
		return legacySubject(in.Subject, in.Name)
	}
	return domain.FirstNonEmpty(in.Subject, "New Inquiry from "+in.Name)
}

// legacySubject evaluates `Subject | 'New Inquiry from' + name` with JavaScript
// semantics: both operands are coerced to 32-bit integers and OR-ed. The right
// operand never parses as a number, so the result is the numeric value of the
// subject, or "0" for anything non-numeric.
func legacySubject(subject, name string) string {
	return strconv.FormatInt(int64(jsToInt32(subject)|jsToInt32("New Inquiry from"+name)), 10)
}

// jsToInt32 implements ToInt32(ToNumber(s)).
func jsToInt32(s string) int32 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}

	var f float64
	switch lower := strings.ToLower(t); {
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
		base := map[byte]int{'x': 16, 'o': 8, 'b': 2}[lower[1]]
		n, err := strconv.ParseUint(t[2:], base, 64)
		if err != nil {
			return 0
		}
		f = float64(n)
	default:
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		f = v
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return int32(uint32(m))
}

func submissionKey(in domain.ContactMessage) string {
	sum := sha256.Sum256([]byte(strings.ToLower(in.Email) + "\x00" + in.Subject + "\x00" + in.Message))
	return "contact:" + hex.EncodeToString(sum[:])
}
