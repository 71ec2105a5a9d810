package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/core/domain"
)

type stubMailer struct {
	sent []domain.MailMessage
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg domain.MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubDedup struct {
	seen map[string]bool
	err  error
}

func (d *stubDedup) Seen(_ context.Context, key string, _ time.Duration) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	was := d.seen[key]
	d.seen[key] = true
	return was, nil
}

var contactMsg = domain.ContactMessage{Name: "Ana", Email: "ana@example.com", Subject: "Quote", Message: "Need 20 units"}

func TestContactService_Submit(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(mailer, nil, ContactOptions{}, zerolog.Nop())

	if err := svc.Submit(context.Background(), contactMsg); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	got := mailer.sent[0]
	if got.Subject != "Quote" || got.ReplyTo != "ana@example.com" || got.FromName != "Ana" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.Body != "Name: Ana\nEmail: ana@example.com\n\nMessage:\nNeed 20 units" {
		t.Fatalf("unexpected body: %q", got.Body)
	}
}

func TestContactService_SubjectFallback(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(mailer, nil, ContactOptions{}, zerolog.Nop())

	msg := contactMsg
	msg.Subject = ""
	_ = svc.Submit(context.Background(), msg)

	if mailer.sent[0].Subject != "New Inquiry from Ana" {
		t.Fatalf("unexpected subject: %q", mailer.sent[0].Subject)
	}
}

func TestContactService_LegacySubject(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(mailer, nil, ContactOptions{LegacySubject: true}, zerolog.Nop())

	_ = svc.Submit(context.Background(), contactMsg)
	if mailer.sent[0].Subject != "0" {
		t.Fatalf("expected legacy subject 0, got %q", mailer.sent[0].Subject)
	}
}

func TestLegacySubject(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"Hello", "0"},
		{"", "0"},
		{"42", "42"},
		{" 7 ", "7"},
		{"3.9", "3"},
		{"-3.9", "-3"},
		{"0x1F", "31"},
		{"4294967297", "1"},
		{"2147483648", "-2147483648"},
		{"1e3", "1000"},
		{"Infinity", "0"},
		{"NaN", "0"},
	}
	for _, tt := range tests {
		if got := legacySubject(tt.subject, "Ana"); got != tt.want {
			t.Errorf("legacySubject(%q) = %q, want %q", tt.subject, got, tt.want)
		}
	}
}

func TestContactService_SendFailure(t *testing.T) {
	svc := NewContactService(&stubMailer{err: errBoom}, nil, ContactOptions{}, zerolog.Nop())

	if err := svc.Submit(context.Background(), contactMsg); !errors.Is(err, errBoom) {
		t.Fatalf("expected send error, got %v", err)
	}
}

func TestContactService_Dedup(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(mailer, &stubDedup{}, ContactOptions{}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if err := svc.Submit(context.Background(), contactMsg); err != nil {
			t.Fatalf("Submit #%d returned error: %v", i+1, err)
		}
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("duplicate must not be mailed twice, sent %d", len(mailer.sent))
	}

	other := contactMsg
	other.Message = "Different"
	_ = svc.Submit(context.Background(), other)
	if len(mailer.sent) != 2 {
		t.Fatalf("distinct message should be mailed, sent %d", len(mailer.sent))
	}
}

func TestContactService_DedupErrorStillSends(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(mailer, &stubDedup{err: errBoom}, ContactOptions{}, zerolog.Nop())

	if err := svc.Submit(context.Background(), contactMsg); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected mail despite dedup failure")
	}
}

func TestSubmissionKey_CaseInsensitiveEmail(t *testing.T) {
	upper := contactMsg
	upper.Email = strings.ToUpper(contactMsg.Email)
	if submissionKey(upper) != submissionKey(contactMsg) {
		t.Fatalf("email case must not change the dedup key")
	}
}
