// Package metrics defines and registers the custom Prometheus metrics of the
// site API. It is the single source of truth for metric names, labels and help
// strings. All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site"

// ── Comment metrics ───────────────────────────────────────────────────────────

// CommentsCreatedTotal counts comments accepted from public submission.
var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments submitted.",
	},
)

// CommentsApprovedTotal counts approve calls that succeeded (idempotent repeats included).
var CommentsApprovedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_approved_total",
		Help:      "Total number of successful comment approvals.",
	},
)

// CommentsDeletedTotal counts comment deletions.
var CommentsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_deleted_total",
		Help:      "Total number of comments deleted.",
	},
)

// ── Attachment metrics ────────────────────────────────────────────────────────

// AttachmentsStoredTotal counts uploaded images persisted.
// Label:
//   - backend: "local" or "s3"
var AttachmentsStoredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attachments_stored_total",
		Help:      "Total number of attachments stored, by backend.",
	},
	[]string{"backend"},
)

// AttachmentCleanupFailuresTotal counts best-effort attachment deletions that failed.
var AttachmentCleanupFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attachment_cleanup_failures_total",
		Help:      "Total number of attachment deletions that failed and were skipped.",
	},
	[]string{"backend"},
)

// ── Contact & auth metrics ────────────────────────────────────────────────────

// ContactEmailsTotal counts contact-form submissions.
// Label:
//   - result: "sent", "failed" or "duplicate"
var ContactEmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_emails_total",
		Help:      "Total number of contact-form submissions, by outcome.",
	},
	[]string{"result"},
)

// AuthChecksTotal counts bearer token checks.
// Label:
//   - result: "ok", "unauthorized" or "forbidden"
var AuthChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_checks_total",
		Help:      "Total number of bearer token checks, by outcome.",
	},
	[]string{"result"},
)
