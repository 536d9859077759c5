package service

import (
	"context"
	"log"
	"time"

	"tenancy-service/internal/metrics"
	"tenancy-service/internal/models"

	"github.com/google/uuid"
)

const (
	SeverityNotice   = "NOTICE"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

const (
	alertPublishAttempts = 3
	alertFlushLimit      = 100
)

// Recorder is the audit contract the other services depend on. Recording
// never fails the calling operation; delivery problems are the audit
// service's own business.
type Recorder interface {
	Record(ctx context.Context, severity, action, actorID, tenantID string, details map[string]any)
}

type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditLogEntry) error
	MarkAlertDelivered(ctx context.Context, entryID string) error
	FindUndeliveredAlerts(ctx context.Context, limit int64) ([]*models.AuditLogEntry, error)
}

type AlertPublisher interface {
	PublishAuditAlert(ctx context.Context, entry *models.AuditLogEntry) error
}

// AuditService appends structured entries to the audit log. The alert
// predicate for external monitoring is: severity == CRITICAL AND reportable.
// Reportable entries are persisted before any publish attempt, and the sweep
// re-publishes anything still undelivered, which gives at-least-once
// delivery.
type AuditService struct {
	store     AuditStore
	publisher AlertPublisher
}

func NewAuditService(store AuditStore, publisher AlertPublisher) *AuditService {
	return &AuditService{
		store:     store,
		publisher: publisher,
	}
}

func (s *AuditService) Record(ctx context.Context, severity, action, actorID, tenantID string, details map[string]any) {
	entry := &models.AuditLogEntry{
		EntryID:    uuid.NewString(),
		Severity:   severity,
		Action:     action,
		ActorID:    actorID,
		TenantID:   tenantID,
		Details:    details,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Reportable: severity == SeverityCritical,
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		log.Printf("Failed to append %s audit entry for action %s: %v", severity, action, err)
	}

	metrics.AuditEntriesTotal.WithLabelValues(severity).Inc()

	if entry.Reportable {
		s.deliverAlert(ctx, entry)
	}
}

func (s *AuditService) deliverAlert(ctx context.Context, entry *models.AuditLogEntry) {
	if s.publisher == nil {
		return
	}

	backoff := 200 * time.Millisecond
	for attempt := 1; attempt <= alertPublishAttempts; attempt++ {
		err := s.publisher.PublishAuditAlert(ctx, entry)
		if err == nil {
			if err := s.store.MarkAlertDelivered(ctx, entry.EntryID); err != nil {
				log.Printf("Audit alert %s published but not marked delivered: %v", entry.EntryID, err)
			}
			return
		}

		log.Printf("Audit alert publish attempt %d failed for %s: %v", attempt, entry.EntryID, err)
		if attempt < alertPublishAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	log.Printf("Audit alert %s left undelivered, will retry during sweep", entry.EntryID)
}

// FlushUndelivered retries every reportable entry whose alert has not been
// acknowledged yet. Returns how many were delivered this round.
func (s *AuditService) FlushUndelivered(ctx context.Context) int {
	if s.publisher == nil {
		return 0
	}

	entries, err := s.store.FindUndeliveredAlerts(ctx, alertFlushLimit)
	if err != nil {
		log.Printf("Failed to load undelivered audit alerts: %v", err)
		return 0
	}

	delivered := 0
	for _, entry := range entries {
		if err := s.publisher.PublishAuditAlert(ctx, entry); err != nil {
			log.Printf("Redelivery of audit alert %s failed: %v", entry.EntryID, err)
			continue
		}
		if err := s.store.MarkAlertDelivered(ctx, entry.EntryID); err != nil {
			log.Printf("Audit alert %s republished but not marked delivered: %v", entry.EntryID, err)
			continue
		}
		delivered++
	}

	if delivered > 0 {
		log.Printf("Redelivered %d audit alerts", delivered)
	}
	return delivered
}
