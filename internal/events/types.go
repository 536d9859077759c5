package events

import (
	"encoding/json"
	"time"

	"tenancy-service/internal/models"

	"github.com/google/uuid"
)

type EventType string

const (
	// AuditAlert is emitted for reportable CRITICAL audit entries so
	// external monitoring can page a human.
	AuditAlert EventType = "audit.alert.critical"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
}

type AuditAlertEvent struct {
	BaseEvent
	EntryID  string         `json:"entry_id"`
	Severity string         `json:"severity"`
	Action   string         `json:"action"`
	ActorID  string         `json:"actor_id"`
	TenantID string         `json:"tenant_id"`
	Details  map[string]any `json:"details,omitempty"`
	LoggedAt string         `json:"logged_at"`
}

func NewAuditAlertEvent(entry *models.AuditLogEntry) *AuditAlertEvent {
	return &AuditAlertEvent{
		BaseEvent: BaseEvent{
			ID:        generateEventID(),
			Type:      AuditAlert,
			Timestamp: time.Now().Unix(),
			Version:   "1.0",
		},
		EntryID:  entry.EntryID,
		Severity: entry.Severity,
		Action:   entry.Action,
		ActorID:  entry.ActorID,
		TenantID: entry.TenantID,
		Details:  entry.Details,
		LoggedAt: entry.Timestamp,
	}
}

// ToJSON serializes the event to JSON
func (e *AuditAlertEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// generateEventID generates a unique ID for an event
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:6]
}
