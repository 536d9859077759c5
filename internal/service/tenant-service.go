package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"tenancy-service/internal/metrics"
	"tenancy-service/internal/models"
	"tenancy-service/internal/roles"
	"tenancy-service/internal/serviceerrors"
)

const (
	PurgeModeSoft = "soft"
	PurgeModeHard = "hard"
)

// tenantCollections is the fixed, deterministic purge order. Repeated runs
// walk the same order so per-collection counts stay comparable across
// resumes.
var tenantCollections = []string{
	"projects",
	"tasks",
	"journal_entries",
	"reports",
	"PermissionGroup",
	"InviteCode",
}

// userCollections hold user-identity-linked documents, purged only when the
// caller asks for it explicitly.
var userCollections = []string{
	"UserAccount",
	"user_settings",
}

type TenantStore interface {
	FindByID(ctx context.Context, id string) (*models.Tenant, error)
	MarkPendingDeletion(ctx context.Context, id string, scheduledAt int, requestedBy string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	FindDueForDeletion(ctx context.Context, now int) ([]*models.Tenant, error)
}

type PurgeStore interface {
	DeleteByTenant(ctx context.Context, collection, tenantID string, batchSize int) (int64, error)
}

// PurgeOutcome reports what a purge did. After a mid-purge failure the counts
// reflect the documents actually deleted so far, so an operator can resume
// safely.
type PurgeOutcome struct {
	Mode                  string           `json:"mode"`
	ScheduledDeletionDate int              `json:"scheduledDeletionDate,omitempty"`
	Counts                map[string]int64 `json:"counts,omitempty"`
	TotalDocumentsDeleted int64            `json:"totalDocumentsDeleted"`
}

// TenantService owns the tenant lifecycle state machine:
// active -> pending_deletion -> deleted, with pending_deletion restorable.
type TenantService struct {
	tenants       TenantStore
	purge         PurgeStore
	scope         *ScopeService
	audit         Recorder
	roles         *roles.Model
	batchSize     int
	retentionDays int
	purgeTimeout  time.Duration
	autoExecute   bool
}

func NewTenantService(tenants TenantStore, purge PurgeStore, scope *ScopeService, audit Recorder, roleModel *roles.Model, batchSize, retentionDays int, purgeTimeout time.Duration, autoExecute bool) *TenantService {
	return &TenantService{
		tenants:       tenants,
		purge:         purge,
		scope:         scope,
		audit:         audit,
		roles:         roleModel,
		batchSize:     batchSize,
		retentionDays: retentionDays,
		purgeTimeout:  purgeTimeout,
		autoExecute:   autoExecute,
	}
}

// PurgeTenant soft- or hard-deletes a tenant. The tenant lookup and the
// exact-name confirmation must both succeed before any mutation; on any
// authorization or validation failure, zero mutations occur.
func (s *TenantService) PurgeTenant(ctx context.Context, actor *models.ActorContext, tenantID, confirmName, mode string, includeUsers bool) (*PurgeOutcome, error) {
	if !s.roles.IsTop(actor.Level) {
		metrics.AuthorizationDenials.WithLabelValues("purge_tenant").Inc()
		// The unauthorized attempt is itself reportable.
		s.audit.Record(ctx, SeverityCritical, "tenant.purge.denied", actor.UserID, tenantID, map[string]any{
			"actorLevel": actor.Level,
			"mode":       mode,
		})
		return nil, serviceerrors.Authorization("only top-tier actors may purge tenants")
	}

	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if tenant == nil {
		return nil, serviceerrors.NotFound("tenant not found")
	}

	if confirmName != tenant.Name {
		s.audit.Record(ctx, SeverityWarning, "tenant.purge.confirm_mismatch", actor.UserID, tenantID, map[string]any{
			"attemptedName": confirmName,
			"actualName":    tenant.Name,
			"mode":          mode,
		})
		return nil, serviceerrors.Validation("confirmation name does not match tenant name")
	}

	// Top-only already holds here; the enforcer check is the defense-in-depth
	// choke point every tenant-scoped write goes through.
	if !s.scope.AuthorizeWrite(actor, tenant.ID) {
		return nil, serviceerrors.Authorization("write outside actor tenant context")
	}

	switch mode {
	case PurgeModeSoft:
		return s.softDelete(ctx, actor, tenant)
	case PurgeModeHard:
		return s.hardDelete(ctx, actor, tenant, includeUsers)
	}
	return nil, serviceerrors.Validation("mode must be soft or hard")
}

func (s *TenantService) softDelete(ctx context.Context, actor *models.ActorContext, tenant *models.Tenant) (*PurgeOutcome, error) {
	scheduledAt := int(time.Now().Add(time.Duration(s.retentionDays) * 24 * time.Hour).Unix())

	if err := s.tenants.MarkPendingDeletion(ctx, tenant.ID, scheduledAt, actor.UserID); err != nil {
		return nil, fmt.Errorf("failed to schedule tenant deletion: %w", err)
	}

	s.audit.Record(ctx, SeverityWarning, "tenant.soft_delete", actor.UserID, tenant.ID, map[string]any{
		"tenantName":            tenant.Name,
		"scheduledDeletionDate": scheduledAt,
		"retentionDays":         s.retentionDays,
	})

	return &PurgeOutcome{
		Mode:                  PurgeModeSoft,
		ScheduledDeletionDate: scheduledAt,
	}, nil
}

// hardDelete walks the fixed collection list, deleting in bounded batches
// under an explicit time budget. Deletes are idempotent, so a run cut short
// by the budget or a store error is resumable; partial counts are returned
// either way.
func (s *TenantService) hardDelete(ctx context.Context, actor *models.ActorContext, tenant *models.Tenant, includeUsers bool) (*PurgeOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.purgeTimeout)
	defer cancel()

	outcome := &PurgeOutcome{
		Mode:   PurgeModeHard,
		Counts: make(map[string]int64),
	}

	collections := tenantCollections
	if includeUsers {
		collections = append(append([]string{}, tenantCollections...), userCollections...)
	}

	for _, collection := range collections {
		count, err := s.purge.DeleteByTenant(ctx, collection, tenant.ID, s.batchSize)
		outcome.Counts[collection] += count
		outcome.TotalDocumentsDeleted += count
		if err != nil {
			return outcome, fmt.Errorf("purge of %s stopped after %d documents: %w", collection, outcome.TotalDocumentsDeleted, err)
		}
	}

	if err := s.tenants.Delete(ctx, tenant.ID); err != nil {
		return outcome, fmt.Errorf("failed to delete tenant record: %w", err)
	}

	details := map[string]any{
		"tenantName":            tenant.Name,
		"includeUsers":          includeUsers,
		"totalDocumentsDeleted": outcome.TotalDocumentsDeleted,
	}
	for collection, count := range outcome.Counts {
		details["deleted."+collection] = count
	}
	s.audit.Record(ctx, SeverityCritical, "tenant.hard_delete", actor.UserID, tenant.ID, details)

	metrics.PurgedDocumentsTotal.Add(float64(outcome.TotalDocumentsDeleted))
	log.Printf("Hard-deleted tenant %s: %d documents across %d collections", tenant.ID, outcome.TotalDocumentsDeleted, len(collections))

	return outcome, nil
}

// RestoreTenant moves a pending_deletion tenant back to active and clears the
// schedule. Only top-tier actors may restore.
func (s *TenantService) RestoreTenant(ctx context.Context, actor *models.ActorContext, tenantID string) error {
	if !s.roles.IsTop(actor.Level) {
		metrics.AuthorizationDenials.WithLabelValues("restore_tenant").Inc()
		return serviceerrors.Authorization("only top-tier actors may restore tenants")
	}

	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load tenant: %w", err)
	}
	if tenant == nil {
		return serviceerrors.NotFound("tenant not found")
	}
	if tenant.Status != models.TenantPendingDeletion {
		return serviceerrors.Validation("tenant is not pending deletion")
	}

	if err := s.tenants.Restore(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to restore tenant: %w", err)
	}

	s.audit.Record(ctx, SeverityWarning, "tenant.restore", actor.UserID, tenantID, map[string]any{
		"tenantName": tenant.Name,
	})
	return nil
}

// SweepPendingDeletions is the periodic scheduler contract. Every due tenant
// gets a CRITICAL "deletion due" entry; whether the sweep also executes the
// hard delete is the configured policy, never hidden behavior.
func (s *TenantService) SweepPendingDeletions(ctx context.Context) error {
	now := int(time.Now().Unix())

	due, err := s.tenants.FindDueForDeletion(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to scan for due deletions: %w", err)
	}

	for _, tenant := range due {
		s.audit.Record(ctx, SeverityCritical, "tenant.deletion_due", "system", tenant.ID, map[string]any{
			"tenantName":            tenant.Name,
			"scheduledDeletionDate": tenant.ScheduledDeletionDate,
			"deletionRequestedBy":   tenant.DeletionRequestedBy,
			"autoExecute":           s.autoExecute,
		})

		if !s.autoExecute {
			continue
		}

		sweeper := &models.ActorContext{
			UserID: "system",
			Role:   roles.Owner,
			Level:  s.roles.TopLevel(),
		}
		if _, err := s.PurgeTenant(ctx, sweeper, tenant.ID, tenant.Name, PurgeModeHard, true); err != nil {
			log.Printf("Sweep failed to purge tenant %s: %v", tenant.ID, err)
		}
	}

	if len(due) > 0 {
		log.Printf("Sweep found %d tenants due for deletion", len(due))
	}
	return nil
}
