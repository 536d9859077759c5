package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"tenancy-service/internal/metrics"
	"tenancy-service/internal/models"
	"tenancy-service/internal/roles"
	"tenancy-service/internal/serviceerrors"
)

// inviteCodeAlphabet drops visually confusable glyphs (I, O, 0, 1). Its
// length of 32 divides 256, so a byte modulo stays uniform.
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	inviteCodeLength = 8
	maxCodeAttempts  = 5
)

type InviteStore interface {
	Insert(ctx context.Context, invite *models.InviteCode) (*models.InviteCode, error)
	FindByCode(ctx context.Context, code string) (*models.InviteCode, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	CountByCreator(ctx context.Context, creatorID string) (int64, error)
	FindByCreator(ctx context.Context, creatorID string, page, limit int) ([]*models.InviteCode, error)
	Consume(ctx context.Context, code, consumerID string) (*models.InviteCode, error)
}

// InviteCheck is the read-only validity peek used for pre-flight UI checks.
type InviteCheck struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
	Role     string `json:"role,omitempty"`
}

type InviteService struct {
	invites InviteStore
	users   UserAccountStore
	audit   Recorder
	roles   *roles.Model
	quota   int64
}

func NewInviteService(invites InviteStore, users UserAccountStore, audit Recorder, roleModel *roles.Model, quota int64) *InviteService {
	return &InviteService{
		invites: invites,
		users:   users,
		audit:   audit,
		roles:   roleModel,
		quota:   quota,
	}
}

// CreateInvite issues a one-time onboarding code. Issuers below the admin
// threshold are rejected; admins below the top tier are confined to their own
// tenant, can only grant strictly lower roles and are bounded by a lifetime
// quota. Denials at the administrative tier are audit-logged because the
// attempt itself is the signal of interest.
func (s *InviteService) CreateInvite(ctx context.Context, issuer *models.ActorContext, targetTenant, targetRole string, assignedResourceIDs []string) (string, error) {
	issuerLevel, err := s.issuerLevel(ctx, issuer)
	if err != nil {
		return "", err
	}

	if !s.roles.IsAdmin(issuerLevel) {
		metrics.AuthorizationDenials.WithLabelValues("create_invite").Inc()
		s.audit.Record(ctx, SeverityWarning, "invite.create.denied", issuer.UserID, targetTenant, map[string]any{
			"issuerLevel": issuerLevel,
			"targetRole":  targetRole,
		})
		return "", serviceerrors.Authorization("insufficient role level to issue invites")
	}

	if !s.roles.IsTop(issuerLevel) {
		// The invite binds its consumer into targetTenant, so it is a write
		// into that tenant and stays inside the issuer's tenant context.
		if targetTenant != issuer.TenantID {
			metrics.AuthorizationDenials.WithLabelValues("create_invite").Inc()
			s.audit.Record(ctx, SeverityWarning, "invite.cross_tenant.denied", issuer.UserID, targetTenant, map[string]any{
				"issuerTenant": issuer.TenantID,
				"issuerLevel":  issuerLevel,
				"targetRole":   targetRole,
			})
			return "", serviceerrors.Authorization("invite tenant is outside the issuer's tenant context")
		}

		if s.roles.LevelOf(targetRole) >= issuerLevel {
			metrics.AuthorizationDenials.WithLabelValues("create_invite").Inc()
			s.audit.Record(ctx, SeverityWarning, "invite.escalation.denied", issuer.UserID, targetTenant, map[string]any{
				"issuerLevel": issuerLevel,
				"targetRole":  targetRole,
				"targetLevel": s.roles.LevelOf(targetRole),
			})
			return "", serviceerrors.Escalation("target role is at or above the issuer's level")
		}

		// Count-then-create is best effort: a concurrent burst can slip
		// one extra invite through, which is accepted.
		count, err := s.invites.CountByCreator(ctx, issuer.UserID)
		if err != nil {
			return "", fmt.Errorf("failed to count issued invites: %w", err)
		}
		if count >= s.quota {
			return "", serviceerrors.RateLimited("invite quota exhausted")
		}
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return "", err
	}

	_, err = s.invites.Insert(ctx, &models.InviteCode{
		Code:                code,
		CreatedBy:           issuer.UserID,
		IsUsed:              false,
		TenantID:            targetTenant,
		Role:                targetRole,
		AssignedResourceIDs: assignedResourceIDs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist invite: %w", err)
	}

	return code, nil
}

// ConsumeInvite redeems a code exactly once system-wide. The claim is a
// single conditional update at the store; when several consumers race on the
// same code, exactly one wins and the rest see ALREADY_CONSUMED.
func (s *InviteService) ConsumeInvite(ctx context.Context, code, consumerID string) error {
	invite, err := s.invites.Consume(ctx, code, consumerID)
	if err != nil {
		return fmt.Errorf("failed to redeem invite: %w", err)
	}
	if invite != nil {
		metrics.InvitesConsumedTotal.Inc()
		return nil
	}

	existing, err := s.invites.FindByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to look up invite: %w", err)
	}
	if existing == nil {
		return serviceerrors.NotFound("invite code not found")
	}
	return serviceerrors.AlreadyConsumed("invite code was already redeemed")
}

// CheckInvite is a read-only peek; it never mutates the code.
func (s *InviteService) CheckInvite(ctx context.Context, code string) (*InviteCheck, error) {
	invite, err := s.invites.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}
	if invite == nil {
		return &InviteCheck{Valid: false, Reason: "not_found"}, nil
	}
	if invite.IsUsed {
		return &InviteCheck{Valid: false, Reason: "already_used"}, nil
	}
	return &InviteCheck{Valid: true, TenantID: invite.TenantID, Role: invite.Role}, nil
}

// ListInvites returns the invites the actor has issued. Only administrators
// issue invites, so listing is admin-gated as well.
func (s *InviteService) ListInvites(ctx context.Context, actor *models.ActorContext, page, limit int) ([]*models.InviteCode, error) {
	level, err := s.issuerLevel(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !s.roles.IsAdmin(level) {
		return nil, serviceerrors.Authorization("insufficient role level to list invites")
	}
	return s.invites.FindByCreator(ctx, actor.UserID, page, limit)
}

// issuerLevel prefers the trusted claim level and falls back to the stored
// profile when the identity provider sent no role claim.
func (s *InviteService) issuerLevel(ctx context.Context, issuer *models.ActorContext) (int, error) {
	if issuer.Level > 0 {
		return issuer.Level, nil
	}

	user, err := s.users.FindByID(ctx, issuer.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to load issuer profile: %w", err)
	}
	if user == nil {
		return 0, nil
	}
	return s.roles.LevelOf(user.Role), nil
}

// uniqueCode regenerates on collision up to a fixed attempt count. Only the
// code is retried; authorization is never re-run.
func (s *InviteService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return "", err
		}

		exists, err := s.invites.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check invite code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", serviceerrors.Conflict("could not generate a unique invite code")
}

func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}

	code := make([]byte, inviteCodeLength)
	for i, b := range buf {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}
