package service

import (
	"maps"

	"tenancy-service/internal/models"
	"tenancy-service/internal/roles"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ScopeService is the single choke point for tenant isolation on store
// access. It is advisory defense-in-depth: collaborators must route their
// tenant-scoped filters and write checks through here.
type ScopeService struct {
	roles *roles.Model
}

func NewScopeService(roleModel *roles.Model) *ScopeService {
	return &ScopeService{
		roles: roleModel,
	}
}

// ScopedFilter copies the caller's filters and pins them to the actor's
// tenant. Non-top actors can never widen or override the injected tenantId.
// Top-tier actors pass through unmodified unless the request carries an
// explicit acting-as tenant.
func (s *ScopeService) ScopedFilter(actor *models.ActorContext, base bson.M) bson.M {
	filter := bson.M{}
	maps.Copy(filter, base)

	if s.roles.IsTop(actor.Level) {
		if actor.ActingAsTenant != "" {
			filter["tenantId"] = actor.ActingAsTenant
		}
		return filter
	}

	filter["tenantId"] = actor.TenantID
	return filter
}

// AuthorizeWrite rejects payloads whose tenant differs from the actor's
// active tenant context. Top-tier actors may write across tenants.
func (s *ScopeService) AuthorizeWrite(actor *models.ActorContext, payloadTenantID string) bool {
	if s.roles.IsTop(actor.Level) {
		return true
	}
	return payloadTenantID == actor.TenantID
}
