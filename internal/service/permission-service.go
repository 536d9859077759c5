package service

import (
	"context"
	"log"
	"maps"

	"tenancy-service/internal/models"
	"tenancy-service/internal/roles"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserAccountStore interface {
	FindByID(ctx context.Context, id string) (*models.UserAccount, error)
}

type PermissionGroupStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.PermissionGroup, error)
}

type CapabilityCache interface {
	GetCapabilities(ctx context.Context, userID string) (*models.CapabilitySet, error)
	SaveCapabilities(ctx context.Context, userID string, caps *models.CapabilitySet) error
}

// PermissionService resolves a user's effective capability set: group flags,
// then the per-user override merged key by key within each category, with a
// static role-keyed fallback when no group resolves.
type PermissionService struct {
	users  UserAccountStore
	groups PermissionGroupStore
	cache  CapabilityCache
	roles  *roles.Model
}

func NewPermissionService(users UserAccountStore, groups PermissionGroupStore, cache CapabilityCache, roleModel *roles.Model) *PermissionService {
	return &PermissionService{
		users:  users,
		groups: groups,
		cache:  cache,
		roles:  roleModel,
	}
}

// ResolveFor never fails a caller: a missing profile yields an empty
// capability set so every check defaults to deny.
func (s *PermissionService) ResolveFor(ctx context.Context, userID string) *models.CapabilitySet {
	if s.cache != nil {
		if cached, err := s.cache.GetCapabilities(ctx, userID); err != nil {
			log.Printf("Capability cache read failed for user %s: %v", userID, err)
		} else if cached != nil {
			return cached
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		log.Printf("Failed to load profile for user %s: %v", userID, err)
		return emptyCapabilities()
	}
	if user == nil {
		return emptyCapabilities()
	}

	caps := s.baseCapabilities(ctx, user)
	applyOverride(caps, user.CustomPermissions)

	caps.AllowedResourceIDs = user.AssignedResourceIDs
	caps.TopTier = s.roles.IsTop(s.roles.LevelOf(user.Role))

	if s.cache != nil {
		if err := s.cache.SaveCapabilities(ctx, userID, caps); err != nil {
			log.Printf("Capability cache write failed for user %s: %v", userID, err)
		}
	}

	return caps
}

func (s *PermissionService) baseCapabilities(ctx context.Context, user *models.UserAccount) *models.CapabilitySet {
	if !user.PermissionGroupID.IsZero() {
		group, err := s.groups.FindByID(ctx, user.PermissionGroupID)
		if err != nil {
			log.Printf("Failed to load permission group %s: %v", user.PermissionGroupID.Hex(), err)
		}
		if group != nil {
			return &models.CapabilitySet{
				Project: cloneFlags(group.ProjectAccess),
				Task:    cloneFlags(group.TaskAccess),
				View:    cloneFlags(group.ViewAccess),
				Export:  cloneFlags(group.ExportAccess),
				Special: cloneFlags(group.SpecialPermissions),
			}
		}
	}

	return legacyCapabilities(user.Role)
}

// applyOverride merges the per-user patch into the base set one key at a
// time. A patch on a single flag must leave every sibling flag in the same
// category untouched; the category is never replaced wholesale.
func applyOverride(caps *models.CapabilitySet, override *models.PermissionOverride) {
	if override == nil {
		return
	}
	caps.Project = mergeFlags(caps.Project, override.ProjectAccess)
	caps.Task = mergeFlags(caps.Task, override.TaskAccess)
	caps.View = mergeFlags(caps.View, override.ViewAccess)
	caps.Export = mergeFlags(caps.Export, override.ExportAccess)
	caps.Special = mergeFlags(caps.Special, override.SpecialPermissions)
}

func mergeFlags(base, patch models.PermissionFlags) models.PermissionFlags {
	merged := make(models.PermissionFlags, len(base)+len(patch))
	maps.Copy(merged, base)
	maps.Copy(merged, patch)
	return merged
}

func cloneFlags(flags models.PermissionFlags) models.PermissionFlags {
	cloned := make(models.PermissionFlags, len(flags))
	maps.Copy(cloned, flags)
	return cloned
}

func emptyCapabilities() *models.CapabilitySet {
	return &models.CapabilitySet{
		Project: models.PermissionFlags{},
		Task:    models.PermissionFlags{},
		View:    models.PermissionFlags{},
		Export:  models.PermissionFlags{},
		Special: models.PermissionFlags{},
	}
}

// legacyCapabilities is the static fallback table keyed by role name, used
// for accounts that predate permission groups.
func legacyCapabilities(role string) *models.CapabilitySet {
	switch role {
	case roles.Owner, roles.Admin:
		return &models.CapabilitySet{
			Project: models.PermissionFlags{"read": true, "create": true, "update": true, "delete": true, "assign": true},
			Task:    models.PermissionFlags{"read": true, "create": true, "update": true, "delete": true, "assign": true},
			View:    models.PermissionFlags{"dashboard": true, "reports": true, "admin_panel": true},
			Export:  models.PermissionFlags{"csv": true, "pdf": true},
			Special: models.PermissionFlags{"manage_users": true, "manage_invites": true},
		}
	case roles.Manager:
		return &models.CapabilitySet{
			Project: models.PermissionFlags{"read": true, "create": true, "update": true, "assign": true},
			Task:    models.PermissionFlags{"read": true, "create": true, "update": true, "delete": true, "assign": true},
			View:    models.PermissionFlags{"dashboard": true, "reports": true},
			Export:  models.PermissionFlags{"csv": true, "pdf": true},
			Special: models.PermissionFlags{},
		}
	case roles.Member:
		return &models.CapabilitySet{
			Project: models.PermissionFlags{"read": true},
			Task:    models.PermissionFlags{"read": true, "create": true, "update": true},
			View:    models.PermissionFlags{"dashboard": true},
			Export:  models.PermissionFlags{},
			Special: models.PermissionFlags{},
		}
	case roles.Viewer:
		return &models.CapabilitySet{
			Project: models.PermissionFlags{"read": true},
			Task:    models.PermissionFlags{"read": true},
			View:    models.PermissionFlags{"dashboard": true},
			Export:  models.PermissionFlags{},
			Special: models.PermissionFlags{},
		}
	}
	return emptyCapabilities()
}
