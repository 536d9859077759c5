package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// PermissionFlags is one category of capability flags, keyed by action name.
type PermissionFlags map[string]bool

// PermissionGroup is a named, reusable bundle of capability flags that many
// user accounts can reference by id.
type PermissionGroup struct {
	ID                 bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name               string          `bson:"name" json:"name" validate:"required"`
	TenantID           string          `bson:"tenantId" json:"tenantId"`
	ProjectAccess      PermissionFlags `bson:"projectAccess" json:"projectAccess"`
	TaskAccess         PermissionFlags `bson:"taskAccess" json:"taskAccess"`
	ViewAccess         PermissionFlags `bson:"viewAccess" json:"viewAccess"`
	ExportAccess       PermissionFlags `bson:"exportAccess" json:"exportAccess"`
	SpecialPermissions PermissionFlags `bson:"specialPermissions" json:"specialPermissions"`
	CreatedAt          int             `bson:"createdAt" json:"createdAt"`
	UpdatedAt          int             `bson:"updatedAt" json:"updatedAt"`
}

// PermissionOverride is a per-user patch on top of a permission group. Only
// the keys present in a category are applied; absent keys keep the group
// value.
type PermissionOverride struct {
	ProjectAccess      PermissionFlags `bson:"projectAccess,omitempty" json:"projectAccess,omitempty"`
	TaskAccess         PermissionFlags `bson:"taskAccess,omitempty" json:"taskAccess,omitempty"`
	ViewAccess         PermissionFlags `bson:"viewAccess,omitempty" json:"viewAccess,omitempty"`
	ExportAccess       PermissionFlags `bson:"exportAccess,omitempty" json:"exportAccess,omitempty"`
	SpecialPermissions PermissionFlags `bson:"specialPermissions,omitempty" json:"specialPermissions,omitempty"`
}

type UserAccount struct {
	ID                  string              `bson:"_id" json:"id"`
	Role                string              `bson:"role" json:"role"`
	TenantID            string              `bson:"tenantId" json:"tenantId"`
	PermissionGroupID   bson.ObjectID       `bson:"permissionGroupId,omitempty" json:"permissionGroupId,omitempty"`
	CustomPermissions   *PermissionOverride `bson:"customPermissions,omitempty" json:"customPermissions,omitempty"`
	AssignedResourceIDs []string            `bson:"assignedResourceIds,omitempty" json:"assignedResourceIds,omitempty"`
	CreatedAt           int                 `bson:"createdAt" json:"createdAt"`
	UpdatedAt           int                 `bson:"updatedAt" json:"updatedAt"`
}

// InviteCode is a single-use onboarding token. Lifecycle: unused -> consumed,
// consumed is terminal. Consumption happens through a conditional update on
// isUsed, never a read followed by a write.
type InviteCode struct {
	ID                  bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Code                string        `bson:"code" json:"code"`
	CreatedBy           string        `bson:"createdBy" json:"createdBy"`
	CreatedAt           int           `bson:"createdAt" json:"createdAt"`
	IsUsed              bool          `bson:"isUsed" json:"isUsed"`
	UsedAt              int           `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	UsedBy              string        `bson:"usedBy,omitempty" json:"usedBy,omitempty"`
	TenantID            string        `bson:"tenantId" json:"tenantId"`
	Role                string        `bson:"role" json:"role"`
	AssignedResourceIDs []string      `bson:"assignedResourceIds" json:"assignedResourceIds"`
}

// Tenant statuses. The terminal state has no stored representation: a hard
// delete removes the record itself.
const (
	TenantActive          = "active"
	TenantPendingDeletion = "pending_deletion"
)

type Tenant struct {
	ID                    string `bson:"_id" json:"id"`
	Name                  string `bson:"name" json:"name" validate:"required"`
	Status                string `bson:"status" json:"status"`
	ScheduledDeletionDate int    `bson:"scheduledDeletionDate,omitempty" json:"scheduledDeletionDate,omitempty"`
	DeletionRequestedBy   string `bson:"deletionRequestedBy,omitempty" json:"deletionRequestedBy,omitempty"`
	CreatedAt             int    `bson:"createdAt" json:"createdAt"`
	UpdatedAt             int    `bson:"updatedAt" json:"updatedAt"`
}

// AuditLogEntry is an immutable security record. Entries are only ever
// appended; AlertDelivered is the single piece of delivery bookkeeping and
// never changes the recorded event itself.
type AuditLogEntry struct {
	ID             bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	EntryID        string         `bson:"entryId" json:"entryId"`
	Severity       string         `bson:"severity" json:"severity"`
	Action         string         `bson:"action" json:"action"`
	ActorID        string         `bson:"actorId" json:"actorId"`
	TenantID       string         `bson:"tenantId" json:"tenantId"`
	Details        map[string]any `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp      string         `bson:"timestamp" json:"timestamp"`
	Reportable     bool           `bson:"reportable" json:"reportable"`
	AlertDelivered bool           `bson:"alertDelivered" json:"alertDelivered"`
}

// ActorContext carries the identity claims for one request. It is built per
// request and threaded as a parameter; nothing here outlives the request.
// ActingAsTenant is honored only for top-tier actors.
type ActorContext struct {
	UserID         string `json:"userId"`
	Role           string `json:"role"`
	Level          int    `json:"level"`
	TenantID       string `json:"tenantId"`
	ActingAsTenant string `json:"actingAsTenant,omitempty"`
}

// CapabilitySet is a user's effective permissions after group flags, custom
// overrides and the legacy role fallback have been resolved.
type CapabilitySet struct {
	Project            PermissionFlags `json:"projectAccess"`
	Task               PermissionFlags `json:"taskAccess"`
	View               PermissionFlags `json:"viewAccess"`
	Export             PermissionFlags `json:"exportAccess"`
	Special            PermissionFlags `json:"specialPermissions"`
	AllowedResourceIDs []string        `json:"allowedResourceIds"`
	TopTier            bool            `json:"topTier"`
}

// Can reports whether the action is allowed on the given resource category.
// A nil set denies everything, so a missing profile defaults to deny.
func (c *CapabilitySet) Can(resource, action string) bool {
	if c == nil {
		return false
	}
	switch resource {
	case "project":
		return c.Project[action]
	case "task":
		return c.Task[action]
	case "export":
		return c.Export[action]
	case "special":
		return c.Special[action]
	}
	return false
}

func (c *CapabilitySet) CanView(viewName string) bool {
	if c == nil {
		return false
	}
	return c.View[viewName]
}

// GetAllowedResourceIDs returns the resource whitelist. An empty list is the
// sentinel for "all resources visible".
func (c *CapabilitySet) GetAllowedResourceIDs() []string {
	if c == nil {
		return nil
	}
	return c.AllowedResourceIDs
}

func (c *CapabilitySet) IsTopTier() bool {
	return c != nil && c.TopTier
}
