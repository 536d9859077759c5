package service

import (
	"context"
	"testing"

	"tenancy-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func basePermissionGroup(id bson.ObjectID) *models.PermissionGroup {
	return &models.PermissionGroup{
		ID:       id,
		Name:     "field-team",
		TenantID: "t1",
		ProjectAccess: models.PermissionFlags{
			"read":   true,
			"create": true,
			"update": false,
		},
		TaskAccess: models.PermissionFlags{
			"read":   true,
			"create": true,
		},
		ViewAccess: models.PermissionFlags{
			"dashboard": true,
			"reports":   false,
		},
		ExportAccess: models.PermissionFlags{
			"csv": true,
		},
		SpecialPermissions: models.PermissionFlags{},
	}
}

func TestResolveForMergesOverridePerKey(t *testing.T) {
	groupID := bson.NewObjectID()
	groups := &fakeGroupStore{groups: map[bson.ObjectID]*models.PermissionGroup{groupID: basePermissionGroup(groupID)}}
	users := &fakeUserStore{users: map[string]*models.UserAccount{
		"u1": {
			ID:                "u1",
			Role:              "member",
			TenantID:          "t1",
			PermissionGroupID: groupID,
			CustomPermissions: &models.PermissionOverride{
				ProjectAccess: models.PermissionFlags{"update": true},
			},
		},
	}}

	svc := NewPermissionService(users, groups, nil, testRoleModel())
	caps := svc.ResolveFor(context.Background(), "u1")

	// The single overridden flag flips.
	if !caps.Can("project", "update") {
		t.Error("Expected overridden project:update to be allowed")
	}
	// Sibling flags in the same category are untouched.
	if !caps.Can("project", "read") || !caps.Can("project", "create") {
		t.Error("Expected sibling project flags to keep their group values")
	}
	// Other categories are exactly as the group defines.
	if !caps.Can("task", "read") || !caps.Can("task", "create") {
		t.Error("Expected task flags to keep their group values")
	}
	if !caps.CanView("dashboard") {
		t.Error("Expected view flags to keep their group values")
	}
	if caps.CanView("reports") {
		t.Error("Expected disabled view flag to stay disabled")
	}
	if !caps.Can("export", "csv") {
		t.Error("Expected export flags to keep their group values")
	}
}

func TestResolveForOverrideDoesNotReplaceCategory(t *testing.T) {
	groupID := bson.NewObjectID()
	groups := &fakeGroupStore{groups: map[bson.ObjectID]*models.PermissionGroup{groupID: basePermissionGroup(groupID)}}
	users := &fakeUserStore{users: map[string]*models.UserAccount{
		"u1": {
			ID:                "u1",
			Role:              "member",
			PermissionGroupID: groupID,
			CustomPermissions: &models.PermissionOverride{
				TaskAccess: models.PermissionFlags{"delete": false},
			},
		},
	}}

	svc := NewPermissionService(users, groups, nil, testRoleModel())
	caps := svc.ResolveFor(context.Background(), "u1")

	// Adding one key must not wipe the rest of the category.
	if !caps.Can("task", "read") {
		t.Error("Expected task:read to survive a partial task override")
	}
	if caps.Can("task", "delete") {
		t.Error("Expected task:delete to stay denied")
	}
}

func TestResolveForLegacyFallback(t *testing.T) {
	users := &fakeUserStore{users: map[string]*models.UserAccount{
		"u1": {ID: "u1", Role: "manager", TenantID: "t1"},
	}}
	groups := &fakeGroupStore{groups: map[bson.ObjectID]*models.PermissionGroup{}}

	svc := NewPermissionService(users, groups, nil, testRoleModel())
	caps := svc.ResolveFor(context.Background(), "u1")

	if !caps.Can("task", "delete") {
		t.Error("Expected manager legacy table to allow task:delete")
	}
	if caps.Can("project", "delete") {
		t.Error("Expected manager legacy table to deny project:delete")
	}
	if caps.CanView("admin_panel") {
		t.Error("Expected manager legacy table to deny admin_panel view")
	}
}

func TestResolveForDanglingGroupFallsBack(t *testing.T) {
	users := &fakeUserStore{users: map[string]*models.UserAccount{
		"u1": {ID: "u1", Role: "viewer", PermissionGroupID: bson.NewObjectID()},
	}}
	groups := &fakeGroupStore{groups: map[bson.ObjectID]*models.PermissionGroup{}}

	svc := NewPermissionService(users, groups, nil, testRoleModel())
	caps := svc.ResolveFor(context.Background(), "u1")

	if !caps.Can("task", "read") {
		t.Error("Expected viewer legacy fallback when the group reference dangles")
	}
	if caps.Can("task", "create") {
		t.Error("Expected viewer fallback to deny task:create")
	}
}

func TestResolveForMissingProfileDeniesAll(t *testing.T) {
	users := &fakeUserStore{users: map[string]*models.UserAccount{}}
	groups := &fakeGroupStore{groups: map[bson.ObjectID]*models.PermissionGroup{}}

	svc := NewPermissionService(users, groups, nil, testRoleModel())
	caps := svc.ResolveFor(context.Background(), "ghost")

	if caps == nil {
		t.Fatal("Expected an explicit no-capabilities result, not nil")
	}
	if caps.Can("project", "read") || caps.CanView("dashboard") || caps.IsTopTier() {
		t.Error("Expected a missing profile to deny everything")
	}
}

func TestResolveForTopTierAndResourceScope(t *testing.T) {
	users := &fakeUserStore{users: map[string]*models.UserAccount{
		"root":   {ID: "root", Role: "owner"},
		"scoped": {ID: "scoped", Role: "member", AssignedResourceIDs: []string{"p1", "p2"}},
	}}
	groups := &fakeGroupStore{groups: map[bson.ObjectID]*models.PermissionGroup{}}

	svc := NewPermissionService(users, groups, nil, testRoleModel())

	if !svc.ResolveFor(context.Background(), "root").IsTopTier() {
		t.Error("Expected owner to resolve as top tier")
	}

	scoped := svc.ResolveFor(context.Background(), "scoped")
	if len(scoped.GetAllowedResourceIDs()) != 2 {
		t.Errorf("Expected 2 whitelisted resources, got %d", len(scoped.GetAllowedResourceIDs()))
	}

	// Empty list is the sentinel for "all resources".
	if len(svc.ResolveFor(context.Background(), "root").GetAllowedResourceIDs()) != 0 {
		t.Error("Expected unscoped account to carry the view-all sentinel")
	}
}
