package service

import (
	"testing"

	"tenancy-service/internal/models"
	"tenancy-service/internal/roles"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func testRoleModel() *roles.Model {
	return roles.NewModel(80, 100)
}

func TestScopedFilterInjectsTenant(t *testing.T) {
	scope := NewScopeService(testRoleModel())
	actor := &models.ActorContext{UserID: "u1", Role: roles.Manager, Level: 60, TenantID: "t1"}

	filter := scope.ScopedFilter(actor, bson.M{"status": "open"})

	if filter["tenantId"] != "t1" {
		t.Errorf("Expected tenantId t1, got %v", filter["tenantId"])
	}
	if filter["status"] != "open" {
		t.Errorf("Expected caller filter to survive, got %v", filter["status"])
	}
}

func TestScopedFilterCannotBeOverridden(t *testing.T) {
	scope := NewScopeService(testRoleModel())
	actor := &models.ActorContext{UserID: "u1", Role: roles.Admin, Level: 80, TenantID: "t1"}

	// A caller-supplied tenantId must be replaced, not honored.
	filter := scope.ScopedFilter(actor, bson.M{"tenantId": "t2"})

	if filter["tenantId"] != "t1" {
		t.Errorf("Expected injected tenantId t1 to win, got %v", filter["tenantId"])
	}
}

func TestScopedFilterTopTierPassthrough(t *testing.T) {
	scope := NewScopeService(testRoleModel())
	actor := &models.ActorContext{UserID: "root", Role: roles.Owner, Level: 100, TenantID: "t1"}

	filter := scope.ScopedFilter(actor, bson.M{"status": "open"})

	if _, ok := filter["tenantId"]; ok {
		t.Errorf("Expected no tenant filter for top tier, got %v", filter["tenantId"])
	}
}

func TestScopedFilterActingAsTenant(t *testing.T) {
	scope := NewScopeService(testRoleModel())
	actor := &models.ActorContext{UserID: "root", Role: roles.Owner, Level: 100, TenantID: "t1", ActingAsTenant: "t9"}

	filter := scope.ScopedFilter(actor, bson.M{})

	if filter["tenantId"] != "t9" {
		t.Errorf("Expected acting-as tenant t9, got %v", filter["tenantId"])
	}
}

func TestScopedFilterDoesNotMutateBase(t *testing.T) {
	scope := NewScopeService(testRoleModel())
	actor := &models.ActorContext{UserID: "u1", Role: roles.Member, Level: 40, TenantID: "t1"}
	base := bson.M{"status": "open"}

	scope.ScopedFilter(actor, base)

	if _, ok := base["tenantId"]; ok {
		t.Error("Expected the caller's filter map to stay untouched")
	}
}

func TestAuthorizeWrite(t *testing.T) {
	scope := NewScopeService(testRoleModel())

	testCases := []struct {
		name     string
		actor    *models.ActorContext
		tenantID string
		expected bool
	}{
		{"same tenant", &models.ActorContext{Level: 40, TenantID: "t1"}, "t1", true},
		{"cross tenant denied", &models.ActorContext{Level: 80, TenantID: "t1"}, "t2", false},
		{"top tier cross tenant", &models.ActorContext{Level: 100, TenantID: "t1"}, "t2", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scope.AuthorizeWrite(tc.actor, tc.tenantID); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
