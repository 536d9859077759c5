package service

import (
	"context"
	"sync"
	"time"

	"tenancy-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type recordedEntry struct {
	Severity string
	Action   string
	ActorID  string
	TenantID string
	Details  map[string]any
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []recordedEntry
}

func (f *fakeRecorder) Record(ctx context.Context, severity, action, actorID, tenantID string, details map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recordedEntry{
		Severity: severity,
		Action:   action,
		ActorID:  actorID,
		TenantID: tenantID,
		Details:  details,
	})
}

func (f *fakeRecorder) bySeverity(severity string) []recordedEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []recordedEntry
	for _, e := range f.entries {
		if e.Severity == severity {
			matched = append(matched, e)
		}
	}
	return matched
}

type fakeUserStore struct {
	users map[string]*models.UserAccount
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.UserAccount, error) {
	return f.users[id], nil
}

type fakeGroupStore struct {
	groups map[bson.ObjectID]*models.PermissionGroup
}

func (f *fakeGroupStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.PermissionGroup, error) {
	return f.groups[id], nil
}

// fakeInviteStore mimics the store's conditional update: Consume claims the
// code under a lock iff it is still unused.
type fakeInviteStore struct {
	mu           sync.Mutex
	invites      map[string]*models.InviteCode
	alwaysExists bool
}

func newFakeInviteStore() *fakeInviteStore {
	return &fakeInviteStore{invites: make(map[string]*models.InviteCode)}
}

func (f *fakeInviteStore) Insert(ctx context.Context, invite *models.InviteCode) (*models.InviteCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite.CreatedAt = int(time.Now().Unix())
	f.invites[invite.Code] = invite
	return invite, nil
}

func (f *fakeInviteStore) FindByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invites[code], nil
}

func (f *fakeInviteStore) CodeExists(ctx context.Context, code string) (bool, error) {
	if f.alwaysExists {
		return true, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.invites[code]
	return ok, nil
}

func (f *fakeInviteStore) CountByCreator(ctx context.Context, creatorID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, invite := range f.invites {
		if invite.CreatedBy == creatorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeInviteStore) FindByCreator(ctx context.Context, creatorID string, page, limit int) ([]*models.InviteCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var invites []*models.InviteCode
	for _, invite := range f.invites {
		if invite.CreatedBy == creatorID {
			invites = append(invites, invite)
		}
	}
	return invites, nil
}

func (f *fakeInviteStore) Consume(ctx context.Context, code, consumerID string) (*models.InviteCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[code]
	if !ok || invite.IsUsed {
		return nil, nil
	}
	invite.IsUsed = true
	invite.UsedBy = consumerID
	invite.UsedAt = int(time.Now().Unix())
	return invite, nil
}

type fakeTenantStore struct {
	mu      sync.Mutex
	tenants map[string]*models.Tenant
}

func newFakeTenantStore(tenants ...*models.Tenant) *fakeTenantStore {
	store := &fakeTenantStore{tenants: make(map[string]*models.Tenant)}
	for _, t := range tenants {
		store.tenants[t.ID] = t
	}
	return store
}

func (f *fakeTenantStore) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tenants[id], nil
}

func (f *fakeTenantStore) MarkPendingDeletion(ctx context.Context, id string, scheduledAt int, requestedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tenant := f.tenants[id]
	tenant.Status = models.TenantPendingDeletion
	tenant.ScheduledDeletionDate = scheduledAt
	tenant.DeletionRequestedBy = requestedBy
	return nil
}

func (f *fakeTenantStore) Restore(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tenant := f.tenants[id]
	tenant.Status = models.TenantActive
	tenant.ScheduledDeletionDate = 0
	tenant.DeletionRequestedBy = ""
	return nil
}

func (f *fakeTenantStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tenants, id)
	return nil
}

func (f *fakeTenantStore) FindDueForDeletion(ctx context.Context, now int) ([]*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []*models.Tenant
	for _, tenant := range f.tenants {
		if tenant.Status == models.TenantPendingDeletion && tenant.ScheduledDeletionDate <= now {
			due = append(due, tenant)
		}
	}
	return due, nil
}

// fakePurgeStore returns the seeded document count for a collection once,
// then zero, which mirrors idempotent deletes of already-absent documents.
type fakePurgeStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]int64 // collection -> tenantID -> remaining docs
	failOn  string
	visited []string
}

func newFakePurgeStore() *fakePurgeStore {
	return &fakePurgeStore{docs: make(map[string]map[string]int64)}
}

func (f *fakePurgeStore) seed(collection, tenantID string, count int64) {
	if f.docs[collection] == nil {
		f.docs[collection] = make(map[string]int64)
	}
	f.docs[collection][tenantID] = count
}

func (f *fakePurgeStore) remaining(tenantID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, byTenant := range f.docs {
		total += byTenant[tenantID]
	}
	return total
}

func (f *fakePurgeStore) DeleteByTenant(ctx context.Context, collection, tenantID string, batchSize int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited = append(f.visited, collection)

	if f.failOn == collection {
		f.failOn = ""
		return 0, context.DeadlineExceeded
	}

	byTenant := f.docs[collection]
	if byTenant == nil {
		return 0, nil
	}
	count := byTenant[tenantID]
	byTenant[tenantID] = 0
	return count, nil
}
