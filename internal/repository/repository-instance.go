package repository

import "tenancy-service/internal/database/mongo"

type Repositories struct {
	AuditRepository           *AuditRepository
	CacheRepository           *CacheRepository
	InviteRepository          *InviteRepository
	PermissionGroupRepository *PermissionGroupRepository
	PurgeRepository           *PurgeRepository
	TenantRepository          *TenantRepository
	UserAccountRepository     *UserAccountRepository
}

var Repositories_instance = &Repositories{
	AuditRepository:           NewAuditRepository(mongo.Mongo_Database),
	CacheRepository:           NewCacheRepository(),
	InviteRepository:          NewInviteRepository(mongo.Mongo_Database),
	PermissionGroupRepository: NewPermissionGroupRepository(mongo.Mongo_Database),
	PurgeRepository:           NewPurgeRepository(mongo.Mongo_Database),
	TenantRepository:          NewTenantRepository(mongo.Mongo_Database),
	UserAccountRepository:     NewUserAccountRepository(mongo.Mongo_Database),
}
