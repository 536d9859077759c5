package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenancy-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type TenantRepository struct {
	collection *mongo.Collection
}

func NewTenantRepository(db *mongo.Database) *TenantRepository {
	return &TenantRepository{
		collection: db.Collection("Tenant"),
	}
}

// FindByID returns (nil, nil) when the tenant does not exist.
func (r *TenantRepository) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tenant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up tenant %s: %w", id, err)
	}
	return &tenant, nil
}

func (r *TenantRepository) MarkPendingDeletion(ctx context.Context, id string, scheduledAt int, requestedBy string) error {
	update := bson.M{"$set": bson.M{
		"status":                models.TenantPendingDeletion,
		"scheduledDeletionDate": scheduledAt,
		"deletionRequestedBy":   requestedBy,
		"updatedAt":             int(time.Now().Unix()),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark tenant %s for deletion: %w", id, err)
	}
	return nil
}

func (r *TenantRepository) Restore(ctx context.Context, id string) error {
	update := bson.M{
		"$set": bson.M{
			"status":    models.TenantActive,
			"updatedAt": int(time.Now().Unix()),
		},
		"$unset": bson.M{
			"scheduledDeletionDate": "",
			"deletionRequestedBy":   "",
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to restore tenant %s: %w", id, err)
	}
	return nil
}

func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete tenant %s: %w", id, err)
	}
	return nil
}

func (r *TenantRepository) FindDueForDeletion(ctx context.Context, now int) ([]*models.Tenant, error) {
	filter := bson.M{
		"status":                models.TenantPendingDeletion,
		"scheduledDeletionDate": bson.M{"$lte": now},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants due for deletion: %w", err)
	}
	defer cursor.Close(ctx)

	var tenants []*models.Tenant
	if err = cursor.All(ctx, &tenants); err != nil {
		return nil, err
	}

	return tenants, nil
}
