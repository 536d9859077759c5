package repository

import (
	"context"
	"errors"
	"fmt"

	"tenancy-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type PermissionGroupRepository struct {
	collection *mongo.Collection
}

func NewPermissionGroupRepository(db *mongo.Database) *PermissionGroupRepository {
	return &PermissionGroupRepository{
		collection: db.Collection("PermissionGroup"),
	}
}

// FindByID returns (nil, nil) when the group does not exist; a dangling
// group reference on a user account falls back to the legacy role table.
func (r *PermissionGroupRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.PermissionGroup, error) {
	var group models.PermissionGroup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up permission group %s: %w", id.Hex(), err)
	}
	return &group, nil
}
