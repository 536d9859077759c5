package repository

import (
	"context"
	"errors"
	"fmt"

	"tenancy-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type UserAccountRepository struct {
	collection *mongo.Collection
}

func NewUserAccountRepository(db *mongo.Database) *UserAccountRepository {
	return &UserAccountRepository{
		collection: db.Collection("UserAccount"),
	}
}

// FindByID returns (nil, nil) when no account exists, so resolution can fall
// through to the deny-all default instead of failing.
func (r *UserAccountRepository) FindByID(ctx context.Context, id string) (*models.UserAccount, error) {
	var account models.UserAccount
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user account %s: %w", id, err)
	}
	return &account, nil
}
