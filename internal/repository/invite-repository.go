package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenancy-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type InviteRepository struct {
	collection *mongo.Collection
}

func NewInviteRepository(db *mongo.Database) *InviteRepository {
	return &InviteRepository{
		collection: db.Collection("InviteCode"),
	}
}

func (r *InviteRepository) Insert(ctx context.Context, invite *models.InviteCode) (*models.InviteCode, error) {
	if invite.ID.IsZero() {
		invite.ID = bson.NewObjectID()
	}
	if invite.CreatedAt == 0 {
		invite.CreatedAt = int(time.Now().Unix())
	}

	_, err := r.collection.InsertOne(ctx, invite)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invite: %w", err)
	}

	return invite, nil
}

// FindByCode returns (nil, nil) when no invite carries the code.
func (r *InviteRepository) FindByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	var invite models.InviteCode
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&invite)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}
	return &invite, nil
}

func (r *InviteRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check invite code: %w", err)
	}
	return count > 0, nil
}

func (r *InviteRepository) CountByCreator(ctx context.Context, creatorID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"createdBy": creatorID})
	if err != nil {
		return 0, fmt.Errorf("failed to count invites for creator %s: %w", creatorID, err)
	}
	return count, nil
}

func (r *InviteRepository) FindByCreator(ctx context.Context, creatorID string, page, limit int) ([]*models.InviteCode, error) {
	opts := options.Find()
	opts.SetSort(bson.M{"createdAt": -1})
	if page > 0 && limit > 0 {
		opts.SetSkip(int64((page - 1) * limit))
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"createdBy": creatorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invites []*models.InviteCode
	if err = cursor.All(ctx, &invites); err != nil {
		return nil, err
	}

	return invites, nil
}

// Consume claims the invite iff it is currently unused, in one conditional
// update. Racing redemptions of the same code resolve at the store: exactly
// one caller gets the document back, the rest get (nil, nil).
func (r *InviteRepository) Consume(ctx context.Context, code, consumerID string) (*models.InviteCode, error) {
	filter := bson.M{"code": code, "isUsed": false}
	update := bson.M{"$set": bson.M{
		"isUsed": true,
		"usedBy": consumerID,
		"usedAt": int(time.Now().Unix()),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var invite models.InviteCode
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&invite)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to consume invite: %w", err)
	}

	return &invite, nil
}
