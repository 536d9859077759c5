package repository

import (
	"context"
	"fmt"

	"tenancy-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AuditRepository is append-only by construction: it exposes no update or
// delete of entry content. MarkAlertDelivered flips the one delivery
// bookkeeping bit and touches nothing else.
type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{
		collection: db.Collection("AuditLog"),
	}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.ID.IsZero() {
		entry.ID = bson.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) MarkAlertDelivered(ctx context.Context, entryID string) error {
	filter := bson.M{"entryId": entryID}
	update := bson.M{"$set": bson.M{"alertDelivered": true}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark audit alert delivered: %w", err)
	}
	return nil
}

// FindUndeliveredAlerts returns reportable entries whose alert has not been
// acknowledged by the broker yet, oldest first.
func (r *AuditRepository) FindUndeliveredAlerts(ctx context.Context, limit int64) ([]*models.AuditLogEntry, error) {
	filter := bson.M{"reportable": true, "alertDelivered": false}
	opts := options.Find().SetSort(bson.M{"timestamp": 1}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query undelivered audit alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditLogEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
