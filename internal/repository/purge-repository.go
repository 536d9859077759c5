package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PurgeRepository deletes every document of a tenant from one collection at a
// time, in bounded batches. Deleting an already-absent document is a no-op,
// so a purge interrupted partway can simply be re-run.
type PurgeRepository struct {
	db *mongo.Database
}

func NewPurgeRepository(db *mongo.Database) *PurgeRepository {
	return &PurgeRepository{db: db}
}

// DeleteByTenant removes all documents with the given tenantId from the named
// collection. The count returned is accurate even when an error interrupts
// the loop, so callers can surface partial progress.
func (r *PurgeRepository) DeleteByTenant(ctx context.Context, collection, tenantID string, batchSize int) (int64, error) {
	coll := r.db.Collection(collection)
	filter := bson.M{"tenantId": tenantID}

	var total int64
	for {
		opts := options.Find().
			SetProjection(bson.M{"_id": 1}).
			SetLimit(int64(batchSize))

		cursor, err := coll.Find(ctx, filter, opts)
		if err != nil {
			return total, fmt.Errorf("failed to page %s for tenant %s: %w", collection, tenantID, err)
		}

		var docs []struct {
			ID any `bson:"_id"`
		}
		if err = cursor.All(ctx, &docs); err != nil {
			return total, fmt.Errorf("failed to read %s page for tenant %s: %w", collection, tenantID, err)
		}

		if len(docs) == 0 {
			return total, nil
		}

		writes := make([]mongo.WriteModel, 0, len(docs))
		for _, doc := range docs {
			writes = append(writes, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": doc.ID}))
		}

		result, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		if result != nil {
			total += result.DeletedCount
		}
		if err != nil {
			return total, fmt.Errorf("failed to delete %s batch for tenant %s: %w", collection, tenantID, err)
		}

		if len(docs) < batchSize {
			return total, nil
		}
	}
}
