package repository

import (
	"context"

	"github.com/puyolnw/sales-import-service/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductRepository reads and writes the product catalog owned by the
// inventory subsystem. The import pipeline only ever proposes new entry
// versions; this repository is where they get persisted.
type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

// ListAll returns the full catalog snapshot for a run to match against.
func (r *ProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SaveProposed replaces each catalog entry with the proposed version from a
// pipeline run, in a single bulk write.
func (r *ProductRepository) SaveProposed(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(products))
	for _, p := range products {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": p.ID}).
			SetReplacement(p).
			SetUpsert(false))
	}

	_, err := r.collection.BulkWrite(ctx, writes)
	return err
}
