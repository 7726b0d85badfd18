package repository

import (
	"context"

	"github.com/puyolnw/sales-import-service/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// TransactionRepository persists the immutable sales ledger.
type TransactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("sales_transactions"),
	}
}

func (r *TransactionRepository) InsertMany(ctx context.Context, txns []models.SalesTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(txns))
	for _, t := range txns {
		docs = append(docs, t)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
