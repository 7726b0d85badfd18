package repository

import (
	"context"

	"github.com/puyolnw/sales-import-service/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImportRepository persists import audit records and serves the history
// screen of the back office.
type ImportRepository struct {
	collection *mongo.Collection
}

func NewImportRepository(db *mongo.Database) *ImportRepository {
	return &ImportRepository{
		collection: db.Collection("sales_imports"),
	}
}

func (r *ImportRepository) Insert(ctx context.Context, record *models.ImportRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *ImportRepository) FindByID(ctx context.Context, id string) (*models.ImportRecord, error) {
	var record models.ImportRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns a page of import records, newest first.
func (r *ImportRepository) List(ctx context.Context, page, perPage int) ([]*models.ImportRecord, int64, error) {
	filter := bson.M{}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "import_date", Value: -1}, {Key: "import_time", Value: -1}}).
		SetLimit(int64(perPage)).
		SetSkip(int64((page - 1) * perPage))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []*models.ImportRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
