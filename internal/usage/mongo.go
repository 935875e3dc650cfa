package usage

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const usageCollection = "usage_records"

// MongoRecorder appends usage records to a MongoDB collection.
type MongoRecorder struct {
	coll *mongo.Collection
}

func NewMongoRecorder(client *mongo.Client, dbName string) *MongoRecorder {
	return &MongoRecorder{coll: client.Database(dbName).Collection(usageCollection)}
}

func (m *MongoRecorder) Record(ctx context.Context, rec Record) error {
	_, err := m.coll.InsertOne(ctx, bson.M{
		"_id":           rec.ID,
		"filename":      rec.Filename,
		"mode":          rec.Mode,
		"result_length": rec.ResultLength,
		"created_at":    rec.CreatedAt,
	})
	return err
}

var _ Recorder = (*MongoRecorder)(nil)
