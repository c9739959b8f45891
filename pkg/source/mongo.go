package source

import (
	"context"
	"fmt"

	"racerank/pkg/race"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSource loads athlete documents from a MongoDB collection.
// Documents use the same field names as the JSON race data.
type MongoSource struct {
	collection *mongo.Collection
}

// NewMongoSource creates a new MongoSource instance
func NewMongoSource(coll *mongo.Collection) *MongoSource {
	return &MongoSource{
		collection: coll,
	}
}

// Load reads every athlete document in natural order
func (s *MongoSource) Load(ctx context.Context) ([]race.Record, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0})

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query race data: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]race.Record, 0)
	for cursor.Next(ctx) {
		record, err := decodeRecord(cursor.Current)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("race data cursor error: %w", err)
	}
	return records, nil
}

func decodeRecord(raw bson.Raw) (race.Record, error) {
	var record race.Record
	if err := bson.Unmarshal(raw, &record); err != nil {
		return race.Record{}, fmt.Errorf("failed to decode athlete document: %w", err)
	}
	return record, nil
}
