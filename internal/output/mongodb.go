// internal/output/mongodb.go
package output

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/valpere/BiDiConformer/pkg/types"
)

const mongoTimeout = 10 * time.Second

// MongoDBWriter writes results to a MongoDB collection
type MongoDBWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDBWriter creates a new MongoDB writer
func NewMongoDBWriter(opts DatabaseOptions) (*MongoDBWriter, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("mongodb dsn is required")
	}
	if opts.Table == "" {
		return nil, fmt.Errorf("mongodb collection is required")
	}

	database := opts.Database
	if database == "" {
		database = "bidiconformer"
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.DSN))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBWriter{
		client:     client,
		collection: client.Database(database).Collection(opts.Table),
	}, nil
}

// Write inserts results as one batch
func (w *MongoDBWriter) Write(results []types.CheckResult) error {
	if len(results) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(results))
	for _, r := range results {
		docs = append(docs, bson.M{
			"suite":       r.Suite,
			"check":       r.Check,
			"status":      string(r.Status),
			"duration_ms": r.Duration.Milliseconds(),
			"error":       r.Error,
			"started_at":  r.StartedAt,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	if _, err := w.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert results: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB
func (w *MongoDBWriter) Close() error {
	if w.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
		defer cancel()

		err := w.client.Disconnect(ctx)
		w.client = nil
		return err
	}
	return nil
}
