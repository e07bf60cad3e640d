package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opsdash/mcsync/internal/config"
	"github.com/opsdash/mcsync/internal/models"
)

const (
	mongoDatabase           = "message_center"
	mongoMessagesCollection = "messages"
	mongoServicesCollection = "services"
)

// MongoDBStore implements Store using MongoDB. Messages are upserted by id
// into a messages collection; report entries by service name into a
// services collection.
type MongoDBStore struct {
	client   *mongo.Client
	messages *mongo.Collection
	services *mongo.Collection
}

// NewMongoDBStore creates a new MongoDB store instance.
func NewMongoDBStore(cfg config.StorageConfig) (*MongoDBStore, error) {
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("storage.mongodb_uri is required for mongodb storage")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(mongoDatabase)
	return &MongoDBStore{
		client:   client,
		messages: db.Collection(mongoMessagesCollection),
		services: db.Collection(mongoServicesCollection),
	}, nil
}

// WriteArchiveEntry upserts one message by its id.
func (m *MongoDBStore) WriteArchiveEntry(ctx context.Context, msg models.Message) error {
	filter := bson.M{"_id": msg.ID}
	update := bson.M{"$set": msg}
	opts := options.Update().SetUpsert(true)

	if _, err := m.messages.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to store message %s: %w", msg.ID, err)
	}
	return nil
}

// WriteMessages upserts the full message set.
func (m *MongoDBStore) WriteMessages(ctx context.Context, msgs []models.Message) error {
	for _, msg := range msgs {
		if err := m.WriteArchiveEntry(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport upserts the per-service report entries.
func (m *MongoDBStore) WriteReport(ctx context.Context, reports []models.ServiceReport) error {
	for _, report := range reports {
		filter := bson.M{"_id": report.ServiceName}
		update := bson.M{"$set": report}
		opts := options.Update().SetUpsert(true)

		if _, err := m.services.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to store report for %s: %w", report.ServiceName, err)
		}
	}
	return nil
}

// Close disconnects from MongoDB.
func (m *MongoDBStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
