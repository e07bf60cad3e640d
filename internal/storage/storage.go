package storage

import (
	"context"
	"fmt"

	"github.com/opsdash/mcsync/internal/config"
	"github.com/opsdash/mcsync/internal/models"
)

// Store defines the contract for persisting a run's output: one archive
// entry per message, the full message set, and the per-service report.
// Which failures abort a run is the pipeline's decision, not the store's.
type Store interface {
	WriteArchiveEntry(ctx context.Context, msg models.Message) error
	WriteMessages(ctx context.Context, msgs []models.Message) error
	WriteReport(ctx context.Context, reports []models.ServiceReport) error
	Close() error
}

// NewStore creates a new store instance based on configuration.
func NewStore(cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "file":
		return NewFileStore(cfg.DataDir)
	case "dynamodb":
		return NewDynamoDBStore(cfg)
	case "mongodb":
		return NewMongoDBStore(cfg)
	case "postgresql":
		return NewPostgreSQLStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
