package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/opsdash/mcsync/internal/config"
	"github.com/opsdash/mcsync/internal/models"
)

// PostgreSQLStore implements Store using PostgreSQL. Messages are stored as
// JSONB payloads keyed by id; report entries as rows keyed by service name.
type PostgreSQLStore struct {
	db *sql.DB
}

// NewPostgreSQLStore creates a new PostgreSQL store instance.
func NewPostgreSQLStore(cfg config.StorageConfig) (*PostgreSQLStore, error) {
	if cfg.PostgresURI == "" {
		return nil, fmt.Errorf("storage.postgres_uri is required for postgresql storage")
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	store := &PostgreSQLStore{db: db}
	if err := store.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure schema exists: %w", err)
	}
	return store, nil
}

func (p *PostgreSQLStore) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			processed_timestamp TEXT,
			payload JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			service_name TEXT PRIMARY KEY,
			message_count INTEGER NOT NULL,
			last_updated TEXT NOT NULL,
			average_messages_per_day NUMERIC(10,2) NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// WriteArchiveEntry upserts one message by its id.
func (p *PostgreSQLStore) WriteArchiveEntry(ctx context.Context, msg models.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message %s: %w", msg.ID, err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO messages (id, title, processed_timestamp, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET title = EXCLUDED.title,
		     processed_timestamp = EXCLUDED.processed_timestamp,
		     payload = EXCLUDED.payload`,
		msg.ID, msg.Title, msg.ProcessedTimestamp, payload)
	if err != nil {
		return fmt.Errorf("failed to store message %s: %w", msg.ID, err)
	}
	return nil
}

// WriteMessages upserts the full message set.
func (p *PostgreSQLStore) WriteMessages(ctx context.Context, msgs []models.Message) error {
	for _, msg := range msgs {
		if err := p.WriteArchiveEntry(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport upserts the per-service report entries.
func (p *PostgreSQLStore) WriteReport(ctx context.Context, reports []models.ServiceReport) error {
	for _, report := range reports {
		_, err := p.db.ExecContext(ctx,
			`INSERT INTO services (service_name, message_count, last_updated, average_messages_per_day)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (service_name) DO UPDATE
			 SET message_count = EXCLUDED.message_count,
			     last_updated = EXCLUDED.last_updated,
			     average_messages_per_day = EXCLUDED.average_messages_per_day`,
			report.ServiceName, report.MessageCount, report.LastUpdated, report.AverageMessagesPerDay)
		if err != nil {
			return fmt.Errorf("failed to store report for %s: %w", report.ServiceName, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (p *PostgreSQLStore) Close() error {
	return p.db.Close()
}
