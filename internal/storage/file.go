package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opsdash/mcsync/internal/models"
)

const (
	messagesFile = "messages.json"
	reportFile   = "services.json"
	archiveDir   = "archive"
)

// FileStore persists run output as JSON files under a data directory:
// messages.json and services.json at the root, one <id>.json per message
// under archive/. Archive files are overwritten on id collision; nothing
// is ever read back.
type FileStore struct {
	dataDir    string
	archiveDir string
}

// NewFileStore creates a file store rooted at dataDir and ensures the data
// and archive directories exist. Creating an existing directory is not an
// error.
func NewFileStore(dataDir string) (*FileStore, error) {
	archive := filepath.Join(dataDir, archiveDir)
	if err := os.MkdirAll(archive, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileStore{dataDir: dataDir, archiveDir: archive}, nil
}

// DataDir returns the root output directory.
func (f *FileStore) DataDir() string {
	return f.dataDir
}

// WriteArchiveEntry writes one message to archive/<id>.json.
func (f *FileStore) WriteArchiveEntry(_ context.Context, msg models.Message) error {
	path := filepath.Join(f.archiveDir, msg.ID+".json")
	if err := writeJSON(path, msg); err != nil {
		return fmt.Errorf("failed to archive message %s: %w", msg.ID, err)
	}
	return nil
}

// WriteMessages writes the full message set to messages.json.
func (f *FileStore) WriteMessages(_ context.Context, msgs []models.Message) error {
	path := filepath.Join(f.dataDir, messagesFile)
	if err := writeJSON(path, msgs); err != nil {
		return fmt.Errorf("failed to write %s: %w", messagesFile, err)
	}
	return nil
}

// WriteReport writes the per-service report to services.json.
func (f *FileStore) WriteReport(_ context.Context, reports []models.ServiceReport) error {
	path := filepath.Join(f.dataDir, reportFile)
	if err := writeJSON(path, reports); err != nil {
		return fmt.Errorf("failed to write %s: %w", reportFile, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (f *FileStore) Close() error {
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
