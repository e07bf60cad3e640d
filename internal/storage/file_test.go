package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdash/mcsync/internal/models"
)

func TestNewFileStore_CreatesDirectories(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "out")

	store, err := NewFileStore(dataDir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dataDir, "archive"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on an existing tree.
	_, err = NewFileStore(dataDir)
	assert.NoError(t, err)
	assert.Equal(t, dataDir, store.DataDir())
}

func TestFileStore_WriteArchiveEntry(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	msg := models.Message{
		ID:    "MC100001",
		Title: "Teams change",
		Body:  models.MessageBody{ContentType: "html", Content: "<b>Teams</b> update"},
		Services: []string{
			"Microsoft Teams",
		},
		ProcessedTimestamp: "2024-03-07 09:00:00",
	}
	require.NoError(t, store.WriteArchiveEntry(context.Background(), msg))

	data, err := os.ReadFile(filepath.Join(store.DataDir(), "archive", "MC100001.json"))
	require.NoError(t, err)

	var got models.Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, msg, got)
}

func TestFileStore_WriteArchiveEntry_Overwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.WriteArchiveEntry(ctx, models.Message{ID: "MC1", Title: "first"}))
	require.NoError(t, store.WriteArchiveEntry(ctx, models.Message{ID: "MC1", Title: "second"}))

	data, err := os.ReadFile(filepath.Join(store.DataDir(), "archive", "MC1.json"))
	require.NoError(t, err)

	var got models.Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "second", got.Title)
}

func TestFileStore_WriteMessages(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	msgs := []models.Message{
		{ID: "MC1", Title: "one", Services: []string{"Teams"}},
		{ID: "MC2", Title: "two", Services: []string{"Teams", "Outlook"}},
	}
	require.NoError(t, store.WriteMessages(context.Background(), msgs))

	data, err := os.ReadFile(filepath.Join(store.DataDir(), "messages.json"))
	require.NoError(t, err)

	var got []models.Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, msgs, got)
}

func TestFileStore_WriteReport(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	reports := []models.ServiceReport{
		{ServiceName: "Outlook", MessageCount: 1, LastUpdated: "2024-03-07 12:00:00", AverageMessagesPerDay: 0.03},
		{ServiceName: "Teams", MessageCount: 2, LastUpdated: "2024-03-07 12:00:00", AverageMessagesPerDay: 0.07},
	}
	require.NoError(t, store.WriteReport(context.Background(), reports))

	data, err := os.ReadFile(filepath.Join(store.DataDir(), "services.json"))
	require.NoError(t, err)

	var got []models.ServiceReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, reports, got)
}
