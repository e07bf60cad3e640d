package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViperWithRequired() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.Set("graph.tenant_id", "contoso.onmicrosoft.com")
	v.Set("graph.client_id", "client-123")
	v.Set("graph.client_secret", "s3cret")
	return v
}

func TestLoad_Defaults(t *testing.T) {
	v := newViperWithRequired()

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://login.microsoftonline.com", cfg.Graph.TokenBaseURL)
	assert.Equal(t, "https://graph.microsoft.com", cfg.Graph.APIBaseURL)
	assert.Equal(t, 999, cfg.Graph.Top)
	assert.Equal(t, "lastModifiedDateTime desc", cfg.Graph.OrderBy)
	assert.Equal(t, "file", cfg.Storage.Type)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
}

func TestLoad_Overrides(t *testing.T) {
	v := newViperWithRequired()
	v.Set("storage.type", "mongodb")
	v.Set("storage.mongodb_uri", "mongodb://localhost:27017")
	v.Set("storage.data_dir", "/var/lib/mcsync")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "mongodb", cfg.Storage.Type)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.MongoDBURI)
	assert.Equal(t, "/var/lib/mcsync", cfg.Storage.DataDir)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{name: "tenant", unset: "graph.tenant_id", wantErr: "graph.tenant_id is required"},
		{name: "client id", unset: "graph.client_id", wantErr: "graph.client_id is required"},
		{name: "secret", unset: "graph.client_secret", wantErr: "client secret is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViperWithRequired()
			v.Set(tt.unset, "")

			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
