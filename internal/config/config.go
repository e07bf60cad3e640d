package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for one sync run. It is built once at
// startup and passed by value; nothing mutates it afterwards.
type Config struct {
	Graph   GraphConfig
	Storage StorageConfig
}

// GraphConfig holds connection and fetch parameters for the message center
// feed.
type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	TokenBaseURL string
	APIBaseURL   string
	Top          int
	OrderBy      string
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	Type        string // "file", "dynamodb", "mongodb", "postgresql"
	DataDir     string
	Region      string // For AWS DynamoDB
	TableName   string
	Endpoint    string // Custom endpoint for local testing
	MongoDBURI  string
	PostgresURI string
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("graph.token_base_url", "https://login.microsoftonline.com")
	v.SetDefault("graph.api_base_url", "https://graph.microsoft.com")
	v.SetDefault("graph.top", 999)
	v.SetDefault("graph.order_by", "lastModifiedDateTime desc")
	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.region", "us-west-2")
	v.SetDefault("storage.table_name", "message_center")
}

// Load builds a Config from the given viper instance and validates the
// fields a run cannot start without. The client secret is resolved by the
// caller (flag beats environment) and arrives here as a plain viper key.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Graph: GraphConfig{
			TenantID:     v.GetString("graph.tenant_id"),
			ClientID:     v.GetString("graph.client_id"),
			ClientSecret: v.GetString("graph.client_secret"),
			TokenBaseURL: v.GetString("graph.token_base_url"),
			APIBaseURL:   v.GetString("graph.api_base_url"),
			Top:          v.GetInt("graph.top"),
			OrderBy:      v.GetString("graph.order_by"),
		},
		Storage: StorageConfig{
			Type:        v.GetString("storage.type"),
			DataDir:     v.GetString("storage.data_dir"),
			Region:      v.GetString("storage.region"),
			TableName:   v.GetString("storage.table_name"),
			Endpoint:    v.GetString("storage.endpoint"),
			MongoDBURI:  v.GetString("storage.mongodb_uri"),
			PostgresURI: v.GetString("storage.postgres_uri"),
		},
	}

	if cfg.Graph.TenantID == "" {
		return Config{}, fmt.Errorf("graph.tenant_id is required")
	}
	if cfg.Graph.ClientID == "" {
		return Config{}, fmt.Errorf("graph.client_id is required")
	}
	if cfg.Graph.ClientSecret == "" {
		return Config{}, fmt.Errorf("client secret is required (flag, MCSYNC_GRAPH_CLIENT_SECRET, or .env)")
	}
	if cfg.Storage.DataDir == "" {
		return Config{}, fmt.Errorf("storage.data_dir is required")
	}

	return cfg, nil
}
