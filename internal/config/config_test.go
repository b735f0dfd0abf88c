package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/marketplace-api/internal/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
database:
  uri: "mongodb://mongo:27017"
  name: "marketplace_test"
  connect_timeout: "5s"
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 10
storage:
  endpoint: "https://nyc3.digitaloceanspaces.com"
  region: "nyc3"
  bucket: "nft-media"
  access_key: "key"
  secret_key: "secret"
  public_url_base: "https://cdn.example.com"
chains:
  contracts:
    ethereum: "0xabc0000000000000000000000000000000000001"
    polygon: "0xabc0000000000000000000000000000000000002"
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "mongodb://mongo:27017", cfg.Database.URI)
				assert.Equal(t, "marketplace_test", cfg.Database.Name)
				assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 10, cfg.Server.ReadTimeout)
				assert.Equal(t, "nyc3", cfg.Storage.Region)
				assert.Equal(t, "nft-media", cfg.Storage.Bucket)

				table := cfg.Chains.ContractTable()
				assert.Equal(t, "0xabc0000000000000000000000000000000000001", table[domain.BlockchainEthereum])
				assert.Equal(t, "0xabc0000000000000000000000000000000000002", table[domain.BlockchainPolygon])
			},
		},
		{
			name:       "defaults applied when fields omitted",
			configFile: "debug: false\n",
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
				assert.Equal(t, "marketplace", cfg.Database.Name)
				assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30, cfg.Server.WriteTimeout)
				assert.Equal(t, "us-east-1", cfg.Storage.Region)
			},
		},
		{
			name:        "malformed yaml",
			configFile:  "server: [not a map\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.configFile)
			cfg, err := LoadAPIConfig(path, t.TempDir())
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}
