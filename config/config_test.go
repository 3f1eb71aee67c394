package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neo4j-contrib/neorest/types"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid defaults",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "valid with auth",
			config: Config{
				BaseURL:  "http://graph.example.com:7474/db/data",
				Username: "neo4j",
				Password: "secret",
				Timeout:  10 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "empty base URL",
			config: Config{
				Timeout: 10 * time.Second,
			},
			wantErr: true,
		},
		{
			name: "zero timeout",
			config: Config{
				BaseURL: "http://localhost:7474/db/data",
			},
			wantErr: true,
		},
		{
			name: "password without username",
			config: Config{
				BaseURL:  "http://localhost:7474/db/data",
				Password: "secret",
				Timeout:  10 * time.Second,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, types.IsCode(err, types.CONFIG_VALIDATION_FAILED))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neorest.yaml")

	content := `
base_url: http://graph.internal:7474/db/data
username: neo4j
password: ${NEOREST_TEST_PASSWORD}
timeout: 15s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("NEOREST_TEST_PASSWORD", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://graph.internal:7474/db/data", cfg.BaseURL)
	assert.Equal(t, "neo4j", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "neorest", cfg.UserAgent)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CONFIG_LOAD_FAILED))
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}
