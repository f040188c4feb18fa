package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
	}
	return dir
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		env         map[string]string
		override    string
		expectError bool
		wantAddress string
	}{
		{
			name: "merges listed files in order",
			files: map[string]string{
				"meta.yaml":  "files:\n  - base.yaml\n  - ${LEADME_ENVIRONMENT:local}.yaml\n",
				"base.yaml":  "service:\n  name: leadme\njsonrpc:\n  address: localhost:7470\n",
				"local.yaml": "jsonrpc:\n  address: localhost:9000\n",
			},
			env:         map[string]string{"LEADME_ENVIRONMENT": "local"},
			wantAddress: "localhost:9000",
		},
		{
			name: "missing overlay is skipped",
			files: map[string]string{
				"meta.yaml": "files:\n  - base.yaml\n  - ${LEADME_ENVIRONMENT:local}.yaml\n",
				"base.yaml": "service:\n  name: leadme\njsonrpc:\n  address: localhost:7470\n",
			},
			env:         map[string]string{"LEADME_ENVIRONMENT": "development"},
			wantAddress: "localhost:7470",
		},
		{
			name: "override file is applied last",
			files: map[string]string{
				"meta.yaml":  "files:\n  - base.yaml\n  - local.yaml\n",
				"base.yaml":  "service:\n  name: leadme\njsonrpc:\n  address: localhost:7470\n",
				"local.yaml": "jsonrpc:\n  address: localhost:9000\n",
			},
			override:    "jsonrpc:\n  address: localhost:9100\n",
			wantAddress: "localhost:9100",
		},
		{
			name: "no listed file exists",
			files: map[string]string{
				"meta.yaml": "files:\n  - base.yaml\n",
			},
			expectError: true,
		},
		{
			name:        "missing meta file",
			files:       map[string]string{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(_envConfigDir, writeConfigDir(t, tt.files))
			t.Setenv(_envConfigOverride, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.override != "" {
				path := filepath.Join(t.TempDir(), "override.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.override), 0644))
				t.Setenv(_envConfigOverride, path)
			}

			provider, err := NewConfig()
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, provider)
				return
			}
			require.NoError(t, err)

			cfg := provider.(Config)
			assert.Equal(t, "config", cfg.Name())
			assert.Equal(t, "leadme", cfg.Get("service.name").String())
			assert.Equal(t, tt.wantAddress, cfg.Get("jsonrpc.address").String())
		})
	}
}

func TestMissingOverride(t *testing.T) {
	t.Setenv(_envConfigDir, writeConfigDir(t, map[string]string{
		"meta.yaml": "files:\n  - base.yaml\n",
		"base.yaml": "service:\n  name: leadme\n",
	}))
	t.Setenv(_envConfigOverride, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := NewConfig()
	assert.ErrorContains(t, err, _envConfigOverride)
}

func TestShippedConfig(t *testing.T) {
	t.Setenv(_envConfigDir, filepath.Join("..", "..", "config"))
	t.Setenv(_envConfigOverride, "")
	t.Setenv("LEADME_ENVIRONMENT", "local")

	provider, err := NewConfig()
	require.NoError(t, err)

	var signaling struct {
		SettleDelay time.Duration `yaml:"settleDelay"`
	}
	require.NoError(t, provider.Get("signaling").Populate(&signaling))
	assert.Equal(t, 750*time.Millisecond, signaling.SettleDelay)

	var session struct {
		ProvisionTimeout time.Duration `yaml:"provisionTimeout"`
		RehydrateTabs    bool          `yaml:"rehydrateTabs"`
	}
	require.NoError(t, provider.Get("session").Populate(&session))
	assert.Equal(t, 10*time.Second, session.ProvisionTimeout)
	assert.True(t, session.RehydrateTabs)
	assert.Equal(t, "memory", provider.Get("tree.backend").String())
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv(_envConfigDir, "")
	assert.Equal(t, _defaultConfigDir, getConfigDir())

	t.Setenv(_envConfigDir, "/etc/leadme")
	assert.Equal(t, "/etc/leadme", getConfigDir())
}
