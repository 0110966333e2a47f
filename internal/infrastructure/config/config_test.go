package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "phone", cfg.Directory.PhoneColumn)
	assert.Equal(t, "name", cfg.Directory.NameColumn)
	assert.Equal(t, "US", cfg.Directory.DefaultRegion)
	assert.Equal(t, 8*time.Second, cfg.Providers.Timeout)
	assert.True(t, cfg.Providers.OpenCorporates.Enabled)
	assert.Empty(t, cfg.Providers.Twilio.AccountSID)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9999
directory:
  path: /srv/contacts.csv
  default_region: GB
providers:
  timeout: 2s
  numverify:
    api_key: nv-test-key
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/srv/contacts.csv", cfg.Directory.Path)
	assert.Equal(t, "GB", cfg.Directory.DefaultRegion)
	assert.Equal(t, 2*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "nv-test-key", cfg.Providers.Numverify.APIKey)
	// Untouched sections keep their defaults.
	assert.Equal(t, "phone", cfg.Directory.PhoneColumn)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("CID_SERVER__PORT", "7070")
	t.Setenv("CID_PROVIDERS__TWILIO__ACCOUNT_SID", "ACtest")
	t.Setenv("CID_PROVIDERS__TWILIO__AUTH_TOKEN", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "ACtest", cfg.Providers.Twilio.AccountSID)
	assert.Equal(t, "secret", cfg.Providers.Twilio.AuthToken)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
