package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/youruser/certapp/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "nameSpace", cfg.Certificate.VerifierLabel)
	require.Equal(t, "pdf", cfg.Certificate.Format)
	require.False(t, cfg.Certificate.RawFilenames)
	require.Equal(t, 10*time.Second, cfg.Assets.FetchTimeout)
	require.Equal(t, int64(20971520), cfg.Assets.MaxBytes)
	require.Equal(t, "out", cfg.Output.Dir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
certificate:
  verifierLabel: Acme Academy
  format: png
assets:
  baseDir: /srv/templates
  fetchTimeout: 3s
store:
  eventsFile: /srv/events.yml
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "Acme Academy", cfg.Certificate.VerifierLabel)
	require.Equal(t, "png", cfg.Certificate.Format)
	require.Equal(t, "/srv/templates", cfg.Assets.BaseDir)
	require.Equal(t, 3*time.Second, cfg.Assets.FetchTimeout)
	require.Equal(t, "/srv/events.yml", cfg.Store.EventsFile)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CERT_VERIFIER_LABEL", "Registry")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "Registry", cfg.Certificate.VerifierLabel)
}
