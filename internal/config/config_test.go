package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yamlPath := filepath.Join(dir, "linkaudit.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
addr: ":9090"
timeout: 3s
concurrency: 4
cache:
  enabled: true
  kind: FILE
  ttl: 10m
`), 0o644))
	require.NoError(t, os.WriteFile(".env", []byte("LINKAUDIT_USER_AGENT=from-dotenv\n"), 0o644))
	t.Setenv("LINKAUDIT_CONCURRENCY", "8")
	t.Setenv("LINKAUDIT_KEEP_WWW", "true")
	t.Setenv("LINKAUDIT_DIAL_TIMEOUT", "garbage")
	t.Cleanup(func() { os.Unsetenv("LINKAUDIT_USER_AGENT") })

	cfg, err := Load(yamlPath, nil)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Equal(t, 5*time.Second, cfg.DialTimeout)
	require.Equal(t, 8, cfg.Concurrency)
	require.Equal(t, "from-dotenv", cfg.UserAgent)
	require.True(t, cfg.KeepWww)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, "file", cfg.Cache.Kind)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoadBadFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("missing.yaml", nil)
	require.Error(t, err)

	require.NoError(t, os.WriteFile("bad.yaml", []byte("timeout: [1"), 0o644))
	_, err = Load("bad.yaml", nil)
	require.Error(t, err)
}

func TestSanitize(t *testing.T) {
	cfg := Config{Cache: Cache{Kind: "redis"}}
	cfg.sanitize()
	def := Default()
	require.Equal(t, def.Timeout, cfg.Timeout)
	require.Equal(t, def.Concurrency, cfg.Concurrency)
	require.Equal(t, "memory", cfg.Cache.Kind)
}
