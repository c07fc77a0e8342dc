package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `api_url: https://example.test/store/
api_token: tok
project: demo
data_type: events
timeout: 5s
proxy: socks5://127.0.0.1:1080
verbose: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		APIURL:   "https://example.test/store/",
		APIToken: "tok",
		Project:  "demo",
		DataType: "events",
		Timeout:  "5s",
		Proxy:    "socks5://127.0.0.1:1080",
		Verbose:  true,
	}, cfg)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("project: [unterminated"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoadDefault(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	// No file yet
	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	dir := filepath.Join(tmpDir, ".config", "store")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("project: from-home\n"), 0600))

	cfg, err = LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "from-home", cfg.Project)
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.HasSuffix(dir, filepath.Join(".config", "store")) {
		t.Errorf("GetConfigDir() = %q, should end with .config/store", dir)
	}
}
