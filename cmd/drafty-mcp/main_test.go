package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("DRAFTY_API_KEY", "")

	configPath, envFile, logLevel = "", "", ""

	prevStderr, prevLogger := stderr, logger
	t.Cleanup(func() { stderr, logger = prevStderr, prevLogger })
}

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	stderr = &buf
	logger = newLogger("info", "console")
	return &buf
}

func TestCatalogJSONWithoutCredential(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	require.NoError(t, printCatalog(&out, "json"))

	var doc struct {
		Tools []catalogEntry `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Tools, 3)
	assert.Equal(t, "create_post", doc.Tools[0].Name)
	assert.Equal(t, "list_posts", doc.Tools[1].Name)
	assert.Equal(t, "update_post", doc.Tools[2].Name)
	assert.Equal(t, "object", doc.Tools[0].InputSchema["type"])
}

func TestCatalogYAML(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	require.NoError(t, printCatalog(&out, "yaml"))

	var doc struct {
		Tools []catalogEntry `yaml:"tools"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Tools, 3)
	assert.Equal(t, []any{"postId"}, doc.Tools[2].InputSchema["required"])
}

func TestCatalogUnknownFormat(t *testing.T) {
	isolate(t)
	assert.ErrorContains(t, printCatalog(&bytes.Buffer{}, "toml"), "unknown format")
}

func TestServeRequiresAPIKey(t *testing.T) {
	isolate(t)
	err := runServe(t.Context())
	require.Error(t, err)
	assert.Equal(t, "DRAFTY_API_KEY environment variable is required", err.Error())
}

func TestMissingAPIKeyReportedOnce(t *testing.T) {
	isolate(t)
	out := captureStderr(t)

	err := runServe(t.Context())
	require.Error(t, err)
	reportError(err)

	assert.Equal(t, 1, strings.Count(out.String(), "DRAFTY_API_KEY environment variable is required"), out.String())
}

func TestEnvFileProvidesAPIKey(t *testing.T) {
	isolate(t)
	os.Unsetenv("DRAFTY_API_KEY")
	envFile = filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DRAFTY_API_KEY=from-dotenv\n"), 0o600))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Drafty.APIKey)
	os.Unsetenv("DRAFTY_API_KEY")
}
