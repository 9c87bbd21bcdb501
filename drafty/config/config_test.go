package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	internal "github.com/ZanzyTHEbar/drafty-mcp/drafty"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	suite.tempDir = suite.T().TempDir()
	require.NoError(suite.T(), os.Chdir(suite.tempDir))
	suite.T().Setenv("HOME", suite.tempDir)

	// Keep the developer's shell from leaking into the assertions.
	for _, env := range []string{
		internal.APIKeyEnv,
		"DRAFTY_BASE_URL",
		"DRAFTY_TIMEOUT",
		"DRAFTY_VALIDATE_ARGUMENTS",
		"DRAFTY_DISPLAY_TIMEZONE",
		"DRAFTY_LOG_LEVEL",
	} {
		suite.T().Setenv(env, "")
	}
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), internal.DefaultBaseURL, cfg.Drafty.BaseURL)
	assert.Equal(suite.T(), 30*time.Second, cfg.Drafty.Timeout)
	assert.Equal(suite.T(), internal.DefaultUserAgent, cfg.Drafty.UserAgent)
	assert.Equal(suite.T(), "drafty", cfg.Server.Name)
	assert.Equal(suite.T(), "1.0.0", cfg.Server.Version)
	assert.True(suite.T(), cfg.Tools.ValidateArguments)
	assert.Equal(suite.T(), "Local", cfg.Tools.DisplayTimezone)
	assert.Equal(suite.T(), "info", cfg.Log.Level)
	assert.True(suite.T(), cfg.Log.Tracing)
	assert.Empty(suite.T(), cfg.Drafty.APIKey)
	assert.False(suite.T(), cfg.Tools.RateLimit.Enabled)
	assert.Equal(suite.T(), 5, cfg.Tools.RateLimit.Capacity)
	assert.Equal(suite.T(), time.Second, cfg.Tools.RateLimit.RefillInterval)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	configContent := `
drafty:
  api_key: "file-key"
  base_url: "http://localhost:8080/"
  timeout: 5s
tools:
  validate_arguments: false
  display_timezone: "UTC"
log:
  level: debug
  format: json
`

	configFile := filepath.Join(suite.tempDir, "drafty.yaml")
	err := os.WriteFile(configFile, []byte(configContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig(configFile)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), "file-key", cfg.Drafty.APIKey)
	assert.Equal(suite.T(), "http://localhost:8080", cfg.Drafty.BaseURL, "trailing slash is trimmed")
	assert.Equal(suite.T(), 5*time.Second, cfg.Drafty.Timeout)
	assert.False(suite.T(), cfg.Tools.ValidateArguments)
	assert.Equal(suite.T(), "UTC", cfg.Tools.DisplayTimezone)
	assert.Equal(suite.T(), "debug", cfg.Log.Level)
	assert.Equal(suite.T(), "json", cfg.Log.Format)
	assert.NoError(suite.T(), cfg.Validate())
}

func (suite *ConfigTestSuite) TestLoadConfigDiscoversWorkingDirFile() {
	err := os.WriteFile(filepath.Join(suite.tempDir, "config.yaml"), []byte("server:\n  name: staging\n"), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "staging", cfg.Server.Name)
}

func (suite *ConfigTestSuite) TestEnvironmentOverridesFile() {
	configFile := filepath.Join(suite.tempDir, "drafty.yaml")
	err := os.WriteFile(configFile, []byte("drafty:\n  api_key: file-key\n"), 0o644)
	require.NoError(suite.T(), err)

	suite.T().Setenv(internal.APIKeyEnv, "  env-key  ")
	suite.T().Setenv("DRAFTY_BASE_URL", "https://staging.drafty.com")
	suite.T().Setenv("DRAFTY_VALIDATE_ARGUMENTS", "false")

	cfg, err := LoadConfig(configFile)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "env-key", cfg.Drafty.APIKey)
	assert.Equal(suite.T(), "https://staging.drafty.com", cfg.Drafty.BaseURL)
	assert.False(suite.T(), cfg.Tools.ValidateArguments)
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidFile() {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestLoadConfigMalformedFile() {
	malformedContent := `
drafty:
  api_key: "k"
  base_url: [unclosed bracket
`

	configFile := filepath.Join(suite.tempDir, "malformed.yaml")
	err := os.WriteFile(configFile, []byte(malformedContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig(configFile)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestValidateMissingAPIKey() {
	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	err = cfg.Validate()
	assert.ErrorIs(suite.T(), err, ErrMissingAPIKey)
	assert.Contains(suite.T(), err.Error(), "DRAFTY_API_KEY environment variable is required")
}

func (suite *ConfigTestSuite) TestValidateRejectsUnknownTimezone() {
	suite.T().Setenv(internal.APIKeyEnv, "k")
	suite.T().Setenv("DRAFTY_DISPLAY_TIMEZONE", "Mars/Olympus_Mons")

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	err = cfg.Validate()
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "display_timezone")
}

func (suite *ConfigTestSuite) TestValidateRejectsBadRateLimit() {
	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	cfg.Drafty.APIKey = "k"
	cfg.Tools.RateLimit.Enabled = true
	cfg.Tools.RateLimit.Capacity = 0

	assert.ErrorContains(suite.T(), cfg.Validate(), "tools.rate_limit")
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Tools.DisplayTimezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
