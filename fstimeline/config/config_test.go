package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
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
	viper.Reset()

	// Save original directory
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	// Create temporary directory for testing
	tempDir, err := os.MkdirTemp("", "fstimeline-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	// Change to temp directory so LoadConfig does not pick up a real config
	err = os.Chdir(tempDir)
	require.NoError(suite.T(), err)
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), "mtime", cfg.Timeline.SortField)
	assert.Equal(suite.T(), "csv", cfg.Timeline.Format)
	assert.Equal(suite.T(), 0, cfg.Timeline.Workers)
	assert.Equal(suite.T(), -1, cfg.Timeline.MaxDepth)
	assert.False(suite.T(), cfg.Timeline.IncludeEXIF)
	assert.Equal(suite.T(), "libsql", cfg.Timeline.Database.Type)
	assert.NotEmpty(suite.T(), cfg.Timeline.Database.DSN)
}

func (suite *ConfigTestSuite) TestLoadConfigFromFile() {
	content := []byte(`timeline:
  sortField: atime
  format: json
  workers: 8
  includeExif: true
  database:
    dsn: "file:/tmp/test-runs.db"
`)
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(configPath, content, 0o644))

	cfg, err := LoadConfig(configPath)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "atime", cfg.Timeline.SortField)
	assert.Equal(suite.T(), "json", cfg.Timeline.Format)
	assert.Equal(suite.T(), 8, cfg.Timeline.Workers)
	assert.True(suite.T(), cfg.Timeline.IncludeEXIF)
	assert.Equal(suite.T(), "file:/tmp/test-runs.db", cfg.Timeline.Database.DSN)
}

func (suite *ConfigTestSuite) TestLoadConfigDiscoversWorkingDirectory() {
	content := []byte(`timeline:
  format: text
`)
	require.NoError(suite.T(), os.WriteFile(filepath.Join(suite.tempDir, "config.yaml"), content, 0o644))

	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "text", cfg.Timeline.Format)
	// Unset keys keep their defaults
	assert.Equal(suite.T(), "mtime", cfg.Timeline.SortField)
}

func (suite *ConfigTestSuite) TestLoadConfigBadFile() {
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(configPath, []byte("timeline: [not: valid"), 0o644))

	_, err := LoadConfig(configPath)
	assert.Error(suite.T(), err)
}
