package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberpulse/pkg/contracts/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.True(t, cfg.Security.RateLimit.Enabled)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read timeout"},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, "write timeout"},
		{"no origins", func(c *Config) { c.Security.AllowedOrigins = nil }, "allowed origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CYBERPULSE_SERVER_PORT", "9090")
	t.Setenv("CYBERPULSE_LOGGING_LEVEL", "debug")
	t.Setenv("CYBERPULSE_PATHS_DATA_DIR", "/srv/cyberpulse/data")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/cyberpulse/data", cfg.Paths.DataDir)
}

func TestMergeConfigsEnvWins(t *testing.T) {
	fileConfig := Config{}
	fileConfig.Server.Port = 3000
	fileConfig.Paths.DataDir = "file-data"
	fileConfig.Logging.Level = "warn"

	envConfig := Config{}
	envConfig.Server.Port = 9090

	merged := mergeConfigs(fileConfig, envConfig)
	assert.Equal(t, 9090, merged.Server.Port)
	assert.Equal(t, "file-data", merged.Paths.DataDir)
	assert.Equal(t, "warn", merged.Logging.Level)
}

func TestResolvePaths(t *testing.T) {
	t.Run("relative dirs anchor at the executable", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.ExecutableDir = "/opt/cyberpulse"

		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/opt/cyberpulse", "data"), paths.DataDir)
		assert.Equal(t, filepath.Join("/opt/cyberpulse", "logs"), paths.LogsDir)
	})

	t.Run("absolute dirs stay put", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.ExecutableDir = "/opt/cyberpulse"
		cfg.Paths.DataDir = "/var/lib/cyberpulse"

		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/cyberpulse", paths.DataDir)
	})
}

func TestDatasetFiles(t *testing.T) {
	paths := &Paths{DataDir: "/data"}
	files := paths.DatasetFiles()

	require.Len(t, files, 4)
	assert.Equal(t, filepath.Join("/data", "industry.csv"), files[domain.DatasetIndustry])
	assert.Equal(t, filepath.Join("/data", "regions.csv"), files[domain.DatasetRegion])
	assert.Equal(t, filepath.Join("/data", "S-enterprises.csv"), files[domain.DatasetSizeS])
	assert.Equal(t, filepath.Join("/data", "M-L-enterprises.csv"), files[domain.DatasetSizeML])
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{
		DataDir: filepath.Join(dir, "data"),
		LogsDir: filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	// Logs are created; the data directory is input and must not be.
	assert.DirExists(t, paths.LogsDir)
	assert.NoDirExists(t, paths.DataDir)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "industry.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing.csv")))
	assert.False(t, FileExists(dir))
}
