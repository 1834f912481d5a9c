package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so no stray .env is picked up
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, "9413745", cfg.Location.TideStation)
	assert.Equal(t, 30*time.Second, cfg.Providers.Timeout)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := chdirTemp(t)
	path := writeFile(t, dir, "coastal.yaml", `
log_level: debug
persona: family
location:
  name: Monterey, CA
  latitude: 36.6002
  longitude: -121.8947
  tide_station: "9413450"
providers:
  timeout: 5s
reference:
  path: /etc/coastal/reference.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "family", cfg.Persona)
	assert.Equal(t, "Monterey, CA", cfg.Location.Name)
	assert.Equal(t, "9413450", cfg.Location.TideStation)
	assert.Equal(t, 5*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "/etc/coastal/reference.yaml", cfg.Reference.Path)

	// untouched sections keep their defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, uint32(5), cfg.Providers.BreakerFailures)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	path := writeFile(t, dir, "coastal.yaml", "persona: family\nserver:\n  addr: \":9000\"\n")

	t.Setenv("COASTAL_PERSONA", "crowd-avoider")
	t.Setenv("COASTAL_LOCATION_TIDE_STATION", "9414290")
	t.Setenv("COASTAL_PROVIDERS_TIMEOUT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "crowd-avoider", cfg.Persona)
	assert.Equal(t, "9414290", cfg.Location.TideStation)
	assert.Equal(t, 2*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoad_IgnoresUnprefixedEnv(t *testing.T) {
	chdirTemp(t)

	// common process variables that share a field name
	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("NAME", "somehost")
	t.Setenv("PERSONA", "pirate")
	t.Setenv("ADDR", ":1")
	t.Setenv("TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "chatty")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Empty(t, cfg.Reference.Path)
	assert.Empty(t, cfg.Database.Path)
	assert.Equal(t, "Santa Cruz, CA", cfg.Location.Name)
}

func TestLoad_PrefixedEnvKeys(t *testing.T) {
	chdirTemp(t)

	t.Setenv("COASTAL_REFERENCE_PATH", "/etc/coastal/reference.yaml")
	t.Setenv("COASTAL_LOCATION_NAME", "Capitola, CA")
	t.Setenv("COASTAL_SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("COASTAL_PROVIDERS_USER_AGENT", "coastal-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/etc/coastal/reference.yaml", cfg.Reference.Path)
	assert.Equal(t, "Capitola, CA", cfg.Location.Name)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "coastal-test", cfg.Providers.UserAgent)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	writeFile(t, dir, ".env", "COASTAL_DATABASE_PATH=/tmp/coastal-test.db\n")
	t.Cleanup(func() { os.Unsetenv("COASTAL_DATABASE_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/coastal-test.db", cfg.Database.Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		env      map[string]string
		wantType ConfigErrorType
	}{
		{
			name:     "bad yaml",
			file:     "location: [",
			wantType: ErrParsing,
		},
		{
			name:     "bad env duration",
			env:      map[string]string{"COASTAL_PROVIDERS_TIMEOUT": "soon"},
			wantType: ErrParsing,
		},
		{
			name:     "latitude out of range",
			file:     "location:\n  latitude: 123\n",
			wantType: ErrValidation,
		},
		{
			name:     "unknown log level",
			env:      map[string]string{"COASTAL_LOG_LEVEL": "chatty"},
			wantType: ErrValidation,
		},
		{
			name:     "zero breaker threshold",
			file:     "providers:\n  breaker_failures: 0\n",
			wantType: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, dir, "coastal.yaml", tt.file)
			}

			_, err := Load(path)
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantType, cfgErr.Type)
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load("/nonexistent/coastal.yaml")
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrFile, cfgErr.Type)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConfigError_Error(t *testing.T) {
	e := &ConfigError{Type: ErrValidation, Message: "bad"}
	assert.Equal(t, "[VALIDATION_FAILED] bad", e.Error())

	e.Err = errors.New("boom")
	assert.Equal(t, "[VALIDATION_FAILED] bad: boom", e.Error())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "station", "9413745")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "station=9413745")
}
