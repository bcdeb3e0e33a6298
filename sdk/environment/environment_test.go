package environment_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrazmi/todokeeper/sdk/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dbSection struct {
	URL      string `toml:"url" env:"DB_URL" default:"sqlite://:memory:"`
	MaxConns int    `toml:"max_conns" env:"DB_MAX_CONNS" default:"4"`
}

type testConfig struct {
	Port     string        `toml:"port" env:"PORT" default:":8080"`
	Debug    bool          `toml:"debug" env:"DEBUG" default:"false"`
	Timeout  time.Duration `toml:"timeout" env:"TIMEOUT" default:"5s"`
	Origins  []string      `toml:"origins" env:"ORIGINS" default:"a, b" separator:","`
	Database dbSection     `toml:"database"`
}

func TestParseEnvTagsDefaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, environment.ParseEnvTags("ENVTEST_DEFAULTS", &cfg))

	assert.Equal(t, ":8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"a", "b"}, cfg.Origins)
	assert.Equal(t, "sqlite://:memory:", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Database.MaxConns)
}

func TestParseEnvTagsEnvironmentWins(t *testing.T) {
	t.Setenv("ENVTEST_PORT", ":9999")
	t.Setenv("ENVTEST_DEBUG", "true")
	t.Setenv("ENVTEST_DB_MAX_CONNS", "12")

	cfg := testConfig{Port: ":1234"}
	require.NoError(t, environment.ParseEnvTags("ENVTEST", &cfg))

	assert.Equal(t, ":9999", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 12, cfg.Database.MaxConns)
}

func TestParseEnvTagsBadValue(t *testing.T) {
	t.Setenv("ENVTEST_BAD_TIMEOUT", "soon")

	var cfg testConfig
	err := environment.ParseEnvTags("ENVTEST_BAD", &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENVTEST_BAD_TIMEOUT")
}

func TestParseEnvTagsRequiresPointer(t *testing.T) {
	var cfg testConfig
	assert.Error(t, environment.ParseEnvTags("", cfg))
}

func TestLoadLayersTOMLUnderEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
port = ":7000"
timeout = "2s"

[database]
url = "postgres://localhost/todos"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ENVTEST_LAYER_DB_URL", "postgres://override/todos")

	var cfg testConfig
	require.NoError(t, environment.Load("ENVTEST_LAYER", path, &cfg))

	assert.Equal(t, ":7000", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "postgres://override/todos", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Database.MaxConns)
}

func TestLoadTOMLRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`prot = ":7000"`), 0o600))

	var cfg testConfig
	assert.Error(t, environment.LoadTOML(path, &cfg))
}

func TestLoadEnvIfPresentIgnoresMissingFile(t *testing.T) {
	assert.NoError(t, environment.LoadEnvIfPresent(filepath.Join(t.TempDir(), "missing.env")))
}
