package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("base_url = \"https://papers.example.com/\"\ntop_k = 7\n"), 0o600))

	c, err := LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, "https://papers.example.com", c.BaseURL)
	assert.Equal(t, 7, c.TopK)
	assert.Equal(t, DefaultModel, c.DefaultModel)
	assert.Equal(t, DefaultGlobalTopK, c.GlobalTopK)
}

func TestLoadFromRejectsBadValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("top_k = 0\n"), 0o600))

	_, err := LoadFrom(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_k")
}

func TestSaveToThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.toml")
	c := Default()
	c.DefaultModel = "llama3"
	c.RequestTimeout = "90s"
	require.NoError(t, SaveTo(p, c))

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, 90*time.Second, got.Timeout())
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, c Config)
	}{
		{name: "base url trimmed", key: "base_url", value: " http://localhost:9000/ ", check: func(t *testing.T, c Config) {
			assert.Equal(t, "http://localhost:9000", c.BaseURL)
		}},
		{name: "relative base url", key: "base_url", value: "/api", wantErr: true},
		{name: "top k", key: "top_k", value: "4", check: func(t *testing.T, c Config) { assert.Equal(t, 4, c.TopK) }},
		{name: "top k not a number", key: "top_k", value: "many", wantErr: true},
		{name: "global top k too small", key: "global_top_k", value: "0", wantErr: true},
		{name: "log level lowered", key: "log_level", value: "DEBUG", check: func(t *testing.T, c Config) {
			assert.Equal(t, "debug", c.LogLevel)
		}},
		{name: "bad duration", key: "request_timeout", value: "soon", wantErr: true},
		{name: "unknown", key: "colour", value: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			err := c.Set(tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PAPERASSIST_BASE_URL", "https://env.example.com/")
	t.Setenv("PAPERASSIST_MODEL", "mistral")
	t.Setenv("PAPERASSIST_VERBOSE", "1")

	c := Default()
	c.ApplyEnv()
	assert.Equal(t, "https://env.example.com", c.BaseURL)
	assert.Equal(t, "mistral", c.DefaultModel)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestTimeoutDefaultsToNone(t *testing.T) {
	assert.Equal(t, time.Duration(0), Default().Timeout())
	assert.Equal(t, time.Duration(0), Config{RequestTimeout: "garbage"}.Timeout())
}
