package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "Clique aqui para baixar", cfg.Source.LinkLabel)
	assert.Equal(t, time.Duration(0), cfg.Source.HTTPTimeout)
	assert.Equal(t, "database", cfg.Paths.Root)
	assert.Equal(t, 2017, cfg.Extract.CutoffYear)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 500000, cfg.Transfer.ChunkSize)
	assert.Equal(t, "info", cfg.Log.Level)

	acq := cfg.Acquisition()
	assert.Equal(t, "database", acq.Root)
	assert.Equal(t, 2017, acq.CutoffYear)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PRF_EXTRACT_CUTOFF_YEAR", "2020")
	t.Setenv("PRF_STORE_DRIVER", "duckdb")
	t.Setenv("PRF_STORE_DSN", "prf.duckdb")
	t.Setenv("PRF_SOURCE_HTTP_TIMEOUT", "45s")

	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, 2020, cfg.Extract.CutoffYear)
	assert.Equal(t, DriverDuckDB, cfg.Store.Driver)
	assert.Equal(t, "prf.duckdb", cfg.Store.DSN)
	assert.Equal(t, 45*time.Second, cfg.Source.HTTPTimeout)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  root: /data/prf
transfer:
  chunk_size: 1000
`), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/data/prf", cfg.Paths.Root)
	assert.Equal(t, 1000, cfg.Transfer.ChunkSize)
	assert.Equal(t, "database/manifest.json", cfg.Paths.Manifest)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"unknown driver", "store.driver", "sqlite"},
		{"empty dsn", "store.dsn", ""},
		{"zero chunk size", "transfer.chunk_size", 0},
		{"zero cutoff", "extract.cutoff_year", 0},
		{"template without placeholder", "source.download_url_template", "https://example.org/file"},
		{"negative timeout", "source.http_timeout", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
