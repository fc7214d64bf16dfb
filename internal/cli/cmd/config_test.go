package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/config"
)

func TestRenderConfigMasksDSN(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("store.dsn", "postgres://user:secret@db:5432/prf")
	cfg, err := config.Load(v)
	require.NoError(t, err)

	out, err := renderConfig(cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "secret")
	assert.Equal(t, "postgres://user:secret@db:5432/prf", cfg.Store.DSN, "original config is untouched")

	var decoded map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2017, decoded["extract"]["cutoff_year"])
	assert.Equal(t, "0s", decoded["source"]["http_timeout"])
	assert.Equal(t, "********", decoded["store"]["dsn"])
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "extract", "bronze", "silver", "gold", "status", "config", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestVersionInfoDefaults(t *testing.T) {
	SetVersionInfo("", "abc123", "")
	info := versionInfo()
	assert.Equal(t, [2]string{"Git commit", "abc123"}, info[0])
	assert.Equal(t, [2]string{"Built", "unknown"}, info[1])
	assert.Equal(t, "dev", orDefault(Version, "dev"))
}
