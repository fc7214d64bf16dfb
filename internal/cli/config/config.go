// Package config binds the pipeline settings to viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/delcor027/Acidentes-ANTT-PIE/internal/acquisition"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/transfer"
)

// EnvPrefix prefixes environment overrides, e.g. PRF_STORE_DSN.
const EnvPrefix = "PRF"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

type Config struct {
	Source   SourceConfig   `mapstructure:"source" yaml:"source" json:"source"`
	Paths    PathsConfig    `mapstructure:"paths" yaml:"paths" json:"paths"`
	Extract  ExtractConfig  `mapstructure:"extract" yaml:"extract" json:"extract"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store" json:"store"`
	Transfer TransferConfig `mapstructure:"transfer" yaml:"transfer" json:"transfer"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
}

type SourceConfig struct {
	ListingURL          string        `mapstructure:"listing_url" yaml:"listing_url" json:"listing_url"`
	LinkLabel           string        `mapstructure:"link_label" yaml:"link_label" json:"link_label"`
	DownloadURLTemplate string        `mapstructure:"download_url_template" yaml:"download_url_template" json:"download_url_template"`
	HTTPTimeout         time.Duration `mapstructure:"http_timeout" yaml:"http_timeout" json:"http_timeout"`
}

type PathsConfig struct {
	Root     string `mapstructure:"root" yaml:"root" json:"root"`
	Manifest string `mapstructure:"manifest" yaml:"manifest" json:"manifest"`
}

type ExtractConfig struct {
	CutoffYear int `mapstructure:"cutoff_year" yaml:"cutoff_year" json:"cutoff_year"`
}

type StoreConfig struct {
	Driver   string `mapstructure:"driver" yaml:"driver" json:"driver"`
	DSN      string `mapstructure:"dsn" yaml:"dsn" json:"-"`
	MaxConns int    `mapstructure:"max_conns" yaml:"max_conns" json:"max_conns"`
}

type TransferConfig struct {
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size" json:"chunk_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.listing_url", acquisition.DefaultListingURL)
	v.SetDefault("source.link_label", acquisition.DefaultLinkLabel)
	v.SetDefault("source.download_url_template", acquisition.DefaultDownloadURLTemplate)
	v.SetDefault("source.http_timeout", "0s")

	v.SetDefault("paths.root", "database")
	v.SetDefault("paths.manifest", "database/manifest.json")

	v.SetDefault("extract.cutoff_year", acquisition.DefaultCutoffYear)

	v.SetDefault("store.driver", DriverPostgres)
	v.SetDefault("store.dsn", "postgres://localhost:5432/prf?sslmode=disable")
	v.SetDefault("store.max_conns", 4)

	v.SetDefault("transfer.chunk_size", transfer.DefaultChunkSize)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindEnv makes every key overridable from PRF_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverDuckDB:
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverPostgres, DriverDuckDB, c.Store.Driver)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required")
	}
	if c.Paths.Root == "" {
		return fmt.Errorf("paths.root is required")
	}
	if c.Paths.Manifest == "" {
		return fmt.Errorf("paths.manifest is required")
	}
	if c.Extract.CutoffYear < 1 {
		return fmt.Errorf("extract.cutoff_year must be positive, got %d", c.Extract.CutoffYear)
	}
	if c.Transfer.ChunkSize < 1 {
		return fmt.Errorf("transfer.chunk_size must be positive, got %d", c.Transfer.ChunkSize)
	}
	if c.Source.HTTPTimeout < 0 {
		return fmt.Errorf("source.http_timeout cannot be negative")
	}
	if strings.Count(c.Source.DownloadURLTemplate, "%s") != 1 {
		return fmt.Errorf("source.download_url_template must contain exactly one %%s")
	}
	return nil
}

// Acquisition returns the controller settings.
func (c *Config) Acquisition() acquisition.Config {
	return acquisition.Config{
		ListingURL:          c.Source.ListingURL,
		LinkLabel:           c.Source.LinkLabel,
		DownloadURLTemplate: c.Source.DownloadURLTemplate,
		Root:                c.Paths.Root,
		CutoffYear:          c.Extract.CutoffYear,
	}
}
