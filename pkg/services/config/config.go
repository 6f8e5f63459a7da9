// Package config loads the application configuration with viper and resolves provider credentials.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "SEOATLAS"

type Config struct {
	Site      SiteConfig    `mapstructure:"site"`
	AI        AIConfig      `mapstructure:"ai"`
	Content   ContentConfig `mapstructure:"content"`
	Quota     QuotaConfig   `mapstructure:"quota"`
	AutoAudit bool          `mapstructure:"auto_audit"`
	AutoFix   bool          `mapstructure:"auto_fix"`
	Audit     AuditConfig   `mapstructure:"audit"`
	Probe     ProbeConfig   `mapstructure:"probe"`
	DB        DBConfig      `mapstructure:"db"`
	Server    ServerConfig  `mapstructure:"server"`
	Archive   ArchiveConfig `mapstructure:"archive"`
	LogLevel  string        `mapstructure:"log_level"`
}

type SiteConfig struct {
	URL                string   `mapstructure:"url"`
	PermalinkStructure string   `mapstructure:"permalink_structure"`
	MetaFields         []string `mapstructure:"meta_fields"`
	// CorpusPath is an optional YAML export imported into an empty content store on startup.
	CorpusPath string `mapstructure:"corpus_path"`
}

type AIConfig struct {
	Provider        string        `mapstructure:"provider"`
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	BaseURL         string        `mapstructure:"base_url"`
	Profile         string        `mapstructure:"profile"`
	CredentialsPath string        `mapstructure:"credentials_path"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type ContentConfig struct {
	Length   string `mapstructure:"length"`
	Tone     string `mapstructure:"tone"`
	Language string `mapstructure:"language"`
}

type QuotaConfig struct {
	AuditLimit   int `mapstructure:"audit_limit"`
	ContentLimit int `mapstructure:"content_limit"`
}

type AuditConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ProbeConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ArchiveConfig struct {
	Target  string `mapstructure:"target"`
	Dir     string `mapstructure:"dir"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			URL:                "http://localhost",
			PermalinkStructure: "/%postname%/",
			MetaFields:         []string{"_yoast_wpseo_metadesc", "rank_math_description", "_aioseo_description"},
		},
		AI: AIConfig{
			Provider:        "openai",
			CredentialsPath: DefaultCredentialsPath(),
			Timeout:         60 * time.Second,
		},
		Content: ContentConfig{
			Length:   "medium",
			Tone:     "professional",
			Language: "pt_BR",
		},
		Quota: QuotaConfig{
			AuditLimit:   4,
			ContentLimit: 3,
		},
		AutoAudit: true,
		AutoFix:   false,
		Audit:     AuditConfig{Interval: 24 * time.Hour},
		Probe:     ProbeConfig{Timeout: 5 * time.Second},
		DB:        DBConfig{Path: "seo-atlas.db"},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Archive: ArchiveConfig{
			Target: "file",
			Dir:    "exports",
			Prefix: "audits/",
			Region: "us-east-1",
		},
		LogLevel: "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("site.url", d.Site.URL)
	v.SetDefault("site.permalink_structure", d.Site.PermalinkStructure)
	v.SetDefault("site.meta_fields", d.Site.MetaFields)
	v.SetDefault("site.corpus_path", d.Site.CorpusPath)
	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.api_key", d.AI.APIKey)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.profile", d.AI.Profile)
	v.SetDefault("ai.credentials_path", d.AI.CredentialsPath)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("content.length", d.Content.Length)
	v.SetDefault("content.tone", d.Content.Tone)
	v.SetDefault("content.language", d.Content.Language)
	v.SetDefault("quota.audit_limit", d.Quota.AuditLimit)
	v.SetDefault("quota.content_limit", d.Quota.ContentLimit)
	v.SetDefault("auto_audit", d.AutoAudit)
	v.SetDefault("auto_fix", d.AutoFix)
	v.SetDefault("audit.interval", d.Audit.Interval)
	v.SetDefault("probe.timeout", d.Probe.Timeout)
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("archive.target", d.Archive.Target)
	v.SetDefault("archive.dir", d.Archive.Dir)
	v.SetDefault("archive.bucket", d.Archive.Bucket)
	v.SetDefault("archive.prefix", d.Archive.Prefix)
	v.SetDefault("archive.profile", d.Archive.Profile)
	v.SetDefault("archive.region", d.Archive.Region)
	v.SetDefault("log_level", d.LogLevel)
}

// Load reads seo-atlas.yaml (or the given file) and SEOATLAS_* environment variables.
// A missing default config file is not an error; a missing explicit path is.
func Load(ctx context.Context, path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// A set but empty variable still overrides, e.g. plain permalinks.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("seo-atlas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.resolveProfile(ctx); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolveProfile fills empty AI settings from the named credentials profile.
func (c *Config) resolveProfile(ctx context.Context) error {
	if c.AI.Profile == "" {
		return nil
	}
	if _, err := os.Stat(c.AI.CredentialsPath); err != nil {
		return fmt.Errorf("credentials file for profile %s: %w", c.AI.Profile, err)
	}

	registry, err := NewRegistry(c.AI.CredentialsPath)
	if err != nil {
		return err
	}
	p, err := registry.GetProfile(ctx, c.AI.Profile)
	if err != nil {
		return err
	}

	if p.Provider != "" {
		c.AI.Provider = p.Provider
	}
	if c.AI.APIKey == "" {
		c.AI.APIKey = p.APIKey
	}
	if c.AI.Model == "" {
		c.AI.Model = p.Model
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = p.BaseURL
	}
	return nil
}
