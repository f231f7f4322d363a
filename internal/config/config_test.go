package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults_Valid(t *testing.T) {
	cfg, notes := Defaults().Normalize()
	if len(notes) != 0 {
		t.Fatalf("unexpected notes for defaults: %v", notes)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.MaxChunkSize != 500 || cfg.MaxRetries != 5 || cfg.RetryDelay != 3*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestNormalize_Clamps(t *testing.T) {
	cfg := Defaults()
	cfg.Workers = 0
	cfg.MaxRetries = 100
	cfg.Indent = 20
	cfg.Delimiters = nil

	got, notes := cfg.Normalize()
	if got.Workers != MinWorkers {
		t.Fatalf("workers = %d, want %d", got.Workers, MinWorkers)
	}
	if got.MaxRetries != MaxRetryCap {
		t.Fatalf("max retries = %d, want %d", got.MaxRetries, MaxRetryCap)
	}
	if got.Indent != MaxIndent {
		t.Fatalf("indent = %d, want %d", got.Indent, MaxIndent)
	}
	if len(got.Delimiters) != len(DefaultDelimiters) {
		t.Fatalf("delimiters not restored: %v", got.Delimiters)
	}
	if len(notes) != 4 {
		t.Fatalf("expected 4 notes, got %d: %v", len(notes), notes)
	}
}

func TestNormalize_FillsModel(t *testing.T) {
	cfg := Defaults()
	cfg.Provider = ProviderOpenAI
	got, _ := cfg.Normalize()
	if got.Model == "" {
		t.Fatalf("expected a default model for openai")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"same languages", func(c *Config) { c.TargetLang = "ar" }, "must differ"},
		{"unknown source", func(c *Config) { c.SourceLang = "xx" }, "unsupported source"},
		{"auto target", func(c *Config) { c.TargetLang = "auto" }, "unsupported target"},
		{"empty suffix", func(c *Config) { c.Suffix = " " }, "suffix"},
		{"zero chunk size", func(c *Config) { c.MaxChunkSize = 0 }, "chunk size"},
		{"ratio too large", func(c *Config) { c.MinChunkRatio = 1 }, "ratio"},
		{"no retries", func(c *Config) { c.MaxRetries = 0 }, "retries"},
		{"negative delay", func(c *Config) { c.RetryDelay = -time.Second }, "delays"},
		{"negative rps", func(c *Config) { c.RequestsPerSecond = -1 }, "requests per second"},
		{"unknown provider", func(c *Config) { c.Provider = "deepl" }, "unknown provider"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tc.want)
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".tarjama.yaml")
	content := "target_lang: fr\nsuffix: \"-fr\"\nretry_delay: 250ms\nworkers: 3\ndelimiters:\n  - \". \"\n  - \"\\n\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TARJAMA_WORKERS", "2")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("TARJAMA")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}

	cfg := Load(v)
	if cfg.TargetLang != "fr" || cfg.Suffix != "-fr" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.RetryDelay != 250*time.Millisecond {
		t.Fatalf("retry delay = %v, want 250ms", cfg.RetryDelay)
	}
	if cfg.Workers != 2 {
		t.Fatalf("env should win over file: workers = %d", cfg.Workers)
	}
	if len(cfg.Delimiters) != 2 {
		t.Fatalf("delimiters = %q", cfg.Delimiters)
	}
	if cfg.SourceLang != "ar" || cfg.MaxChunkSize != 500 {
		t.Fatalf("defaults not applied for unset keys: %+v", cfg)
	}
}
