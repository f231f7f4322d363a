package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/oukeidos/tarjama/internal/language"
	"github.com/spf13/viper"
)

// Config holds every option of a run. It is passed by value to the
// constructors that need it; no package keeps a global copy.
type Config struct {
	// Languages and naming
	SourceLang string
	TargetLang string
	Suffix     string

	// Chunking
	MaxChunkSize  int
	MinChunkRatio float64
	Delimiters    []string

	// Retry protocol
	MaxRetries int
	BaseDelay  time.Duration
	ChunkDelay time.Duration
	RetryDelay time.Duration

	// Runner
	Workers     int
	Indent      int
	DataDir     string
	MappingFile string
	ReportPath  string

	// Provider chain
	Provider          string
	Model             string
	RequestsPerSecond float64
	BreakerFailures   int
	CachePath         string

	// Logging
	LogFile string
	Debug   bool
}

const (
	ProviderGoogle = "google"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

const (
	MinWorkers   = 1
	MaxWorkers   = 16
	MaxRetryCap  = 20
	MaxIndent    = 8
	DefaultModel = ""
)

// DefaultDelimiters are tried in order when looking for a chunk boundary.
var DefaultDelimiters = []string{". ", ".\n", "؟ ", "! ", "، ", "\n\n", "\n"}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		SourceLang:    "ar",
		TargetLang:    "en",
		Suffix:        "-en",
		MaxChunkSize:  500,
		MinChunkRatio: 0.5,
		Delimiters:    append([]string(nil), DefaultDelimiters...),
		MaxRetries:    5,
		BaseDelay:     500 * time.Millisecond,
		ChunkDelay:    time.Second,
		RetryDelay:    3 * time.Second,
		Workers:       1,
		Indent:        2,
		DataDir:       ".",
		MappingFile:   "filename_mapping.json",
		ReportPath:    "VERIFICATION_REPORT.md",
		Provider:      ProviderGoogle,
	}
}

// Keys used in config files and TARJAMA_* environment variables.
const (
	KeySourceLang        = "source_lang"
	KeyTargetLang        = "target_lang"
	KeySuffix            = "suffix"
	KeyMaxChunkSize      = "max_chunk_size"
	KeyMinChunkRatio     = "min_chunk_ratio"
	KeyDelimiters        = "delimiters"
	KeyMaxRetries        = "max_retries"
	KeyBaseDelay         = "base_delay"
	KeyChunkDelay        = "chunk_delay"
	KeyRetryDelay        = "retry_delay"
	KeyWorkers           = "workers"
	KeyIndent            = "indent"
	KeyDataDir           = "data_dir"
	KeyMappingFile       = "mapping_file"
	KeyReportPath        = "report_path"
	KeyProvider          = "provider"
	KeyModel             = "model"
	KeyRequestsPerSecond = "requests_per_second"
	KeyBreakerFailures   = "breaker_failures"
	KeyCachePath         = "cache_path"
	KeyLogFile           = "log_file"
	KeyDebug             = "debug"
)

// SetDefaults registers Defaults() on v so that unset keys resolve to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeySourceLang, d.SourceLang)
	v.SetDefault(KeyTargetLang, d.TargetLang)
	v.SetDefault(KeySuffix, d.Suffix)
	v.SetDefault(KeyMaxChunkSize, d.MaxChunkSize)
	v.SetDefault(KeyMinChunkRatio, d.MinChunkRatio)
	v.SetDefault(KeyDelimiters, d.Delimiters)
	v.SetDefault(KeyMaxRetries, d.MaxRetries)
	v.SetDefault(KeyBaseDelay, d.BaseDelay)
	v.SetDefault(KeyChunkDelay, d.ChunkDelay)
	v.SetDefault(KeyRetryDelay, d.RetryDelay)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyIndent, d.Indent)
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyMappingFile, d.MappingFile)
	v.SetDefault(KeyReportPath, d.ReportPath)
	v.SetDefault(KeyProvider, d.Provider)
	v.SetDefault(KeyModel, d.Model)
	v.SetDefault(KeyRequestsPerSecond, d.RequestsPerSecond)
	v.SetDefault(KeyBreakerFailures, d.BreakerFailures)
	v.SetDefault(KeyCachePath, d.CachePath)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyDebug, d.Debug)
}

// Load reads a Config out of v. Precedence (flag, env, file, default) is
// whatever v was set up with.
func Load(v *viper.Viper) Config {
	SetDefaults(v)
	return Config{
		SourceLang:        strings.TrimSpace(v.GetString(KeySourceLang)),
		TargetLang:        strings.TrimSpace(v.GetString(KeyTargetLang)),
		Suffix:            v.GetString(KeySuffix),
		MaxChunkSize:      v.GetInt(KeyMaxChunkSize),
		MinChunkRatio:     v.GetFloat64(KeyMinChunkRatio),
		Delimiters:        v.GetStringSlice(KeyDelimiters),
		MaxRetries:        v.GetInt(KeyMaxRetries),
		BaseDelay:         v.GetDuration(KeyBaseDelay),
		ChunkDelay:        v.GetDuration(KeyChunkDelay),
		RetryDelay:        v.GetDuration(KeyRetryDelay),
		Workers:           v.GetInt(KeyWorkers),
		Indent:            v.GetInt(KeyIndent),
		DataDir:           v.GetString(KeyDataDir),
		MappingFile:       v.GetString(KeyMappingFile),
		ReportPath:        v.GetString(KeyReportPath),
		Provider:          strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider))),
		Model:             strings.TrimSpace(v.GetString(KeyModel)),
		RequestsPerSecond: v.GetFloat64(KeyRequestsPerSecond),
		BreakerFailures:   v.GetInt(KeyBreakerFailures),
		CachePath:         v.GetString(KeyCachePath),
		LogFile:           v.GetString(KeyLogFile),
		Debug:             v.GetBool(KeyDebug),
	}
}

// Normalize applies safe bounds to config values and returns any adjustments.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if c.Workers < MinWorkers {
		notes = append(notes, fmt.Sprintf("workers raised from %d to %d", c.Workers, MinWorkers))
		c.Workers = MinWorkers
	}
	if c.Workers > MaxWorkers {
		notes = append(notes, fmt.Sprintf("workers clamped from %d to %d (max %d)", c.Workers, MaxWorkers, MaxWorkers))
		c.Workers = MaxWorkers
	}
	if c.MaxRetries > MaxRetryCap {
		notes = append(notes, fmt.Sprintf("max-retries clamped from %d to %d (max %d)", c.MaxRetries, MaxRetryCap, MaxRetryCap))
		c.MaxRetries = MaxRetryCap
	}
	if c.Indent > MaxIndent {
		notes = append(notes, fmt.Sprintf("indent clamped from %d to %d (max %d)", c.Indent, MaxIndent, MaxIndent))
		c.Indent = MaxIndent
	}
	if len(c.Delimiters) == 0 {
		notes = append(notes, "empty delimiter list replaced with defaults")
		c.Delimiters = append([]string(nil), DefaultDelimiters...)
	}
	if c.Model == "" {
		c.Model = DefaultModelFor(c.Provider)
	}
	return c, notes
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.SourceLang == "" || c.TargetLang == "" {
		return fmt.Errorf("source and target languages are required")
	}
	if _, ok := language.Lookup(c.SourceLang); !ok {
		return fmt.Errorf("unsupported source language: %q", c.SourceLang)
	}
	if _, ok := language.Lookup(c.TargetLang); !ok || strings.EqualFold(c.TargetLang, "auto") {
		return fmt.Errorf("unsupported target language: %q", c.TargetLang)
	}
	if strings.EqualFold(c.SourceLang, c.TargetLang) {
		return fmt.Errorf("source and target languages must differ, both are %q", c.SourceLang)
	}
	if strings.TrimSpace(c.Suffix) == "" {
		return fmt.Errorf("suffix must not be empty")
	}
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("max chunk size must be greater than 0, got %d", c.MaxChunkSize)
	}
	if c.MinChunkRatio < 0 || c.MinChunkRatio >= 1 {
		return fmt.Errorf("min chunk ratio must be in [0, 1), got %v", c.MinChunkRatio)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.BaseDelay < 0 || c.ChunkDelay < 0 || c.RetryDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.Indent < 0 {
		return fmt.Errorf("indent must be 0 or greater, got %d", c.Indent)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must be 0 or greater, got %v", c.RequestsPerSecond)
	}
	if c.BreakerFailures < 0 {
		return fmt.Errorf("breaker failures must be 0 or greater, got %d", c.BreakerFailures)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	switch c.Provider {
	case ProviderGoogle, ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider %q (want %s, %s or %s)", c.Provider, ProviderGoogle, ProviderGemini, ProviderOpenAI)
	}
	return nil
}

// DefaultModelFor returns the model used when none is configured.
func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return DefaultModel
	}
}

// NeedsAPIKey reports whether the provider authenticates with an API key.
func (c Config) NeedsAPIKey() bool {
	return c.Provider == ProviderGemini || c.Provider == ProviderOpenAI
}
