package pipeline

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/oukeidos/tarjama/internal/config"
	"github.com/oukeidos/tarjama/internal/dataset"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/provider"
)

// Options is everything a run needs besides the context.
type Options struct {
	Config config.Config
	// APIKey is used by the gemini and openai providers.
	APIKey string
	// Translator replaces the configured provider when set. The decorators
	// of the chain are still applied.
	Translator provider.Translator
	// OnFile is called after each dataset file.
	OnFile func(dataset.FileResult)
	// Out receives the console verification summary. Nil discards it.
	Out io.Writer
}

// prepare normalizes and validates the configuration in place.
func (o *Options) prepare() error {
	cfg, notes := o.Config.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if o.Translator == nil && cfg.NeedsAPIKey() && o.APIKey == "" {
		return fmt.Errorf("an API key is required for provider %q", cfg.Provider)
	}
	o.Config = cfg
	return nil
}

// reportPath resolves the report path against the data directory.
func (o *Options) reportPath() string {
	p := o.Config.ReportPath
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(o.Config.DataDir, p)
}
