package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/oukeidos/tarjama/internal/auth"
	"github.com/oukeidos/tarjama/internal/cleanup"
	"github.com/oukeidos/tarjama/internal/config"
	"github.com/oukeidos/tarjama/internal/files"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/provider"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey

	// translatorOverride replaces the configured provider; tests set it.
	translatorOverride provider.Translator
)

func serviceName(service string) string {
	switch service {
	case config.ProviderOpenAI:
		return "OpenAI"
	default:
		return "Gemini"
	}
}

// resolveAPIKey handles the logic for finding the API key.
func resolveAPIKey(service string, allowEnv, envOnly bool) (string, string, error) {
	if envOnly {
		if key, ok := getEnvKey(service); ok {
			return key, "Environment Variable", nil
		}
		return "", "", fmt.Errorf("env-only set but %s is not set", auth.EnvVar(service))
	}

	if key, source := getKey(service, false); key != "" {
		return key, source, nil
	}

	if allowEnv {
		if key, ok := getEnvKey(service); ok {
			return key, "Environment Variable", nil
		}
	}

	if !isTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no API key available (non-interactive shell); set keychain or use --allow-env")
	}
	key, err := promptForKey(fmt.Sprintf("%s API Key (press Enter to skip): ", serviceName(service)))
	if err != nil {
		return "", "", fmt.Errorf("error reading API key: %w", err)
	}
	if key = strings.TrimSpace(key); key != "" {
		return key, "Terminal Prompt", nil
	}
	if allowEnv {
		return "", "", fmt.Errorf("API key is required; not found in keychain or environment")
	}
	return "", "", fmt.Errorf("API key is required; not found in keychain (environment disabled by default; use --allow-env)")
}

// setupLogging initialises the global logger for one run and returns the run
// ID attached to every record.
func setupLogging(cfg config.Config) (string, error) {
	level := logger.LevelInfo
	if cfg.Debug {
		level = logger.LevelDebug
	}
	var logFileW io.Writer
	if cfg.LogFile != "" {
		if err := files.RejectSymlinkPath(cfg.LogFile); err != nil {
			return "", err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return "", fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	runID := uuid.NewString()
	logger.Init(level, logFileW, "run_id", runID)
	return runID, nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
