package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oukeidos/tarjama/internal/cleanup"
	"github.com/oukeidos/tarjama/internal/config"
	"github.com/oukeidos/tarjama/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// rootState is shared by all subcommands of one root command.
type rootState struct {
	v        *viper.Viper
	cfgFile  string
	allowEnv bool
	envOnly  bool
}

func newRootCmd() *cobra.Command {
	st := &rootState{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "tarjama",
		Short: "Translate string fields of JSON datasets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	addConfigFlags(cmd.PersistentFlags(), st)
	if err := bindConfigFlags(st.v, cmd.PersistentFlags()); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		newTranslateCmd(st),
		newRetryCmd(st),
		newFixCmd(st),
		newVerifyCmd(st),
		newNumberCmd(st),
		newListCmd(),
		newAboutCmd(),
		newEnvCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		sub.SetUsageTemplate(subcommandUsageTemplate)
	}
	return cmd
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"dir":              config.KeyDataDir,
	"source":           config.KeySourceLang,
	"target":           config.KeyTargetLang,
	"suffix":           config.KeySuffix,
	"chunk-size":       config.KeyMaxChunkSize,
	"min-chunk-ratio":  config.KeyMinChunkRatio,
	"max-retries":      config.KeyMaxRetries,
	"base-delay":       config.KeyBaseDelay,
	"chunk-delay":      config.KeyChunkDelay,
	"retry-delay":      config.KeyRetryDelay,
	"workers":          config.KeyWorkers,
	"indent":           config.KeyIndent,
	"mapping-file":     config.KeyMappingFile,
	"report":           config.KeyReportPath,
	"provider":         config.KeyProvider,
	"model":            config.KeyModel,
	"rps":              config.KeyRequestsPerSecond,
	"breaker-failures": config.KeyBreakerFailures,
	"cache":            config.KeyCachePath,
	"log-file":         config.KeyLogFile,
	"debug":            config.KeyDebug,
}

func addConfigFlags(fs *pflag.FlagSet, st *rootState) {
	d := config.Defaults()
	fs.StringVar(&st.cfgFile, "config", "", "Config file (default ./.tarjama.yaml or ~/.tarjama.yaml)")
	fs.String("dir", d.DataDir, "Directory holding the dataset JSON files")
	fs.String("source", d.SourceLang, "Source language code")
	fs.String("target", d.TargetLang, "Target language code")
	fs.String("suffix", d.Suffix, "Suffix appended to field names for translations")
	fs.Int("chunk-size", d.MaxChunkSize, "Maximum characters per provider request")
	fs.Float64("min-chunk-ratio", d.MinChunkRatio, "Earliest chunk cut as a fraction of chunk-size")
	fs.Int("max-retries", d.MaxRetries, "Attempts per text before giving up")
	fs.Duration("base-delay", d.BaseDelay, "Pause after each single-unit translation")
	fs.Duration("chunk-delay", d.ChunkDelay, "Pause after each chunk translation")
	fs.Duration("retry-delay", d.RetryDelay, "Pause between failed attempts")
	fs.Int("workers", d.Workers, fmt.Sprintf("Files processed in parallel (%d-%d)", config.MinWorkers, config.MaxWorkers))
	fs.Int("indent", d.Indent, "JSON indent width for rewritten files")
	fs.String("mapping-file", d.MappingFile, "Name of the numbering map file, skipped by all commands")
	fs.String("report", d.ReportPath, "Verification report path, relative to --dir")
	fs.String("provider", d.Provider, "Translation provider (google, gemini or openai)")
	fs.String("model", d.Model, "Model name for gemini and openai")
	fs.Float64("rps", d.RequestsPerSecond, "Provider requests per second across workers (0 = unlimited)")
	fs.Int("breaker-failures", d.BreakerFailures, "Consecutive failures that open the circuit breaker (0 = off)")
	fs.String("cache", d.CachePath, "SQLite translation memory path (empty = off)")
	fs.String("log-file", d.LogFile, "Path to save machine-readable JSONL logs")
	fs.Bool("debug", d.Debug, "Enable debug logging")
	fs.BoolVar(&st.allowEnv, "allow-env", false, "Allow reading API key from environment variables")
	fs.BoolVar(&st.envOnly, "env-only", false, "Use only environment variables for API keys")
}

func bindConfigFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind %s: %w", flag, err)
		}
	}
	return nil
}

// initConfig layers the config file and TARJAMA_* variables under the flags.
func (st *rootState) initConfig(cmd *cobra.Command) error {
	v := st.v
	if st.cfgFile != "" {
		v.SetConfigFile(st.cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".tarjama")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("TARJAMA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if st.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
	return nil
}

func (st *rootState) config() config.Config {
	return config.Load(st.v)
}
