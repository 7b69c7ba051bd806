package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxrisk/config"
	"github.com/rustyeddy/fxrisk/internal/service"
	"github.com/rustyeddy/fxrisk/journal"
	"github.com/rustyeddy/fxrisk/pkg/logger"
	"github.com/rustyeddy/fxrisk/risk"
)

var rootCmd = &cobra.Command{
	Use:   "fxrisk",
	Short: "Correlation-aware risk checks for FX positions",
	Long: `fxrisk scores new FX positions against an open book using a pair
correlation table.

It provides tools for:
  - Correlation risk of a new position against existing ones
  - Correlation adjusted position sizing
  - Batch checks of simultaneous signals
  - ATR based trailing stop settings
  - Support/resistance anchored stops
  - A SQLite journal of every assessment and an HTTP API`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile      string
	logLevel     string
	logPretty    bool
	journalPath  string
	outputFormat string

	cfg    *config.Config
	appLog zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "human readable logs")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "SQLite journal path (empty disables journaling)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml", "result format: yaml|json")
}

// setup loads the config, applies environment and flag overrides, and builds
// the logger. Flags win over the environment, which wins over the file.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("pretty") {
		cfg.Log.Pretty = logPretty
	}
	if flags.Changed("journal") {
		cfg.Journal.DBPath = journalPath
	}

	if outputFormat != "yaml" && outputFormat != "json" {
		return fmt.Errorf("unknown output format %q", outputFormat)
	}

	appLog = logger.New(cfg.Logger())
	logger.SetGlobalLogger(appLog)
	return nil
}

// openService wires the engine and journal from the loaded config. The
// returned func closes the journal.
func openService() (*service.Service, func(), error) {
	table, err := cfg.CorrelationTable()
	if err != nil {
		return nil, nil, fmt.Errorf("correlation table: %w", err)
	}

	var j journal.Journal = journal.Nop{}
	if cfg.Journal.DBPath != "" {
		sj, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		j = sj
	}

	svc := service.New(service.Options{
		Engine:          risk.NewEngine(table),
		Journal:         j,
		Log:             appLog,
		AccountBalance:  cfg.Account.Balance,
		MaxRiskPerTrade: cfg.Risk.MaxRiskPerTrade,
	})
	closeFn := func() {
		if err := j.Close(); err != nil {
			appLog.Warn().Err(err).Msg("close journal")
		}
	}
	return svc, closeFn, nil
}

// readRequest decodes a YAML (or JSON) request file into v. "-" reads stdin.
func readRequest(cmd *cobra.Command, path string, v interface{}) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse request %s: %w", path, err)
	}
	return nil
}

func printResult(cmd *cobra.Command, v interface{}) error {
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func logEntry(kind journal.Kind, entryID string) {
	if entryID != "" {
		appLog.Info().Str("kind", string(kind)).Str("entry_id", entryID).Msg("recorded")
	}
}
