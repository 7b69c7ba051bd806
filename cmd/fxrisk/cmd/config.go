package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxrisk/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage fxrisk configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  fxrisk config init --file fxrisk.yaml
  fxrisk config validate --file fxrisk.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var (
	configInitFile     string
	configValidateFile string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitFile, "file", "f", "fxrisk.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidateFile, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configInitFile); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitFile)
	fmt.Fprintf(out, "  fxrisk --config %s evaluate -f book.yaml\n", configInitFile)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidateFile)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, err := c.CorrelationTable(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidateFile)
	fmt.Fprintf(out, "  Account: %.2f %s (max risk per trade %.1f%%)\n", c.Account.Balance, c.Account.Currency, c.Risk.MaxRiskPerTrade*100)
	table := c.Correlations.TablePath
	if table == "" {
		table = "built-in"
	}
	fmt.Fprintf(out, "  Correlations: %s\n", table)
	journalPath := c.Journal.DBPath
	if journalPath == "" {
		journalPath = "disabled"
	}
	fmt.Fprintf(out, "  Journal: %s\n", journalPath)
	return nil
}
