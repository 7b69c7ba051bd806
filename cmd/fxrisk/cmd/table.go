package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxrisk/correlation"
	"github.com/rustyeddy/fxrisk/market"
	"github.com/rustyeddy/fxrisk/pricing"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Inspect, audit and estimate correlation tables",
	Long: `Work with pair correlation tables.

Subcommands:
  show     - Print the pairs of the configured table
  check    - Audit an authored table for asymmetric or out of range entries
  estimate - Build a table from candle history

Examples:
  fxrisk table show --symbol EURUSD
  fxrisk table check my-table.yaml
  fxrisk table estimate --series EURUSD=eurusd.csv --series GBPUSD=gbpusd.csv --save table.yaml`,
}

var tableShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the pairs of the configured correlation table",
	Args:  cobra.NoArgs,
	RunE:  runTableShow,
}

var tableCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Audit an authored correlation table",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableCheck,
}

var tableEstimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate a correlation table from candle CSVs",
	Args:  cobra.NoArgs,
	RunE:  runTableEstimate,
}

var (
	tableSymbol     string
	tableSeries     map[string]string
	tableMinSamples int
	tableSave       string
)

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.AddCommand(tableShowCmd)
	tableCmd.AddCommand(tableCheckCmd)
	tableCmd.AddCommand(tableEstimateCmd)

	tableShowCmd.Flags().StringVar(&tableSymbol, "symbol", "", "only pairs involving this symbol")
	tableEstimateCmd.Flags().StringToStringVar(&tableSeries, "series", nil, "SYMBOL=candles.csv, repeatable (at least two)")
	tableEstimateCmd.Flags().IntVar(&tableMinSamples, "min-samples", 30, "minimum overlapping returns per pair")
	tableEstimateCmd.Flags().StringVar(&tableSave, "save", "", "write the estimated table to this YAML file")
	tableEstimateCmd.MarkFlagRequired("series")
}

func runTableShow(cmd *cobra.Command, args []string) error {
	t, err := cfg.CorrelationTable()
	if err != nil {
		return fmt.Errorf("correlation table: %w", err)
	}
	return printResult(cmd, filterPairs(t.Pairs(), tableSymbol))
}

func filterPairs(pairs []correlation.Pair, symbol string) []correlation.Pair {
	if symbol == "" {
		return pairs
	}
	symbol = market.Normalize(symbol)
	out := []correlation.Pair{}
	for _, p := range pairs {
		if p.A == symbol || p.B == symbol {
			out = append(out, p)
		}
	}
	return out
}

func runTableCheck(cmd *cobra.Command, args []string) error {
	raw, err := correlation.LoadRawFile(args[0])
	if err != nil {
		return err
	}

	asym := correlation.Asymmetries(raw)
	for _, a := range asym {
		fmt.Fprintf(cmd.OutOrStdout(), "asymmetric: %s\n", a)
	}
	if len(asym) > 0 {
		return fmt.Errorf("%s: %d asymmetric pairs: %w", args[0], len(asym), correlation.ErrAsymmetric)
	}

	t, err := correlation.New(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d symbols, %d pairs\n", args[0], len(t.Symbols()), t.Len())
	return nil
}

func runTableEstimate(cmd *cobra.Command, args []string) error {
	if len(tableSeries) < 2 {
		return fmt.Errorf("need at least two --series, got %d", len(tableSeries))
	}

	symbols := make([]string, 0, len(tableSeries))
	for s := range tableSeries {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	closes := make(map[string][]float64, len(tableSeries))
	for _, s := range symbols {
		candles, err := pricing.LoadCandlesCSV(tableSeries[s])
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
		closes[s] = pricing.Closes(candles)
		appLog.Debug().Str("symbol", s).Int("candles", len(candles)).Msg("loaded series")
	}

	t, err := correlation.Estimate(closes, tableMinSamples)
	if err != nil {
		return fmt.Errorf("estimate: %w", err)
	}
	appLog.Info().Int("pairs", t.Len()).Msg("estimated correlation table")

	if tableSave != "" {
		if err := t.SaveFile(tableSave); err != nil {
			return err
		}
		appLog.Info().Str("path", tableSave).Msg("saved correlation table")
	}
	return printResult(cmd, t.Pairs())
}
