package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxrisk/internal/service"
	"github.com/rustyeddy/fxrisk/journal"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a new position against open positions",
	Long: `Evaluate the correlation risk a new position adds to an open book.

The request file holds the new position and the existing ones:

  position:
    symbol: EURUSD
    direction: BUY
    size: 1
  existing:
    - {symbol: GBPUSD, direction: BUY, size: 1}
    - {symbol: USDCHF, direction: SELL, size: 0.5}

Example:
  fxrisk evaluate -f book.yaml`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var evaluateFile string

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFile, "file", "f", "", "request file, - for stdin (required)")
	evaluateCmd.MarkFlagRequired("file")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	var req service.EvaluateRequest
	if err := readRequest(cmd, evaluateFile, &req); err != nil {
		return err
	}

	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	out, entryID, err := svc.Evaluate(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	logEntry(journal.KindEvaluate, entryID)
	return printResult(cmd, out)
}
