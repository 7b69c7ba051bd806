package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxrisk/internal/service"
	"github.com/rustyeddy/fxrisk/journal"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Check a batch of simultaneous signals",
	Long: `Assess total risk, correlation and diversification of signals that
would be opened together, and decide whether the batch is approved.

  account_balance: 10000
  signals:
    - {symbol: EURUSD, direction: BUY, entry_price: 1.1000, stop_loss: 1.0950, position_size: 10000}
    - {symbol: USDJPY, direction: SELL, entry_price: 150.00, stop_loss: 150.50, position_size: 10000}

Example:
  fxrisk signals -f batch.yaml --balance 25000`,
	Args: cobra.NoArgs,
	RunE: runSignals,
}

var (
	signalsFile    string
	signalsBalance float64
)

func init() {
	rootCmd.AddCommand(signalsCmd)

	signalsCmd.Flags().StringVarP(&signalsFile, "file", "f", "", "request file, - for stdin (required)")
	signalsCmd.Flags().Float64Var(&signalsBalance, "balance", 0, "account balance (overrides the request file)")
	signalsCmd.MarkFlagRequired("file")
}

func runSignals(cmd *cobra.Command, args []string) error {
	var req service.SignalsRequest
	if err := readRequest(cmd, signalsFile, &req); err != nil {
		return err
	}
	if cmd.Flags().Changed("balance") {
		req.AccountBalance = signalsBalance
	}

	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	out, entryID, err := svc.Signals(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("signals: %w", err)
	}
	logEntry(journal.KindSignals, entryID)
	return printResult(cmd, out)
}
