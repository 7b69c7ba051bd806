package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxrisk/journal"
	"github.com/rustyeddy/fxrisk/risk"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Correlation adjusted position size",
	Long: `Scale a base position size by the correlation exposure it would add.

The result is capped at account_balance * max_risk_per_trade / 100000 lots
and never drops below 0.01 lots. Balance and risk limit default to the
account section of the config.

  base_size: 1
  symbol: AUDUSD
  existing:
    - {symbol: NZDUSD, direction: BUY, size: 1}

Example:
  fxrisk size -f size.yaml -o json`,
	Args: cobra.NoArgs,
	RunE: runSize,
}

var sizeFile string

func init() {
	rootCmd.AddCommand(sizeCmd)

	sizeCmd.Flags().StringVarP(&sizeFile, "file", "f", "", "request file, - for stdin (required)")
	sizeCmd.MarkFlagRequired("file")
}

func runSize(cmd *cobra.Command, args []string) error {
	var req risk.SizingRequest
	if err := readRequest(cmd, sizeFile, &req); err != nil {
		return err
	}

	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	out, entryID, err := svc.Size(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("size: %w", err)
	}
	logEntry(journal.KindSize, entryID)
	return printResult(cmd, out)
}
