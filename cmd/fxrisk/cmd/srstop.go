package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxrisk/internal/service"
	"github.com/rustyeddy/fxrisk/journal"
)

var srstopCmd = &cobra.Command{
	Use:   "srstop",
	Short: "Place a stop beyond the nearest support or resistance",
	Long: `Anchor a stop 3 pips beyond the nearest support (BUY) or resistance
(SELL) when it is between 15 pips and 4 ATR from entry, otherwise fall back
to an ATR based distance.

  symbol: EURUSD
  entry: 1.1000
  direction: BUY
  supports: [1.0970, 1.0900]
  resistances: [1.1050]
  atr: 0.0020

Example:
  fxrisk srstop -f levels.yaml`,
	Args: cobra.NoArgs,
	RunE: runSRStop,
}

var srstopFile string

func init() {
	rootCmd.AddCommand(srstopCmd)

	srstopCmd.Flags().StringVarP(&srstopFile, "file", "f", "", "request file, - for stdin (required)")
	srstopCmd.MarkFlagRequired("file")
}

func runSRStop(cmd *cobra.Command, args []string) error {
	var req service.SRStopRequest
	if err := readRequest(cmd, srstopFile, &req); err != nil {
		return err
	}

	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	out, entryID, err := svc.SRStop(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("srstop: %w", err)
	}
	logEntry(journal.KindSRStop, entryID)
	return printResult(cmd, out)
}
