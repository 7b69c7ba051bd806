package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxrisk/indicators"
	"github.com/rustyeddy/fxrisk/internal/service"
	"github.com/rustyeddy/fxrisk/journal"
	"github.com/rustyeddy/fxrisk/pricing"
)

var trailingCmd = &cobra.Command{
	Use:   "trailing",
	Short: "Derive trailing stop settings from ATR",
	Long: `Derive trailing stop activation, trail distance and break-even levels
(in pips) from ATR, volatility profile and market regime.

ATR is given directly with --atr or computed from a candle CSV with
--candles. When candles are used, volatility and regime are classified
from them unless set explicitly.

Examples:
  fxrisk trailing --symbol EURUSD --atr 0.0012 --regime breakout
  fxrisk trailing --symbol USDJPY --candles usdjpy_h1.csv`,
	Args: cobra.NoArgs,
	RunE: runTrailing,
}

var (
	trailingSymbol     string
	trailingATR        float64
	trailingCandles    string
	trailingVolatility string
	trailingRegime     string
	trailingPeriod     int
)

func init() {
	rootCmd.AddCommand(trailingCmd)

	trailingCmd.Flags().StringVarP(&trailingSymbol, "symbol", "s", "", "instrument, e.g. EURUSD (required)")
	trailingCmd.Flags().Float64Var(&trailingATR, "atr", 0, "ATR in price units")
	trailingCmd.Flags().StringVar(&trailingCandles, "candles", "", "candle CSV (time,open,high,low,close)")
	trailingCmd.Flags().StringVar(&trailingVolatility, "volatility", "", "low|normal|high|extreme")
	trailingCmd.Flags().StringVar(&trailingRegime, "regime", "", "trending|breakout|ranging|volatile")
	trailingCmd.Flags().IntVar(&trailingPeriod, "period", indicators.DefaultPeriod, "ATR/ADX period for --candles")
	trailingCmd.MarkFlagRequired("symbol")
	trailingCmd.MarkFlagsOneRequired("atr", "candles")
	trailingCmd.MarkFlagsMutuallyExclusive("atr", "candles")
}

func runTrailing(cmd *cobra.Command, args []string) error {
	req := service.TrailingRequest{
		Symbol:     trailingSymbol,
		ATR:        trailingATR,
		Volatility: trailingVolatility,
		Regime:     trailingRegime,
	}

	if trailingCandles != "" {
		candles, err := pricing.LoadCandlesCSV(trailingCandles)
		if err != nil {
			return err
		}
		snap, err := indicators.Analyze(candles, trailingPeriod)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", trailingCandles, err)
		}
		appLog.Info().
			Float64("atr", snap.ATR).
			Float64("adx", snap.ADX).
			Float64("atr_ratio", snap.Ratio).
			Str("volatility", string(snap.Volatility)).
			Str("regime", string(snap.Regime)).
			Msg("classified candles")

		req.ATR = snap.ATR
		if req.Volatility == "" {
			req.Volatility = string(snap.Volatility)
		}
		if req.Regime == "" {
			req.Regime = string(snap.Regime)
		}
	}

	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	out, entryID, err := svc.Trailing(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("trailing: %w", err)
	}
	logEntry(journal.KindTrailing, entryID)
	return printResult(cmd, out)
}
