package indicators

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/fxrisk/pricing"
	"github.com/rustyeddy/fxrisk/stops"
)

const DefaultPeriod = 14

// ATRSeries returns Wilder's Average True Range for every candle past the
// warmup. The result has len(candles)-period entries.
func ATRSeries(candles []pricing.Candle, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < period+1 {
		return nil, fmt.Errorf("not enough candles: need %d, got %d", period+1, len(candles))
	}

	highs, lows, closes := pricing.Series(candles)
	return talib.Atr(highs, lows, closes, period)[period:], nil
}

// ATR returns the most recent Average True Range, in price units.
func ATR(candles []pricing.Candle, period int) (float64, error) {
	s, err := ATRSeries(candles, period)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}

// ADX returns the most recent Average Directional Index (0-100).
func ADX(candles []pricing.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < 2*period {
		return 0, fmt.Errorf("not enough candles: need %d, got %d", 2*period, len(candles))
	}

	highs, lows, closes := pricing.Series(candles)
	adx := talib.Adx(highs, lows, closes, period)
	v := adx[len(adx)-1]
	if math.IsNaN(v) {
		return 0, nil
	}
	return v, nil
}

// ATRRatio compares the latest ATR to its mean over the whole series. A
// value above 1 means volatility is expanding.
func ATRRatio(candles []pricing.Candle, period int) (float64, error) {
	s, err := ATRSeries(candles, period)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(s, nil)
	if mean == 0 {
		return 1, nil
	}
	return s[len(s)-1] / mean, nil
}

func volatilityFor(ratio float64) stops.VolatilityProfile {
	switch {
	case ratio < 0.7:
		return stops.VolatilityLow
	case ratio < 1.3:
		return stops.VolatilityNormal
	case ratio < 1.8:
		return stops.VolatilityHigh
	}
	return stops.VolatilityExtreme
}

func regimeFor(adx, ratio float64) stops.Regime {
	switch {
	case ratio >= 1.8:
		return stops.RegimeVolatile
	case adx >= 25 && ratio >= 1.3:
		return stops.RegimeBreakout
	case adx >= 25:
		return stops.RegimeTrending
	}
	return stops.RegimeRanging
}

// ClassifyVolatility buckets the current ATR against its own history.
func ClassifyVolatility(candles []pricing.Candle, period int) (stops.VolatilityProfile, error) {
	ratio, err := ATRRatio(candles, period)
	if err != nil {
		return "", err
	}
	return volatilityFor(ratio), nil
}

// ClassifyRegime combines trend strength (ADX) with volatility expansion.
func ClassifyRegime(candles []pricing.Candle, period int) (stops.Regime, error) {
	ratio, err := ATRRatio(candles, period)
	if err != nil {
		return "", err
	}
	adx, err := ADX(candles, period)
	if err != nil {
		return "", err
	}
	return regimeFor(adx, ratio), nil
}

// Snapshot is everything the stop derivations need from price history.
type Snapshot struct {
	ATR        float64                 `json:"atr" yaml:"atr"`
	ADX        float64                 `json:"adx" yaml:"adx"`
	Ratio      float64                 `json:"atr_ratio" yaml:"atr_ratio"`
	Volatility stops.VolatilityProfile `json:"volatility" yaml:"volatility"`
	Regime     stops.Regime            `json:"regime" yaml:"regime"`
}

func Analyze(candles []pricing.Candle, period int) (Snapshot, error) {
	atr, err := ATR(candles, period)
	if err != nil {
		return Snapshot{}, err
	}
	ratio, err := ATRRatio(candles, period)
	if err != nil {
		return Snapshot{}, err
	}
	adx, err := ADX(candles, period)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ATR:        atr,
		ADX:        adx,
		Ratio:      ratio,
		Volatility: volatilityFor(ratio),
		Regime:     regimeFor(adx, ratio),
	}, nil
}
