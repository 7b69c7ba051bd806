package stops

import (
	"math"

	"github.com/rustyeddy/fxrisk/market"
	"github.com/rustyeddy/fxrisk/risk"
)

const (
	minLevelDistancePips = 15.0
	maxLevelDistanceATR  = 4.0
	levelBufferPips      = 3.0
	fallbackATR          = 2.5

	ConfidenceLevel    = 0.8
	ConfidenceFallback = 0.6
	ConfidenceNoLevels = 0.5
)

// SRStop is a stop anchored on the nearest support or resistance level.
// Level is 0 when no level on the protective side of entry was found.
type SRStop struct {
	DynamicStop float64 `json:"dynamic_stop" yaml:"dynamic_stop"`
	Level       float64 `json:"level" yaml:"level"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// DeriveSupportResistanceStop places a BUY stop just under the nearest support
// (a SELL stop just over the nearest resistance) when that level is between
// 15 pips and 4 ATR away. Otherwise it falls back to an ATR based stop.
func DeriveSupportResistanceStop(entry float64, dir risk.Direction, supports, resistances []float64, atr float64, symbol string) SRStop {
	pip := market.PipSize(symbol)
	fallbackDist := math.Max(minLevelDistancePips*pip, fallbackATR*atr)

	// sign is +1 when the stop sits below entry.
	sign := 1.0
	levels := supports
	if dir == risk.Sell {
		sign = -1.0
		levels = resistances
	}

	out := SRStop{
		DynamicStop: entry - sign*fallbackDist,
		Confidence:  ConfidenceFallback,
	}
	if len(levels) == 0 {
		out.Confidence = ConfidenceNoLevels
	}

	nearest, found := nearestLevel(entry, sign, levels)
	if found {
		out.Level = nearest
		distPips := toPipettes(math.Abs(entry-nearest) / pip)
		maxPips := toPipettes(maxLevelDistanceATR * atr / pip)
		if distPips >= minLevelDistancePips && distPips <= maxPips {
			out.DynamicStop = nearest - sign*levelBufferPips*pip
			out.Confidence = ConfidenceLevel
		}
	}

	out.DynamicStop = market.RoundPrice(symbol, out.DynamicStop)
	return out
}

// toPipettes rounds a pip distance to a tenth of a pip so prices that sit
// exactly on a band edge are not pushed out of it by float error.
func toPipettes(pips float64) float64 {
	return math.Round(pips*10) / 10
}

// nearestLevel returns the level closest to entry on the stop side: the
// highest level below entry when sign is +1, the lowest above when -1.
func nearestLevel(entry, sign float64, levels []float64) (float64, bool) {
	var best float64
	found := false
	for _, l := range levels {
		if sign*(entry-l) <= 0 {
			continue
		}
		if !found || sign*(l-best) > 0 {
			best = l
			found = true
		}
	}
	return best, found
}
