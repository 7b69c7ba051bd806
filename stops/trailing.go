package stops

import (
	"math"
	"strings"

	"github.com/rustyeddy/fxrisk/market"
)

type VolatilityProfile string

const (
	VolatilityLow     VolatilityProfile = "low"
	VolatilityNormal  VolatilityProfile = "normal"
	VolatilityHigh    VolatilityProfile = "high"
	VolatilityExtreme VolatilityProfile = "extreme"
)

type Regime string

const (
	RegimeTrending Regime = "trending"
	RegimeBreakout Regime = "breakout"
	RegimeRanging  Regime = "ranging"
	RegimeVolatile Regime = "volatile"
)

// ParseVolatility maps unknown or empty input to VolatilityNormal.
func ParseVolatility(s string) VolatilityProfile {
	switch p := VolatilityProfile(strings.ToLower(strings.TrimSpace(s))); p {
	case VolatilityLow, VolatilityHigh, VolatilityExtreme:
		return p
	}
	return VolatilityNormal
}

func ParseRegime(s string) Regime {
	return Regime(strings.ToLower(strings.TrimSpace(s)))
}

// TrailingConfig levels are in pips.
type TrailingConfig struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	ActivationLevel float64 `json:"activation_level" yaml:"activation_level"`
	TrailDistance   float64 `json:"trail_distance" yaml:"trail_distance"`
	BreakEvenLevel  float64 `json:"break_even_level" yaml:"break_even_level"`
}

// level is max(Floor, atrPips * Mult).
type level struct {
	Floor float64
	Mult  float64
}

func (l level) pips(atrPips float64) float64 {
	return math.Max(l.Floor, atrPips*l.Mult)
}

type regimeParams struct {
	Activation level
	Trail      level
	BreakEven  level
	Enabled    bool
}

var regimes = map[Regime]regimeParams{
	RegimeTrending: {level{20, 1.5}, level{15, 1.0}, level{10, 0.5}, true},
	RegimeBreakout: {level{25, 2.0}, level{20, 1.5}, level{15, 0.75}, true},
	RegimeRanging:  {level{30, 2.5}, level{25, 2.0}, level{20, 1.0}, false},
	RegimeVolatile: {level{40, 3.0}, level{30, 2.5}, level{25, 1.5}, false},
}

var volatilityMultipliers = map[VolatilityProfile]float64{
	VolatilityLow:     0.7,
	VolatilityNormal:  1.0,
	VolatilityHigh:    1.3,
	VolatilityExtreme: 1.6,
}

// DeriveTrailingStopConfig sizes a trailing stop from the ATR of symbol.
// Unknown regimes use the trending parameters. Extreme volatility always
// disables trailing.
func DeriveTrailingStopConfig(symbol string, atr float64, profile VolatilityProfile, regime Regime) TrailingConfig {
	p, ok := regimes[regime]
	if !ok {
		p = regimes[RegimeTrending]
	}
	atrPips := market.ToPips(symbol, atr)

	cfg := TrailingConfig{
		Enabled:         p.Enabled,
		ActivationLevel: p.Activation.pips(atrPips),
		TrailDistance:   p.Trail.pips(atrPips),
		BreakEvenLevel:  p.BreakEven.pips(atrPips),
	}

	mult, ok := volatilityMultipliers[profile]
	if !ok {
		mult = 1.0
	}
	cfg.ActivationLevel *= mult
	cfg.TrailDistance *= mult
	cfg.BreakEvenLevel *= mult
	if profile == VolatilityExtreme {
		cfg.Enabled = false
	}
	return cfg
}
