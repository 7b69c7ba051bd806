package risk

import (
	"math"

	"github.com/rustyeddy/fxrisk/correlation"
)

// Engine scores correlation exposure against a fixed correlation table.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	table correlation.Table
}

func NewEngine(table correlation.Table) *Engine {
	return &Engine{table: table}
}

var defaultEngine = NewEngine(correlation.Default())

// Default returns an engine over the built-in correlation table.
func Default() *Engine {
	return defaultEngine
}

func (e *Engine) Table() correlation.Table {
	return e.table
}

// EffectiveCorrelation is how strongly two positions move together once
// direction is taken into account. Positive correlation counts for same
// direction positions, negative correlation for opposite ones. Anything at
// or below HighCorrelationThreshold in absolute value is independent.
func EffectiveCorrelation(corr float64, a, b Direction) float64 {
	if math.Abs(corr) <= HighCorrelationThreshold {
		return 0
	}
	same := a == b
	switch {
	case corr > 0 && same:
		return corr
	case corr < 0 && !same:
		return -corr
	}
	return 0
}

// EvaluateCorrelationRisk measures how much newPos adds to the correlation
// exposure of existing.
func (e *Engine) EvaluateCorrelationRisk(newPos Position, existing []Position) Assessment {
	var total, maxCorr, sum float64

	for _, pos := range existing {
		corr := e.table.Lookup(pos.Symbol, newPos.Symbol)
		eff := EffectiveCorrelation(corr, newPos.Direction, pos.Direction)
		if eff == 0 {
			continue
		}
		total += (newPos.Size + pos.Size) * eff
		sum += eff
		if eff > maxCorr {
			maxCorr = eff
		}
	}

	avg := 0.0
	if len(existing) > 0 {
		avg = sum / float64(len(existing))
	}
	div := diversification(avg)

	return Assessment{
		TotalRisk:            total,
		CorrelationRisk:      maxCorr,
		DiversificationScore: div,
		MaxPositions:         MaxPositionsFor(div),
		RecommendedReduction: ReductionFor(maxCorr),
	}
}

func diversification(avgCorrelation float64) float64 {
	return math.Max(0, 100-100*avgCorrelation)
}
