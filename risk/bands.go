package risk

// A band maps a value strictly above Above to Value. Band lists are ordered
// from the highest threshold down; the first match wins and the final entry
// is the fallback.
type band[T any] struct {
	Above float64
	Value T
}

func pick[T any](bands []band[T], fallback T, v float64) T {
	for _, b := range bands {
		if v > b.Above {
			return b.Value
		}
	}
	return fallback
}

// HighCorrelationThreshold is the absolute correlation a pair must exceed
// before it is treated as moving together.
const HighCorrelationThreshold = 0.6

// LotNotional is the base currency amount of one standard lot.
const LotNotional = 100000.0

const (
	DefaultMaxRiskPerTrade = 0.02
	MinLotSize             = 0.01
)

var maxPositionBands = []band[int]{
	{Above: 80, Value: 8},
	{Above: 60, Value: 6},
	{Above: 40, Value: 4},
}

const fallbackMaxPositions = 3

// MaxPositionsFor returns the recommended position count for a
// diversification score.
func MaxPositionsFor(diversification float64) int {
	return pick(maxPositionBands, fallbackMaxPositions, diversification)
}

var reductionBands = []band[float64]{
	{Above: 0.8, Value: 0.5},
	{Above: 0.7, Value: 0.3},
	{Above: 0.6, Value: 0.2},
}

// ReductionFor returns the fraction to cut for a maximum effective correlation.
func ReductionFor(correlation float64) float64 {
	return pick(reductionBands, 0, correlation)
}

type sizingBand struct {
	Factor      float64
	Explanation string
}

const (
	explainHigh        = "High correlation with existing positions - position size reduced by 60%"
	explainElevated    = "Elevated correlation with existing positions - position size reduced by 40%"
	explainModerate    = "Moderate correlation with existing positions - position size reduced by 20%"
	explainNone        = "No significant correlation with existing positions - full position size"
	explainDiversity   = "Well diversified portfolio - position size increased by up to 20%"
	explainPositionCap = "Maximum recommended positions reached - position size reduced by 70%"
)

var sizingBands = []band[sizingBand]{
	{Above: 0.8, Value: sizingBand{0.4, explainHigh}},
	{Above: 0.7, Value: sizingBand{0.6, explainElevated}},
	{Above: 0.6, Value: sizingBand{0.8, explainModerate}},
}

var fallbackSizing = sizingBand{1.0, explainNone}

const (
	diversificationBonusAbove = 80.0
	diversificationBonus      = 1.2
	maxReductionFactor        = 1.2
	positionCapFactor         = 0.3
)
