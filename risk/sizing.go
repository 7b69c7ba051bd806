package risk

import "math"

// SizePosition scales req.BaseSize by the correlation exposure the new
// position would add. The candidate is always evaluated as a BUY.
//
// The adjusted size never exceeds AccountBalance * MaxRiskPerTrade / LotNotional
// and never drops below MinLotSize; the floor wins when the cap is smaller.
func (e *Engine) SizePosition(req SizingRequest) Sizing {
	maxRisk := req.MaxRiskPerTrade
	if maxRisk <= 0 {
		maxRisk = DefaultMaxRiskPerTrade
	}

	a := e.EvaluateCorrelationRisk(Position{
		Symbol:    req.Symbol,
		Direction: Buy,
		Size:      req.BaseSize,
	}, req.Existing)

	sb := pick(sizingBands, fallbackSizing, a.CorrelationRisk)
	factor, explanation := sb.Factor, sb.Explanation

	if a.DiversificationScore > diversificationBonusAbove {
		factor = math.Min(factor*diversificationBonus, maxReductionFactor)
		explanation = explainDiversity
	}

	// The position limit overrides everything above.
	if len(req.Existing) >= a.MaxPositions {
		factor = positionCapFactor
		explanation = explainPositionCap
	}

	size := math.Min(req.BaseSize*factor, req.AccountBalance*maxRisk/LotNotional)
	size = math.Max(size, MinLotSize)

	return Sizing{
		AdjustedSize:    size,
		ReductionFactor: factor,
		Explanation:     explanation,
	}
}
