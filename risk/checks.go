package risk

import "fmt"

const (
	maxTotalRiskWarn    = 0.10
	maxCorrelationWarn  = 0.7
	maxSignalsWarn      = 8
	minDiversification  = 50.0
	approveRiskScore    = 80.0
	approveTotalRisk    = 0.15
	approveCorrelation  = 0.8
	weightTotalRisk     = 500.0
	weightCorrelation   = 30.0
	weightDiversityLoss = 0.5
)

// AssessMultiSignal scores a batch of signals that would be opened together.
func (e *Engine) AssessMultiSignal(signals []Signal, accountBalance float64) MultiSignalAssessment {
	var riskFrac float64
	for _, s := range signals {
		riskFrac += RiskFraction(PlannedRisk(s.EntryPrice, s.StopLoss, s.PositionSize), accountBalance)
	}

	var qualifying, allPairs float64
	var nQualifying, nPairs int
	for i := 0; i < len(signals); i++ {
		for j := i + 1; j < len(signals); j++ {
			corr := e.table.Lookup(signals[i].Symbol, signals[j].Symbol)
			eff := EffectiveCorrelation(corr, signals[i].Direction, signals[j].Direction)
			nPairs++
			allPairs += eff
			if eff > 0 {
				qualifying += eff
				nQualifying++
			}
		}
	}

	corrRisk := 0.0
	if nQualifying > 0 {
		corrRisk = qualifying / float64(nQualifying)
	}
	div := 100.0
	if nPairs > 0 {
		div = diversification(allPairs / float64(nPairs))
	}

	m := MultiSignalAssessment{
		TotalRisk:            riskFrac * 100,
		CorrelationRisk:      corrRisk,
		DiversificationScore: div,
		RiskScore:            riskFrac*weightTotalRisk + corrRisk*weightCorrelation + (100-div)*weightDiversityLoss,
		Recommendations:      []Recommendation{},
	}

	if riskFrac > maxTotalRiskWarn {
		m.add("TOTAL_RISK_HIGH",
			fmt.Sprintf("total risk %.2f%% exceeds %.0f%% of account - reduce position sizes",
				100*riskFrac, 100*maxTotalRiskWarn))
	}
	if corrRisk > maxCorrelationWarn {
		m.add("CORRELATION_HIGH",
			fmt.Sprintf("average signal correlation %.2f above %.2f - spread across uncorrelated pairs",
				corrRisk, maxCorrelationWarn))
	}
	if len(signals) > maxSignalsWarn {
		m.add("TOO_MANY_SIGNALS",
			fmt.Sprintf("%d simultaneous signals exceeds %d - keep only the strongest setups",
				len(signals), maxSignalsWarn))
	}
	if div < minDiversification {
		m.add("LOW_DIVERSIFICATION",
			fmt.Sprintf("diversification score %.0f below %.0f - add uncorrelated pairs",
				div, minDiversification))
	}

	m.Approved = m.RiskScore < approveRiskScore &&
		riskFrac < approveTotalRisk &&
		corrRisk < approveCorrelation
	return m
}
