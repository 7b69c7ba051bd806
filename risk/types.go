package risk

import (
	"fmt"
	"strings"
)

type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// ParseDirection accepts BUY/SELL in any case, plus LONG/SHORT.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "LONG":
		return Buy, nil
	case "SELL", "SHORT":
		return Sell, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Position is an open or proposed position, sized in lots.
type Position struct {
	Symbol    string    `json:"symbol" yaml:"symbol"`
	Direction Direction `json:"direction" yaml:"direction"`
	Size      float64   `json:"size" yaml:"size"`
}

// Assessment is the correlation exposure of a new position against a book.
type Assessment struct {
	TotalRisk            float64 `json:"total_risk" yaml:"total_risk"`
	CorrelationRisk      float64 `json:"correlation_risk" yaml:"correlation_risk"`
	DiversificationScore float64 `json:"diversification_score" yaml:"diversification_score"`
	MaxPositions         int     `json:"max_positions" yaml:"max_positions"`
	RecommendedReduction float64 `json:"recommended_reduction" yaml:"recommended_reduction"`
}

// SizingRequest asks for a correlation adjusted size for BaseSize lots of Symbol.
type SizingRequest struct {
	BaseSize        float64    `json:"base_size" yaml:"base_size"`
	Symbol          string     `json:"symbol" yaml:"symbol"`
	Existing        []Position `json:"existing" yaml:"existing"`
	AccountBalance  float64    `json:"account_balance" yaml:"account_balance"`
	MaxRiskPerTrade float64    `json:"max_risk_per_trade,omitempty" yaml:"max_risk_per_trade,omitempty"`
}

type Sizing struct {
	AdjustedSize    float64 `json:"adjusted_size" yaml:"adjusted_size"`
	ReductionFactor float64 `json:"reduction_factor" yaml:"reduction_factor"`
	Explanation     string  `json:"explanation" yaml:"explanation"`
}

// Signal is a proposed trade with its protective stop.
type Signal struct {
	Symbol       string    `json:"symbol" yaml:"symbol"`
	Direction    Direction `json:"direction" yaml:"direction"`
	EntryPrice   float64   `json:"entry_price" yaml:"entry_price"`
	StopLoss     float64   `json:"stop_loss" yaml:"stop_loss"`
	PositionSize float64   `json:"position_size" yaml:"position_size"`
}

type Recommendation struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// MultiSignalAssessment scores a batch of simultaneous signals.
// TotalRisk is a percentage of the account.
type MultiSignalAssessment struct {
	TotalRisk            float64          `json:"total_risk" yaml:"total_risk"`
	CorrelationRisk      float64          `json:"correlation_risk" yaml:"correlation_risk"`
	DiversificationScore float64          `json:"diversification_score" yaml:"diversification_score"`
	RiskScore            float64          `json:"risk_score" yaml:"risk_score"`
	Recommendations      []Recommendation `json:"recommendations" yaml:"recommendations"`
	Approved             bool             `json:"approved" yaml:"approved"`
}

func (m *MultiSignalAssessment) add(code, msg string) {
	m.Recommendations = append(m.Recommendations, Recommendation{Code: code, Message: msg})
}
