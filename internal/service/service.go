package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxrisk/journal"
	"github.com/rustyeddy/fxrisk/market"
	"github.com/rustyeddy/fxrisk/risk"
	"github.com/rustyeddy/fxrisk/stops"
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// EvaluateRequest scores Position against the open book.
type EvaluateRequest struct {
	Position risk.Position   `json:"position" yaml:"position"`
	Existing []risk.Position `json:"existing" yaml:"existing"`
}

// SignalsRequest is a batch of signals checked together.
type SignalsRequest struct {
	Signals        []risk.Signal `json:"signals" yaml:"signals"`
	AccountBalance float64       `json:"account_balance" yaml:"account_balance"`
}

type TrailingRequest struct {
	Symbol     string  `json:"symbol" yaml:"symbol"`
	ATR        float64 `json:"atr" yaml:"atr"`
	Volatility string  `json:"volatility" yaml:"volatility"`
	Regime     string  `json:"regime" yaml:"regime"`
}

type SRStopRequest struct {
	Symbol      string         `json:"symbol" yaml:"symbol"`
	Entry       float64        `json:"entry" yaml:"entry"`
	Direction   risk.Direction `json:"direction" yaml:"direction"`
	Supports    []float64      `json:"supports" yaml:"supports"`
	Resistances []float64      `json:"resistances" yaml:"resistances"`
	ATR         float64        `json:"atr" yaml:"atr"`
}

type Options struct {
	Engine  *risk.Engine
	Journal journal.Journal
	Log     zerolog.Logger

	// Used when a request leaves the balance or risk limit at zero.
	AccountBalance  float64
	MaxRiskPerTrade float64
}

// Service validates requests, runs them through the engine and records
// each call in the journal. A journal failure is logged, never returned.
type Service struct {
	engine  *risk.Engine
	journal journal.Journal
	log     zerolog.Logger

	balance float64
	maxRisk float64
}

func New(opts Options) *Service {
	s := &Service{
		engine:  opts.Engine,
		journal: opts.Journal,
		log:     opts.Log.With().Str("component", "service").Logger(),
		balance: opts.AccountBalance,
		maxRisk: opts.MaxRiskPerTrade,
	}
	if s.engine == nil {
		s.engine = risk.Default()
	}
	if s.journal == nil {
		s.journal = journal.Nop{}
	}
	return s
}

func (s *Service) Engine() *risk.Engine {
	return s.engine
}

func (s *Service) Journal() journal.Journal {
	return s.journal
}

func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (risk.Assessment, string, error) {
	pos, err := normalizePosition(req.Position)
	if err != nil {
		return risk.Assessment{}, "", err
	}
	existing, err := normalizePositions(req.Existing)
	if err != nil {
		return risk.Assessment{}, "", err
	}
	req.Position, req.Existing = pos, existing

	a := s.engine.EvaluateCorrelationRisk(pos, existing)
	summary := fmt.Sprintf("correlation %.2f, diversification %.0f, max positions %d",
		a.CorrelationRisk, a.DiversificationScore, a.MaxPositions)
	return a, s.record(ctx, journal.KindEvaluate, pos.Symbol, summary, req, a), nil
}

func (s *Service) Size(ctx context.Context, req risk.SizingRequest) (risk.Sizing, string, error) {
	if strings.TrimSpace(req.Symbol) == "" {
		return risk.Sizing{}, "", fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	if req.BaseSize <= 0 {
		return risk.Sizing{}, "", fmt.Errorf("%w: base_size must be positive", ErrInvalidRequest)
	}
	existing, err := normalizePositions(req.Existing)
	if err != nil {
		return risk.Sizing{}, "", err
	}
	req.Symbol = market.Normalize(req.Symbol)
	req.Existing = existing
	if req.AccountBalance == 0 {
		req.AccountBalance = s.balance
	}
	if req.MaxRiskPerTrade == 0 {
		req.MaxRiskPerTrade = s.maxRisk
	}

	out := s.engine.SizePosition(req)
	summary := fmt.Sprintf("%.2f -> %.2f lots (%s)", req.BaseSize, out.AdjustedSize, out.Explanation)
	return out, s.record(ctx, journal.KindSize, req.Symbol, summary, req, out), nil
}

func (s *Service) Signals(ctx context.Context, req SignalsRequest) (risk.MultiSignalAssessment, string, error) {
	signals := make([]risk.Signal, len(req.Signals))
	for i, sig := range req.Signals {
		if strings.TrimSpace(sig.Symbol) == "" {
			return risk.MultiSignalAssessment{}, "", fmt.Errorf("%w: signals[%d]: symbol is required", ErrInvalidRequest, i)
		}
		dir, err := risk.ParseDirection(string(sig.Direction))
		if err != nil {
			return risk.MultiSignalAssessment{}, "", fmt.Errorf("%w: signals[%d]: %v", ErrInvalidRequest, i, err)
		}
		sig.Symbol = market.Normalize(sig.Symbol)
		sig.Direction = dir
		signals[i] = sig
	}
	req.Signals = signals
	if req.AccountBalance == 0 {
		req.AccountBalance = s.balance
	}

	out := s.engine.AssessMultiSignal(req.Signals, req.AccountBalance)
	verdict := "rejected"
	if out.Approved {
		verdict = "approved"
	}
	summary := fmt.Sprintf("%d signals, score %.1f, %s", len(req.Signals), out.RiskScore, verdict)
	return out, s.record(ctx, journal.KindSignals, batchSymbol(req.Signals), summary, req, out), nil
}

func (s *Service) Trailing(ctx context.Context, req TrailingRequest) (stops.TrailingConfig, string, error) {
	if strings.TrimSpace(req.Symbol) == "" {
		return stops.TrailingConfig{}, "", fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	if req.ATR < 0 {
		return stops.TrailingConfig{}, "", fmt.Errorf("%w: atr must not be negative", ErrInvalidRequest)
	}
	req.Symbol = market.Normalize(req.Symbol)

	out := stops.DeriveTrailingStopConfig(req.Symbol, req.ATR, stops.ParseVolatility(req.Volatility), stops.ParseRegime(req.Regime))
	summary := fmt.Sprintf("activate %.1f, trail %.1f, break-even %.1f pips", out.ActivationLevel, out.TrailDistance, out.BreakEvenLevel)
	return out, s.record(ctx, journal.KindTrailing, req.Symbol, summary, req, out), nil
}

func (s *Service) SRStop(ctx context.Context, req SRStopRequest) (stops.SRStop, string, error) {
	if strings.TrimSpace(req.Symbol) == "" {
		return stops.SRStop{}, "", fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	if req.Entry <= 0 {
		return stops.SRStop{}, "", fmt.Errorf("%w: entry must be positive", ErrInvalidRequest)
	}
	dir, err := risk.ParseDirection(string(req.Direction))
	if err != nil {
		return stops.SRStop{}, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Symbol = market.Normalize(req.Symbol)
	req.Direction = dir

	out := stops.DeriveSupportResistanceStop(req.Entry, dir, req.Supports, req.Resistances, req.ATR, req.Symbol)
	summary := fmt.Sprintf("%s stop %.5f (confidence %.1f)", dir, out.DynamicStop, out.Confidence)
	return out, s.record(ctx, journal.KindSRStop, req.Symbol, summary, req, out), nil
}

func (s *Service) record(ctx context.Context, kind journal.Kind, symbol, summary string, req, res any) string {
	e, err := journal.NewEntry(kind, symbol, summary, req, res)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("journal entry not built")
		return ""
	}
	entryID, err := s.journal.Record(ctx, e)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("journal write failed")
		return ""
	}
	s.log.Debug().
		Str("kind", string(kind)).
		Str("symbol", symbol).
		Str("entry_id", entryID).
		Msg(summary)
	return entryID
}

func normalizePosition(p risk.Position) (risk.Position, error) {
	if strings.TrimSpace(p.Symbol) == "" {
		return p, fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	dir, err := risk.ParseDirection(string(p.Direction))
	if err != nil {
		return p, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, p.Symbol, err)
	}
	if p.Size < 0 {
		return p, fmt.Errorf("%w: %s: size must not be negative", ErrInvalidRequest, p.Symbol)
	}
	p.Symbol = market.Normalize(p.Symbol)
	p.Direction = dir
	return p, nil
}

func normalizePositions(ps []risk.Position) ([]risk.Position, error) {
	out := make([]risk.Position, 0, len(ps))
	for _, p := range ps {
		n, err := normalizePosition(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// batchSymbol labels a signal batch in the journal.
func batchSymbol(signals []risk.Signal) string {
	syms := make([]string, 0, len(signals))
	for _, s := range signals {
		syms = append(syms, s.Symbol)
	}
	return strings.Join(syms, ",")
}
