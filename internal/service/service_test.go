package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxrisk/journal"
	"github.com/rustyeddy/fxrisk/risk"
	"github.com/rustyeddy/fxrisk/stops"
)

func newTestService(t *testing.T) (*Service, *journal.SQLite) {
	t.Helper()

	j, err := journal.NewSQLite(filepath.Join(t.TempDir(), "fxrisk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return New(Options{
		Journal:         j,
		Log:             zerolog.Nop(),
		AccountBalance:  100000,
		MaxRiskPerTrade: 0.02,
	}), j
}

func TestEvaluateNormalizesAndRecords(t *testing.T) {
	t.Parallel()

	s, j := newTestService(t)
	ctx := context.Background()

	got, entryID, err := s.Evaluate(ctx, EvaluateRequest{
		Position: risk.Position{Symbol: "gbp_usd", Direction: "long", Size: 1},
		Existing: []risk.Position{{Symbol: "EUR/USD", Direction: "BUY", Size: 1}},
	})
	require.NoError(t, err)

	want := risk.Default().EvaluateCorrelationRisk(
		risk.Position{Symbol: "GBPUSD", Direction: risk.Buy, Size: 1},
		[]risk.Position{{Symbol: "EURUSD", Direction: risk.Buy, Size: 1}},
	)
	assert.Equal(t, want, got)
	require.NotEmpty(t, entryID)

	e, err := j.Get(ctx, entryID)
	require.NoError(t, err)
	assert.Equal(t, journal.KindEvaluate, e.Kind)
	assert.Equal(t, "GBPUSD", e.Symbol)
	assert.Contains(t, string(e.Request), `"direction":"BUY"`)
	assert.Contains(t, string(e.Result), `"correlation_risk":0.73`)
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	t.Parallel()

	s := New(Options{Log: zerolog.Nop()})
	ctx := context.Background()

	tests := []struct {
		name string
		req  EvaluateRequest
	}{
		{"missing symbol", EvaluateRequest{Position: risk.Position{Direction: risk.Buy}}},
		{"bad direction", EvaluateRequest{Position: risk.Position{Symbol: "EURUSD", Direction: "UP"}}},
		{"negative size", EvaluateRequest{Position: risk.Position{Symbol: "EURUSD", Direction: risk.Buy, Size: -1}}},
		{"bad existing", EvaluateRequest{
			Position: risk.Position{Symbol: "EURUSD", Direction: risk.Buy},
			Existing: []risk.Position{{Symbol: "GBPUSD", Direction: "sideways"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Evaluate(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestSizeAppliesAccountDefaults(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)

	got, _, err := s.Size(context.Background(), risk.SizingRequest{BaseSize: 100, Symbol: "EURUSD"})
	require.NoError(t, err)

	// 100000 * 0.02 / 100000 caps the size at 0.02 lots.
	assert.InDelta(t, 0.02, got.AdjustedSize, 1e-12)

	_, _, err = s.Size(context.Background(), risk.SizingRequest{Symbol: "EURUSD"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSignalsDoesNotMutateRequest(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	req := SignalsRequest{Signals: []risk.Signal{
		{Symbol: "eur_usd", Direction: "buy", EntryPrice: 1.1, StopLoss: 1.09, PositionSize: 1},
	}}

	got, entryID, err := s.Signals(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, entryID)
	assert.Equal(t, "eur_usd", req.Signals[0].Symbol)
	assert.Equal(t, 100.0, got.DiversificationScore)
	assert.NotNil(t, got.Recommendations)

	_, _, err = s.Signals(context.Background(), SignalsRequest{Signals: []risk.Signal{{Symbol: "EURUSD", Direction: "?"}}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestTrailingAndSRStop(t *testing.T) {
	t.Parallel()

	s, j := newTestService(t)
	ctx := context.Background()

	tc, _, err := s.Trailing(ctx, TrailingRequest{Symbol: "USD_JPY", ATR: 0.5, Volatility: "normal", Regime: "trending"})
	require.NoError(t, err)
	assert.Equal(t, stops.DeriveTrailingStopConfig("USDJPY", 0.5, stops.VolatilityNormal, stops.RegimeTrending), tc)

	sr, _, err := s.SRStop(ctx, SRStopRequest{
		Symbol:    "EURUSD",
		Entry:     1.1000,
		Direction: "sell",
		ATR:       0.0010,
	})
	require.NoError(t, err)
	assert.Equal(t, stops.ConfidenceNoLevels, sr.Confidence)

	_, _, err = s.SRStop(ctx, SRStopRequest{Symbol: "EURUSD", Entry: 0, Direction: risk.Buy})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, _, err = s.Trailing(ctx, TrailingRequest{ATR: 1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	entries, err := j.List(ctx, journal.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	kinds := []journal.Kind{entries[0].Kind, entries[1].Kind}
	assert.ElementsMatch(t, []journal.Kind{journal.KindTrailing, journal.KindSRStop}, kinds)
}

func TestNopJournalReturnsNoID(t *testing.T) {
	t.Parallel()

	s := New(Options{Log: zerolog.Nop()})
	_, entryID, err := s.Trailing(context.Background(), TrailingRequest{Symbol: "EURUSD", ATR: 0.001})
	require.NoError(t, err)
	assert.Empty(t, entryID)
	assert.Same(t, risk.Default(), s.Engine())
}
