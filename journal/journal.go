// journal/journal.go
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("journal entry not found")

type Kind string

const (
	KindEvaluate Kind = "evaluate"
	KindSize     Kind = "size"
	KindSignals  Kind = "signals"
	KindTrailing Kind = "trailing"
	KindSRStop   Kind = "srstop"
)

// Entry is one recorded engine call: what was asked and what came back.
type Entry struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Symbol    string          `json:"symbol"`
	CreatedAt time.Time       `json:"created_at"`
	Summary   string          `json:"summary"`
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
}

// NewEntry marshals req and res into an Entry. ID and CreatedAt are left
// for the journal to assign.
func NewEntry(kind Kind, symbol, summary string, req, res any) (Entry, error) {
	rq, err := json.Marshal(req)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal request: %w", err)
	}
	rs, err := json.Marshal(res)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal result: %w", err)
	}
	return Entry{
		Kind:    kind,
		Symbol:  symbol,
		Summary: summary,
		Request: rq,
		Result:  rs,
	}, nil
}

type Filter struct {
	Kind  Kind
	Limit int
}

type Journal interface {
	Record(ctx context.Context, e Entry) (string, error)
	Get(ctx context.Context, id string) (Entry, error)
	List(ctx context.Context, f Filter) ([]Entry, error)
	Close() error
}

// Nop discards everything. It is used when journaling is disabled.
type Nop struct{}

func (Nop) Record(context.Context, Entry) (string, error) { return "", nil }

func (Nop) Get(_ context.Context, id string) (Entry, error) {
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (Nop) List(context.Context, Filter) ([]Entry, error) { return nil, nil }

func (Nop) Close() error { return nil }
