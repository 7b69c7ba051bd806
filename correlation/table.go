package correlation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rustyeddy/fxrisk/market"
)

var (
	ErrAsymmetric = errors.New("asymmetric correlation entry")
	ErrOutOfRange = errors.New("correlation out of range [-1, 1]")
	ErrDuplicate  = errors.New("conflicting duplicate correlation entry")
)

// symmetryTolerance is how far A->B and B->A may drift apart before the
// pair is reported as asymmetric.
const symmetryTolerance = 1e-9

// Table is an immutable, symmetric symbol -> symbol -> coefficient lookup.
// The zero value is an empty table where every pair is uncorrelated.
type Table struct {
	m map[string]map[string]float64
}

// Pair is one undirected entry of a table.
type Pair struct {
	A           string  `json:"a" yaml:"a"`
	B           string  `json:"b" yaml:"b"`
	Correlation float64 `json:"correlation" yaml:"correlation"`
}

// Asymmetry describes a pair whose two directions disagree.
type Asymmetry struct {
	A       string  `json:"a" yaml:"a"`
	B       string  `json:"b" yaml:"b"`
	Forward float64 `json:"forward" yaml:"forward"`
	Reverse float64 `json:"reverse" yaml:"reverse"`
}

func (a Asymmetry) String() string {
	return fmt.Sprintf("%s->%s %.4f vs %s->%s %.4f", a.A, a.B, a.Forward, a.B, a.A, a.Reverse)
}

// New builds a Table from an authored mapping. Symbols are normalized and
// missing reverse entries are mirrored. Conflicting reverse entries,
// conflicting spellings of the same pair and coefficients outside [-1, 1]
// are rejected.
//
// A symbol has no correlation with itself unless the mapping authors one,
// e.g. EURUSD: {EURUSD: 1} to make stacked positions count.
func New(raw map[string]map[string]float64) (Table, error) {
	norm, err := normalize(raw)
	if err != nil {
		return Table{}, err
	}
	if asym := asymmetries(norm); len(asym) > 0 {
		return Table{}, fmt.Errorf("%w: %s", ErrAsymmetric, asym[0])
	}

	m := make(map[string]map[string]float64)
	set := func(a, b string, v float64) {
		if m[a] == nil {
			m[a] = make(map[string]float64)
		}
		m[a][b] = v
	}
	for a, row := range norm {
		for b, v := range row {
			set(a, b, v)
			set(b, a, v)
		}
	}
	return Table{m: m}, nil
}

// MustNew is New for tables known to be valid at compile time.
func MustNew(raw map[string]map[string]float64) Table {
	t, err := New(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Asymmetries lists every pair of raw where both directions are authored
// and disagree. The result is sorted for stable output.
func Asymmetries(raw map[string]map[string]float64) []Asymmetry {
	norm, _ := normalize(raw)
	return asymmetries(norm)
}

// normalize rewrites raw with normalized symbols, visiting keys in sorted
// order. Two spellings of the same directed pair must agree. The first
// problem found is returned along with everything normalized so far.
func normalize(raw map[string]map[string]float64) (map[string]map[string]float64, error) {
	norm := make(map[string]map[string]float64)
	spelled := make(map[[2]string][2]string)

	for _, a := range sortedKeys(raw) {
		na := market.Normalize(a)
		row := raw[a]
		for _, b := range sortedKeys(row) {
			nb := market.Normalize(b)
			v := row[b]
			if math.IsNaN(v) || v < -1 || v > 1 {
				return norm, fmt.Errorf("%w: %s/%s = %v", ErrOutOfRange, na, nb, v)
			}
			if norm[na] == nil {
				norm[na] = make(map[string]float64)
			}
			key := [2]string{na, nb}
			if prev, ok := norm[na][nb]; ok && math.Abs(prev-v) > symmetryTolerance {
				first := spelled[key]
				return norm, fmt.Errorf("%w: %s/%s = %v vs %s/%s = %v",
					ErrDuplicate, first[0], first[1], prev, a, b, v)
			}
			norm[na][nb] = v
			if _, ok := spelled[key]; !ok {
				spelled[key] = [2]string{a, b}
			}
		}
	}
	return norm, nil
}

func asymmetries(norm map[string]map[string]float64) []Asymmetry {
	var out []Asymmetry
	for a, row := range norm {
		for b, fwd := range row {
			if a >= b {
				continue
			}
			rev, ok := norm[b][a]
			if !ok {
				continue
			}
			if math.Abs(fwd-rev) > symmetryTolerance {
				out = append(out, Asymmetry{A: a, B: b, Forward: fwd, Reverse: rev})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the coefficient between a and b. Pairs missing from the
// table, including a symbol with itself, are 0.
func (t Table) Lookup(a, b string) float64 {
	return t.m[market.Normalize(a)][market.Normalize(b)]
}

// Symbols returns every symbol present in the table, sorted.
func (t Table) Symbols() []string {
	out := make([]string, 0, len(t.m))
	for s := range t.m {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Pairs returns each undirected pair once, ordered by symbol. Authored
// self entries appear with A == B.
func (t Table) Pairs() []Pair {
	var out []Pair
	for _, a := range t.Symbols() {
		row := t.m[a]
		bs := make([]string, 0, len(row))
		for b := range row {
			if a <= b {
				bs = append(bs, b)
			}
		}
		sort.Strings(bs)
		for _, b := range bs {
			out = append(out, Pair{A: a, B: b, Correlation: row[b]})
		}
	}
	return out
}

// Raw returns a copy of the full symmetric mapping.
func (t Table) Raw() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(t.m))
	for a, row := range t.m {
		cp := make(map[string]float64, len(row))
		for b, v := range row {
			cp[b] = v
		}
		out[a] = cp
	}
	return out
}

// Len is the number of undirected pairs.
func (t Table) Len() int {
	n := 0
	for a, row := range t.m {
		for b := range row {
			if a <= b {
				n++
			}
		}
	}
	return n
}
