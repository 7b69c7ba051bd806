package correlation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/fxrisk/market"
)

// Returns converts closing prices into simple returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return []float64{}
	}

	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			out[i-1] = (closes[i] - closes[i-1]) / closes[i-1]
		}
	}
	return out
}

// Estimate builds a table from closing price history. Series are aligned on
// their most recent values and truncated to the shortest one. Pairs with
// fewer than minSamples returns, or with a flat series, are left out.
func Estimate(closes map[string][]float64, minSamples int) (Table, error) {
	if minSamples < 2 {
		minSamples = 2
	}

	symbols := make([]string, 0, len(closes))
	returns := make(map[string][]float64, len(closes))
	for s, series := range closes {
		ns := market.Normalize(s)
		if _, dup := returns[ns]; dup {
			return Table{}, fmt.Errorf("duplicate symbol %s in price history", ns)
		}
		symbols = append(symbols, ns)
		returns[ns] = Returns(series)
	}
	sort.Strings(symbols)

	raw := make(map[string]map[string]float64)
	for i, a := range symbols {
		for _, b := range symbols[i+1:] {
			x, y := alignTail(returns[a], returns[b])
			if len(x) < minSamples {
				continue
			}
			c := stat.Correlation(x, y, nil)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				continue
			}
			if raw[a] == nil {
				raw[a] = make(map[string]float64)
			}
			raw[a][b] = clamp(round4(c))
		}
	}
	return New(raw)
}

func alignTail(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	return x[len(x)-n:], y[len(y)-n:]
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
