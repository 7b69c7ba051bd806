package correlation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableIsSymmetric(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Asymmetries(defaultCoefficients))

	tbl := Default()
	for _, a := range tbl.Symbols() {
		for _, b := range tbl.Symbols() {
			assert.Equal(t, tbl.Lookup(a, b), tbl.Lookup(b, a), "%s/%s", a, b)
			v := tbl.Lookup(a, b)
			assert.True(t, v >= -1 && v <= 1, "%s/%s = %v", a, b, v)
		}
	}
}

func TestDefaultTableKnownPairs(t *testing.T) {
	t.Parallel()

	tbl := Default()
	assert.Equal(t, 0.73, tbl.Lookup("EURUSD", "GBPUSD"))
	assert.Equal(t, 0.73, tbl.Lookup("GBPUSD", "EURUSD"))
	assert.Equal(t, -0.87, tbl.Lookup("USDCHF", "EUR_USD"))
	assert.Equal(t, 0.0, tbl.Lookup("EURUSD", "XAUUSD"))
	assert.Equal(t, 0.0, tbl.Lookup("EURUSD", "eur/usd"))
}

func TestSelfCorrelationIsOptIn(t *testing.T) {
	t.Parallel()

	plain := MustNew(map[string]map[string]float64{"AAA": {"AAA": 0}})
	assert.Equal(t, 0.0, plain.Lookup("AAA", "AAA"))

	tbl, err := New(map[string]map[string]float64{
		"EURUSD": {"EURUSD": 1, "GBPUSD": 0.73},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, tbl.Lookup("eur_usd", "EURUSD"))
	assert.Equal(t, 0.0, tbl.Lookup("GBPUSD", "GBPUSD"))
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []Pair{
		{A: "EURUSD", B: "EURUSD", Correlation: 1},
		{A: "EURUSD", B: "GBPUSD", Correlation: 0.73},
	}, tbl.Pairs())
}

func TestNewRejectsConflictingSpellings(t *testing.T) {
	t.Parallel()

	raw := map[string]map[string]float64{
		"EURUSD":  {"GBPUSD": 0.73},
		"eur_usd": {"GBPUSD": 0.1},
	}
	for i := 0; i < 50; i++ {
		_, err := New(raw)
		require.ErrorIs(t, err, ErrDuplicate)
	}

	// Spellings that agree are the same entry.
	tbl, err := New(map[string]map[string]float64{
		"EURUSD":  {"GBPUSD": 0.73},
		"EUR/USD": {"gbp_usd": 0.73},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.73, tbl.Lookup("GBPUSD", "EURUSD"))
	assert.Equal(t, 1, tbl.Len())
}

func TestNewMirrorsMissingReverse(t *testing.T) {
	t.Parallel()

	tbl, err := New(map[string]map[string]float64{
		"EUR_USD": {"GBP_USD": 0.7},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.7, tbl.Lookup("GBPUSD", "EURUSD"))
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{"EURUSD", "GBPUSD"}, tbl.Symbols())
}

func TestNewRejectsAsymmetricEntries(t *testing.T) {
	t.Parallel()

	raw := map[string]map[string]float64{
		"EURUSD": {"GBPUSD": 0.73},
		"GBPUSD": {"EURUSD": 0.70},
	}

	asym := Asymmetries(raw)
	require.Len(t, asym, 1)
	assert.Equal(t, "EURUSD", asym[0].A)
	assert.Equal(t, "GBPUSD", asym[0].B)
	assert.Equal(t, 0.73, asym[0].Forward)
	assert.Equal(t, 0.70, asym[0].Reverse)

	_, err := New(raw)
	assert.ErrorIs(t, err, ErrAsymmetric)
}

func TestNewRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := New(map[string]map[string]float64{"EURUSD": {"GBPUSD": 1.2}})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestZeroTable(t *testing.T) {
	t.Parallel()

	var tbl Table
	assert.Equal(t, 0.0, tbl.Lookup("EURUSD", "GBPUSD"))
	assert.Empty(t, tbl.Pairs())
}

func TestPairsOrdered(t *testing.T) {
	t.Parallel()

	tbl := MustNew(map[string]map[string]float64{
		"USDJPY": {"EURJPY": 0.8},
		"AUDUSD": {"NZDUSD": 0.9},
	})
	assert.Equal(t, []Pair{
		{A: "AUDUSD", B: "NZDUSD", Correlation: 0.9},
		{A: "EURJPY", B: "USDJPY", Correlation: 0.8},
	}, tbl.Pairs())
}

func TestRawIsACopy(t *testing.T) {
	t.Parallel()

	tbl := MustNew(map[string]map[string]float64{"EURUSD": {"GBPUSD": 0.73}})
	raw := tbl.Raw()
	raw["EURUSD"]["GBPUSD"] = 0
	assert.Equal(t, 0.73, tbl.Lookup("EURUSD", "GBPUSD"))
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")

	require.NoError(t, Default().SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Pairs(), loaded.Pairs())
}

func TestLoadFileJSONAndErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "asym.json")
	require.NoError(t, writeFile(path, `{"EURUSD":{"GBPUSD":0.73},"GBPUSD":{"EURUSD":0.5}}`))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrAsymmetric)

	raw, err := LoadRawFile(path)
	require.NoError(t, err)
	assert.Len(t, Asymmetries(raw), 1)

	dup := filepath.Join(dir, "dup.yaml")
	require.NoError(t, writeFile(dup, "EURUSD:\n  GBPUSD: 0.73\nEUR_USD:\n  GBPUSD: 0.1\n"))
	_, err = LoadFile(dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}
