package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxrisk/correlation"
	"github.com/rustyeddy/fxrisk/risk"
	"github.com/rustyeddy/fxrisk/stops"
)

// execute runs the root command with args. Flag values live in package
// variables, so every flag is reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	tableSeries = nil

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--log-level", "disabled"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fxrisk version "+version)
}

func TestEvaluateAndJournal(t *testing.T) {
	db := filepath.Join(t.TempDir(), "fxrisk.db")
	req := writeFile(t, "book.yaml", `position:
  symbol: EURUSD
  direction: BUY
  size: 1
existing:
  - {symbol: GBPUSD, direction: BUY, size: 1}
`)

	out, err := execute(t, "--journal", db, "-o", "json", "evaluate", "-f", req)
	require.NoError(t, err)

	var got risk.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.InDelta(t, 0.73, got.CorrelationRisk, 1e-9)
	assert.InDelta(t, 2*0.73, got.TotalRisk, 1e-9)

	out, err = execute(t, "--journal", db, "journal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "| evaluate | EURUSD |")

	_, err = execute(t, "--journal", db, "journal", "show", "missing")
	assert.Error(t, err)
}

func TestJournalRequiresPath(t *testing.T) {
	_, err := execute(t, "journal", "list")
	assert.ErrorIs(t, err, errNoJournal)
}

func TestSizeFromStdinDefaults(t *testing.T) {
	rootCmd.SetIn(bytes.NewBufferString("base_size: 1\nsymbol: EURUSD\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := execute(t, "-o", "json", "size", "-f", "-")
	require.NoError(t, err)

	var got risk.Sizing
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	// Default account: 100000 * 0.02 / 100000 = 0.02 lot cap.
	assert.InDelta(t, 0.02, got.AdjustedSize, 1e-9)
}

func TestTrailing(t *testing.T) {
	out, err := execute(t, "-o", "json", "trailing", "--symbol", "EURUSD", "--atr", "0.002", "--regime", "ranging")
	require.NoError(t, err)

	var got stops.TrailingConfig
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, stops.DeriveTrailingStopConfig("EURUSD", 0.002, stops.VolatilityNormal, stops.RegimeRanging), got)

	_, err = execute(t, "trailing", "--symbol", "EURUSD")
	assert.Error(t, err)
}

func TestTableShowAndCheck(t *testing.T) {
	out, err := execute(t, "-o", "json", "table", "show", "--symbol", "nzd_usd")
	require.NoError(t, err)

	var pairs []correlation.Pair
	require.NoError(t, json.Unmarshal([]byte(out), &pairs), out)
	assert.Contains(t, pairs, correlation.Pair{A: "AUDUSD", B: "NZDUSD", Correlation: 0.88})

	bad := writeFile(t, "bad.yaml", "EURUSD:\n  GBPUSD: 0.7\nGBPUSD:\n  EURUSD: 0.5\n")
	out, err = execute(t, "table", "check", bad)
	assert.ErrorIs(t, err, correlation.ErrAsymmetric)
	assert.Contains(t, out, "asymmetric:")

	good := writeFile(t, "good.yaml", "EURUSD:\n  GBPUSD: 0.7\n")
	out, err = execute(t, "table", "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 pairs")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fxrisk.yaml")

	out, err := execute(t, "config", "init", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "built-in")

	_, err = execute(t, "--config", path, "version")
	require.NoError(t, err)
}

func TestBadOutputFormat(t *testing.T) {
	_, err := execute(t, "-o", "xml", "version")
	assert.Error(t, err)
}
