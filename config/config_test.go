package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxrisk/correlation"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 100000.0, cfg.Account.Balance)
	assert.Equal(t, 0.02, cfg.Risk.MaxRiskPerTrade)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing currency",
			mutate:  func(c *Config) { c.Account.Currency = "" },
			wantErr: true,
			errMsg:  "account.currency is required",
		},
		{
			name:    "negative balance",
			mutate:  func(c *Config) { c.Account.Balance = -1000 },
			wantErr: true,
			errMsg:  "account.balance must not be negative",
		},
		{
			name:    "zero risk",
			mutate:  func(c *Config) { c.Risk.MaxRiskPerTrade = 0 },
			wantErr: true,
			errMsg:  "risk.max_risk_per_trade must be between 0 and 1",
		},
		{
			name:    "risk above one",
			mutate:  func(c *Config) { c.Risk.MaxRiskPerTrade = 1.5 },
			wantErr: true,
			errMsg:  "risk.max_risk_per_trade must be between 0 and 1",
		},
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "fxrisk.yaml")

	content := `account:
  currency: EUR
  balance: 25000
risk:
  max_risk_per_trade: 0.01
journal:
  db_path: fxrisk.db
server:
  addr: ":9090"
  allowed_origins:
    - http://localhost:3000
log:
  level: debug
  pretty: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Account.Currency)
	assert.Equal(t, 25000.0, cfg.Account.Balance)
	assert.Equal(t, 0.01, cfg.Risk.MaxRiskPerTrade)
	assert.Equal(t, "fxrisk.db", cfg.Journal.DBPath)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  balance: 5000\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, cfg.Account.Balance)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 0.02, cfg.Risk.MaxRiskPerTrade)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tmpDir := t.TempDir()

	bad := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("risk: [unclosed"), 0644))
	_, err := LoadFromFile(bad)
	assert.Error(t, err)

	invalid := filepath.Join(tmpDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("risk:\n  max_risk_per_trade: 2\n"), 0644))
	_, err = LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, err = LoadFromFile(filepath.Join(tmpDir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"fxrisk.yaml", "fxrisk.json"} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Account.Balance = 42000
			cfg.Journal.DBPath = "j.db"

			path := filepath.Join(tmpDir, name)
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FXRISK_LOG_LEVEL", "warn")
	t.Setenv("FXRISK_LOG_PRETTY", "true")
	t.Setenv("FXRISK_JOURNAL_DB", "/tmp/x.db")
	t.Setenv("FXRISK_ADDR", ":7070")
	t.Setenv("FXRISK_ALLOWED_ORIGINS", "http://a,http://b")
	t.Setenv("FXRISK_ACCOUNT_BALANCE", "12345.5")
	t.Setenv("FXRISK_MAX_RISK_PER_TRADE", "0.03")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "/tmp/x.db", cfg.Journal.DBPath)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 12345.5, cfg.Account.Balance)
	assert.Equal(t, 0.03, cfg.Risk.MaxRiskPerTrade)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FXRISK_ACCOUNT_BALANCE", "lots")

	err := Default().ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FXRISK_ACCOUNT_BALANCE")
}

func TestApplyEnv_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FXRISK_ADDR=:6060\n"), 0644))
	t.Setenv("FXRISK_ADDR", "")
	require.NoError(t, os.Unsetenv("FXRISK_ADDR"))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, ":6060", cfg.Server.Addr)
	require.NoError(t, os.Unsetenv("FXRISK_ADDR"))
}

func TestCorrelationTable(t *testing.T) {
	cfg := Default()
	tbl, err := cfg.CorrelationTable()
	require.NoError(t, err)
	assert.Equal(t, correlation.Default().Len(), tbl.Len())

	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("EURUSD:\n  GBPUSD: 0.5\n"), 0644))
	cfg.Correlations.TablePath = path
	tbl, err = cfg.CorrelationTable()
	require.NoError(t, err)
	assert.Equal(t, 0.5, tbl.Lookup("GBPUSD", "EURUSD"))

	cfg.Correlations.TablePath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.CorrelationTable()
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
