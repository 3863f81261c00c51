package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/life2you_mini/contractcalc/internal/calculator"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfigYAML = `
exchanges:
  binance:
    enabled: true
  okx:
    enabled: false
calculator:
  maintenance_rate: 0.005
  open_fee_rate: 0.0002
  close_fee_rate: 0.0002
  funding_period_hours: 8
market:
  allowed_symbols:
    - BTC/USDT
    - ETH/USDT
  price_cache_ttl_seconds: 10
monitor:
  enabled: true
  check_interval_minutes: 5
  positions:
    - exchange: Binance
      symbol: BTC/USDT
      margin: 20
      leverage: 5
      side: long
      margin_mode: isolated
redis:
  host: localhost
  port: 6379
  key_prefix: "contract_calc:"
system:
  log_level: INFO
  log_dir: ./logs
`

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, validConfigYAML)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Exchanges.Binance.Enabled)
	assert.False(t, cfg.Exchanges.OKX.Enabled)
	assert.Equal(t, []string{"BTC/USDT", "ETH/USDT"}, cfg.Market.AllowedSymbols)
	assert.Equal(t, 10, cfg.Market.PriceCacheTTLSeconds)
	require.Len(t, cfg.Monitor.Positions, 1)
	assert.Equal(t, "BTC/USDT", cfg.Monitor.Positions[0].Symbol)
	assert.InDelta(t, 5.0, cfg.Monitor.Positions[0].Leverage, 1e-9)
}

func TestLoadConfig_EnvOverridesAPIKeys(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "test-key")
	t.Setenv("BINANCE_API_SECRET", "test-secret")

	path := writeTempConfig(t, validConfigYAML)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Exchanges.Binance.APIKey)
	assert.Equal(t, "test-secret", cfg.Exchanges.Binance.APISecret)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{
			name: "没有启用任何交易所",
			modify: func(c *Config) {
				c.Exchanges.Binance.Enabled = false
				c.Exchanges.OKX.Enabled = false
			},
		},
		{
			name: "交易对列表为空",
			modify: func(c *Config) {
				c.Market.AllowedSymbols = nil
			},
		},
		{
			name: "缓存TTL为零",
			modify: func(c *Config) {
				c.Market.PriceCacheTTLSeconds = 0
			},
		},
		{
			name: "维持保证金率超出范围",
			modify: func(c *Config) {
				c.Calculator.MaintenanceRate = 1.5
			},
		},
		{
			name: "监控仓位杠杆低于1",
			modify: func(c *Config) {
				c.Monitor.Positions[0].Leverage = 0.5
			},
		},
		{
			name: "监控仓位方向非法",
			modify: func(c *Config) {
				c.Monitor.Positions[0].Side = "sideways"
			},
		},
		{
			name: "Redis主机为空",
			modify: func(c *Config) {
				c.Redis.Host = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.modify(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestGetDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(GetDefaultConfig()))
}

func TestCalculatorConfig_RateOptions(t *testing.T) {
	// 配置缺省时保留计算核心的内置默认值
	var empty CalculatorConfig
	assert.Equal(t, calculator.DefaultRateOptions(), empty.RateOptions())

	// 配置项覆盖对应字段
	custom := CalculatorConfig{MaintenanceRate: 0.01, FundingPeriodHours: 4}
	opts := custom.RateOptions()
	assert.Equal(t, 0.01, opts.MaintenanceRate)
	assert.Equal(t, 4.0, opts.FundingPeriodHours)
	assert.Equal(t, calculator.DefaultOpenFeeRate, opts.OpenFeeRate)
}

func TestSaveConfigToFile_OmitsSecrets(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Exchanges.Binance.APIKey = "secret-key"
	cfg.Exchanges.Binance.APISecret = "secret-value"

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, SaveConfigToFile(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-key")
	assert.NotContains(t, string(data), "secret-value")

	// 写出的配置可以重新加载
	reloaded, err := LoadConfigFromYAML(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Market.AllowedSymbols, reloaded.Market.AllowedSymbols)
}
