package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/life2you_mini/contractcalc/internal/calculator"
)

// Config 应用配置结构
type Config struct {
	Exchanges  ExchangesConfig  `mapstructure:"exchanges" yaml:"exchanges"`
	Calculator CalculatorConfig `mapstructure:"calculator" yaml:"calculator"`
	Market     MarketConfig     `mapstructure:"market" yaml:"market"`
	Monitor    MonitorConfig    `mapstructure:"monitor" yaml:"monitor"`
	Redis      RedisConfig      `mapstructure:"redis" yaml:"redis"`
	System     SystemConfig     `mapstructure:"system" yaml:"system"`
}

// ExchangesConfig 交易所配置
type ExchangesConfig struct {
	Binance BinanceConfig `mapstructure:"binance" yaml:"binance"`
	OKX     OKXConfig     `mapstructure:"okx" yaml:"okx"`
}

// BinanceConfig Binance配置
type BinanceConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	APISecret string `mapstructure:"api_secret" yaml:"api_secret"`
}

// OKXConfig OKX配置
type OKXConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	APISecret  string `mapstructure:"api_secret" yaml:"api_secret"`
	Passphrase string `mapstructure:"passphrase" yaml:"passphrase"`
}

// CalculatorConfig 计算器默认费率配置
// 未配置的项使用计算核心的内置默认值
type CalculatorConfig struct {
	MaintenanceRate    float64 `mapstructure:"maintenance_rate" yaml:"maintenance_rate"`
	OpenFeeRate        float64 `mapstructure:"open_fee_rate" yaml:"open_fee_rate"`
	CloseFeeRate       float64 `mapstructure:"close_fee_rate" yaml:"close_fee_rate"`
	FundingPeriodHours float64 `mapstructure:"funding_period_hours" yaml:"funding_period_hours"`
}

// RateOptions 将配置转换为计算核心的费率配置
// 配置缺省(零值)时保留内置默认值
func (c CalculatorConfig) RateOptions() calculator.RateOptions {
	opts := calculator.DefaultRateOptions()
	if c.MaintenanceRate > 0 {
		opts.MaintenanceRate = c.MaintenanceRate
	}
	if c.OpenFeeRate > 0 {
		opts.OpenFeeRate = c.OpenFeeRate
	}
	if c.CloseFeeRate > 0 {
		opts.CloseFeeRate = c.CloseFeeRate
	}
	if c.FundingPeriodHours > 0 {
		opts.FundingPeriodHours = c.FundingPeriodHours
	}
	return opts
}

// MarketConfig 行情配置
type MarketConfig struct {
	AllowedSymbols       []string `mapstructure:"allowed_symbols" yaml:"allowed_symbols"`
	PriceCacheTTLSeconds int      `mapstructure:"price_cache_ttl_seconds" yaml:"price_cache_ttl_seconds"`
}

// MonitorConfig 仓位监控配置
type MonitorConfig struct {
	Enabled              bool            `mapstructure:"enabled" yaml:"enabled"`
	CheckIntervalMinutes int             `mapstructure:"check_interval_minutes" yaml:"check_interval_minutes"`
	Positions            []WatchPosition `mapstructure:"positions" yaml:"positions"`
}

// WatchPosition 待监控的仓位参数
type WatchPosition struct {
	Exchange   string  `mapstructure:"exchange" yaml:"exchange"`
	Symbol     string  `mapstructure:"symbol" yaml:"symbol"`
	Margin     float64 `mapstructure:"margin" yaml:"margin"`
	Leverage   float64 `mapstructure:"leverage" yaml:"leverage"`
	Side       string  `mapstructure:"side" yaml:"side"`
	MarginMode string  `mapstructure:"margin_mode" yaml:"margin_mode"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host      string `mapstructure:"host" yaml:"host"`
	Port      int    `mapstructure:"port" yaml:"port"`
	Password  string `mapstructure:"password" yaml:"password"`
	DB        int    `mapstructure:"db" yaml:"db"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

// SystemConfig 系统配置
type SystemConfig struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogDir   string `mapstructure:"log_dir" yaml:"log_dir"`
}

// LoadConfig 从文件加载配置
func LoadConfig(filePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 环境变量覆盖，前缀如 CONTRACTCALC_REDIS_HOST
	v.AutomaticEnv()
	v.SetEnvPrefix("CONTRACTCALC")

	// API密钥优先从环境变量读取，避免写入配置文件
	if binanceAPIKey := os.Getenv("BINANCE_API_KEY"); binanceAPIKey != "" {
		v.Set("exchanges.binance.api_key", binanceAPIKey)
	}
	if binanceAPISecret := os.Getenv("BINANCE_API_SECRET"); binanceAPISecret != "" {
		v.Set("exchanges.binance.api_secret", binanceAPISecret)
	}
	if okxAPIKey := os.Getenv("OKX_API_KEY"); okxAPIKey != "" {
		v.Set("exchanges.okx.api_key", okxAPIKey)
	}
	if okxAPISecret := os.Getenv("OKX_API_SECRET"); okxAPISecret != "" {
		v.Set("exchanges.okx.api_secret", okxAPISecret)
	}
	if okxPassphrase := os.Getenv("OKX_PASSPHRASE"); okxPassphrase != "" {
		v.Set("exchanges.okx.passphrase", okxPassphrase)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &config, nil
}

// LoadConfigFromYAML 直接用yaml解析配置文件，不经过viper
func LoadConfigFromYAML(filePath string) (*Config, error) {
	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &config, nil
}

// validateConfig 验证配置有效性
func validateConfig(config *Config) error {
	// 至少启用一个交易所，否则没有价格来源
	if !config.Exchanges.Binance.Enabled && !config.Exchanges.OKX.Enabled {
		return fmt.Errorf("至少需要启用一个交易所")
	}

	if config.Exchanges.OKX.Enabled && config.Exchanges.OKX.APIKey != "" {
		if config.Exchanges.OKX.APISecret == "" || config.Exchanges.OKX.Passphrase == "" {
			return fmt.Errorf("OKX API密钥未完全配置")
		}
	}

	if len(config.Market.AllowedSymbols) == 0 {
		return fmt.Errorf("交易对列表不能为空")
	}

	if config.Market.PriceCacheTTLSeconds <= 0 {
		return fmt.Errorf("价格缓存TTL必须大于0")
	}

	// 费率为比例值，不应超过1
	if config.Calculator.MaintenanceRate < 0 || config.Calculator.MaintenanceRate >= 1 {
		return fmt.Errorf("维持保证金率必须在0到1之间")
	}
	if config.Calculator.OpenFeeRate < 0 || config.Calculator.OpenFeeRate >= 1 {
		return fmt.Errorf("开仓手续费率必须在0到1之间")
	}
	if config.Calculator.CloseFeeRate < 0 || config.Calculator.CloseFeeRate >= 1 {
		return fmt.Errorf("平仓手续费率必须在0到1之间")
	}

	// 监控仓位参数校验
	for i, p := range config.Monitor.Positions {
		if p.Symbol == "" {
			return fmt.Errorf("监控仓位[%d]缺少交易对", i)
		}
		if p.Margin <= 0 {
			return fmt.Errorf("监控仓位[%d]保证金必须大于0", i)
		}
		if p.Leverage < 1 {
			return fmt.Errorf("监控仓位[%d]杠杆倍数不能低于1", i)
		}
		if !calculator.PositionSide(p.Side).Valid() {
			return fmt.Errorf("监控仓位[%d]持仓方向非法: %s", i, p.Side)
		}
		if p.MarginMode != "" && !calculator.MarginMode(p.MarginMode).Valid() {
			return fmt.Errorf("监控仓位[%d]保证金模式非法: %s", i, p.MarginMode)
		}
	}

	if config.Redis.Host == "" {
		return fmt.Errorf("Redis主机不能为空")
	}
	if config.Redis.Port <= 0 || config.Redis.Port > 65535 {
		return fmt.Errorf("无效的Redis端口")
	}

	return nil
}

// GetDefaultConfig 获取默认配置(用于生成示例配置)
func GetDefaultConfig() *Config {
	return &Config{
		Exchanges: ExchangesConfig{
			Binance: BinanceConfig{Enabled: true},
			OKX:     OKXConfig{Enabled: false},
		},
		Calculator: CalculatorConfig{
			MaintenanceRate:    calculator.DefaultMaintenanceRate,
			OpenFeeRate:        calculator.DefaultOpenFeeRate,
			CloseFeeRate:       calculator.DefaultCloseFeeRate,
			FundingPeriodHours: calculator.DefaultFundingPeriodHours,
		},
		Market: MarketConfig{
			AllowedSymbols:       []string{"BTC/USDT", "ETH/USDT", "SOL/USDT"},
			PriceCacheTTLSeconds: 10,
		},
		Monitor: MonitorConfig{
			Enabled:              true,
			CheckIntervalMinutes: 5,
			Positions: []WatchPosition{
				{
					Exchange:   "Binance",
					Symbol:     "BTC/USDT",
					Margin:     20,
					Leverage:   5,
					Side:       "long",
					MarginMode: "isolated",
				},
			},
		},
		Redis: RedisConfig{
			Host:      "localhost",
			Port:      6379,
			DB:        0,
			KeyPrefix: "contract_calc:",
		},
		System: SystemConfig{
			LogLevel: "INFO",
			LogDir:   "./logs",
		},
	}
}

// SaveConfigToFile 将配置写入YAML文件，不包含API密钥等敏感信息
func SaveConfigToFile(config *Config, filePath string) error {
	sanitized := *config
	sanitized.Exchanges.Binance.APIKey = ""
	sanitized.Exchanges.Binance.APISecret = ""
	sanitized.Exchanges.OKX.APIKey = ""
	sanitized.Exchanges.OKX.APISecret = ""
	sanitized.Exchanges.OKX.Passphrase = ""

	data, err := yaml.Marshal(&sanitized)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	return os.WriteFile(filePath, data, 0644)
}
