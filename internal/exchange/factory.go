package exchange

import (
	"go.uber.org/zap"
)

// BinanceConfig Binance配置
type BinanceConfig struct {
	Enabled   bool
	APIKey    string
	APISecret string
}

// OKXConfig OKX配置
type OKXConfig struct {
	Enabled    bool
	APIKey     string
	APISecret  string
	Passphrase string
}

// CreateExchangeFactory 创建交易所工厂并初始化所有启用的交易所
func CreateExchangeFactory(
	logger *zap.Logger,
	binanceConfig *BinanceConfig,
	okxConfig *OKXConfig,
) *ExchangeFactory {
	factory := NewExchangeFactory()

	if binanceConfig != nil && binanceConfig.Enabled {
		binanceClient := NewBinanceClient(binanceConfig.APIKey, binanceConfig.APISecret, logger)
		factory.Register("Binance", binanceClient)
		logger.Info("Binance交易所已注册")
	}

	if okxConfig != nil && okxConfig.Enabled {
		okxClient := NewOKXClient(okxConfig.APIKey, okxConfig.APISecret, okxConfig.Passphrase, logger)
		factory.Register("OKX", okxClient)
		logger.Info("OKX交易所已注册")
	}

	return factory
}
