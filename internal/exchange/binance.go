package exchange

import (
	"context"
	"fmt"
	"strings"
	"time"

	ccxt "github.com/ccxt/ccxt/go/v4"
	"go.uber.org/zap"
)

// 币安各交易对第一档维持保证金率，未覆盖的交易对取通用值
var binanceMaintenanceRates = map[string]float64{
	"BTC/USDT": 0.004,
	"ETH/USDT": 0.005,
}

const binanceDefaultMaintenanceRate = 0.005

// BinanceClient 币安交易所客户端
type BinanceClient struct {
	exchange *ccxt.Binance
	logger   *zap.Logger
}

// NewBinanceClient 创建新的币安客户端
func NewBinanceClient(apiKey, apiSecret string, logger *zap.Logger) *BinanceClient {
	binanceInstance := ccxt.NewBinance(map[string]interface{}{
		"apiKey":          apiKey,
		"secret":          apiSecret,
		"enableRateLimit": true,
	})

	// 市场信息异步加载，避免阻塞启动
	go func() {
		<-binanceInstance.LoadMarkets()
		logger.Info("Binance市场数据加载完成")
	}()

	return &BinanceClient{
		exchange: binanceInstance,
		logger:   logger,
	}
}

// GetExchangeName 获取交易所名称
func (b *BinanceClient) GetExchangeName() string {
	return "Binance"
}

// GetPrice 获取最新成交价格
func (b *BinanceClient) GetPrice(ctx context.Context, symbol string) (float64, error) {
	formattedSymbol := formatBinanceSymbol(symbol)

	ticker, err := b.exchange.FetchTicker(formattedSymbol)
	if err != nil {
		b.logger.Error("获取币安价格失败",
			zap.Error(err),
			zap.String("symbol", symbol))
		return 0, fmt.Errorf("获取币安价格失败: %w", err)
	}

	lastPrice, ok := (*ticker)["last"].(float64)
	if !ok {
		return 0, fmt.Errorf("价格数据格式错误")
	}

	return lastPrice, nil
}

// GetFundingRate 获取指定交易对的资金费率
func (b *BinanceClient) GetFundingRate(ctx context.Context, symbol string) (*FundingRateData, error) {
	formattedSymbol := formatBinanceSymbol(symbol)

	fundingRateData, err := b.exchange.FetchFundingRate(formattedSymbol)
	if err != nil {
		b.logger.Error("获取币安资金费率失败",
			zap.Error(err),
			zap.String("symbol", symbol))
		return nil, fmt.Errorf("获取币安资金费率失败: %w", err)
	}

	fundingRate, err := floatField(*fundingRateData, "fundingRate")
	if err != nil {
		return nil, fmt.Errorf("解析资金费率失败: %w", err)
	}

	// 下次结算时间缺失时按8小时后估算
	nextFundingTimeMs, ok := (*fundingRateData)["nextFundingTime"].(int64)
	if !ok {
		b.logger.Warn("无法获取下次资金费率结算时间",
			zap.String("symbol", symbol))
		nextFundingTimeMs = time.Now().Add(8 * time.Hour).UnixMilli()
	}

	return &FundingRateData{
		Exchange:        b.GetExchangeName(),
		Symbol:          symbol,
		FundingRate:     fundingRate,
		NextFundingTime: time.UnixMilli(nextFundingTimeMs),
		Timestamp:       time.Now(),
	}, nil
}

// GetTradingFeeRates 获取指定交易对的合约手续费率
func (b *BinanceClient) GetTradingFeeRates(ctx context.Context, symbol string) (*FeeRates, error) {
	formattedSymbol := formatBinanceSymbol(symbol)

	feeData, err := b.exchange.FetchTradingFee(formattedSymbol)
	if err != nil {
		b.logger.Error("获取币安手续费率失败",
			zap.Error(err),
			zap.String("symbol", symbol))
		return nil, fmt.Errorf("获取币安手续费率失败: %w", err)
	}

	maker, err := floatField(*feeData, "maker")
	if err != nil {
		return nil, fmt.Errorf("解析maker费率失败: %w", err)
	}
	taker, err := floatField(*feeData, "taker")
	if err != nil {
		return nil, fmt.Errorf("解析taker费率失败: %w", err)
	}

	return &FeeRates{Maker: maker, Taker: taker}, nil
}

// GetMaintenanceMarginRate 获取指定交易对的第一档维持保证金率
// 币安公共接口不直接暴露维持保证金率，这里使用内置的第一档表，
// 仅适用于名义价值处于第一档范围内的小仓位
func (b *BinanceClient) GetMaintenanceMarginRate(ctx context.Context, symbol string) (float64, error) {
	if rate, ok := binanceMaintenanceRates[symbol]; ok {
		return rate, nil
	}
	return binanceDefaultMaintenanceRate, nil
}

// formatBinanceSymbol 币安合约使用BTCUSDT格式(不带斜杠)
func formatBinanceSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}
