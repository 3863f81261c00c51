package exchange

import (
	"context"
	"fmt"
	"strings"
	"time"

	ccxt "github.com/ccxt/ccxt/go/v4"
	"go.uber.org/zap"
)

// OKX各交易对第一档维持保证金率，未覆盖的交易对取通用值
var okxMaintenanceRates = map[string]float64{
	"BTC/USDT": 0.004,
	"ETH/USDT": 0.005,
}

const okxDefaultMaintenanceRate = 0.005

// OKXClient 使用CCXT实现的OKX交易所客户端
type OKXClient struct {
	exchange *ccxt.OKX
	logger   *zap.Logger
}

// NewOKXClient 创建新的OKX客户端
func NewOKXClient(apiKey, apiSecret, passphrase string, logger *zap.Logger) *OKXClient {
	okxInstance := ccxt.NewOKX(map[string]interface{}{
		"apiKey":          apiKey,
		"secret":          apiSecret,
		"password":        passphrase,
		"enableRateLimit": true,
	})

	// 市场信息异步加载，避免阻塞启动
	go func() {
		<-okxInstance.LoadMarkets()
		logger.Info("OKX市场数据加载完成")
	}()

	return &OKXClient{
		exchange: okxInstance,
		logger:   logger,
	}
}

// GetExchangeName 获取交易所名称
func (o *OKXClient) GetExchangeName() string {
	return "OKX"
}

// GetPrice 获取最新成交价格
func (o *OKXClient) GetPrice(ctx context.Context, symbol string) (float64, error) {
	formattedSymbol := formatOKXSymbol(symbol)

	ticker, err := o.exchange.FetchTicker(formattedSymbol)
	if err != nil {
		o.logger.Error("获取OKX价格失败",
			zap.Error(err),
			zap.String("symbol", symbol))
		return 0, fmt.Errorf("获取OKX价格失败: %w", err)
	}

	lastPrice, ok := (*ticker)["last"].(float64)
	if !ok {
		return 0, fmt.Errorf("价格数据格式错误")
	}

	return lastPrice, nil
}

// GetFundingRate 获取指定交易对的资金费率
func (o *OKXClient) GetFundingRate(ctx context.Context, symbol string) (*FundingRateData, error) {
	formattedSymbol := formatOKXSymbol(symbol)

	fundingRateData, err := o.exchange.FetchFundingRate(formattedSymbol)
	if err != nil {
		o.logger.Error("获取OKX资金费率失败",
			zap.Error(err),
			zap.String("symbol", symbol))
		return nil, fmt.Errorf("获取OKX资金费率失败: %w", err)
	}

	fundingRate, err := floatField(*fundingRateData, "fundingRate")
	if err != nil {
		return nil, fmt.Errorf("解析资金费率失败: %w", err)
	}

	// 下次结算时间缺失时按8小时后估算
	nextFundingTimeMs, ok := (*fundingRateData)["nextFundingTime"].(int64)
	if !ok {
		o.logger.Warn("无法获取下次资金费率结算时间",
			zap.String("symbol", symbol))
		nextFundingTimeMs = time.Now().Add(8 * time.Hour).UnixMilli()
	}

	return &FundingRateData{
		Exchange:        o.GetExchangeName(),
		Symbol:          symbol,
		FundingRate:     fundingRate,
		NextFundingTime: time.UnixMilli(nextFundingTimeMs),
		Timestamp:       time.Now(),
	}, nil
}

// GetTradingFeeRates 获取指定交易对的合约手续费率
func (o *OKXClient) GetTradingFeeRates(ctx context.Context, symbol string) (*FeeRates, error) {
	formattedSymbol := formatOKXSymbol(symbol)

	feeData, err := o.exchange.FetchTradingFee(formattedSymbol)
	if err != nil {
		o.logger.Error("获取OKX手续费率失败",
			zap.Error(err),
			zap.String("symbol", symbol))
		return nil, fmt.Errorf("获取OKX手续费率失败: %w", err)
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
// 与币安同样使用内置第一档表，仅适用于第一档范围内的小仓位
func (o *OKXClient) GetMaintenanceMarginRate(ctx context.Context, symbol string) (float64, error) {
	if rate, ok := okxMaintenanceRates[symbol]; ok {
		return rate, nil
	}
	return okxDefaultMaintenanceRate, nil
}

// formatOKXSymbol OKX永续合约使用BTC-USDT-SWAP格式
func formatOKXSymbol(symbol string) string {
	parts := strings.Split(symbol, "/")
	if len(parts) == 2 {
		return fmt.Sprintf("%s-%s-SWAP", parts[0], parts[1])
	}
	return symbol
}
