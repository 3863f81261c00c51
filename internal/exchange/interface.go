package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// FundingRateData 资金费率数据结构
type FundingRateData struct {
	Exchange        string    `json:"exchange"`
	Symbol          string    `json:"symbol"`
	FundingRate     float64   `json:"funding_rate"`
	NextFundingTime time.Time `json:"next_funding_time"`
	Timestamp       time.Time `json:"timestamp"`
}

// FeeRates 合约交易手续费率
type FeeRates struct {
	Maker float64 `json:"maker"`
	Taker float64 `json:"taker"`
}

// Exchange 交易所接口
// 计算服务只消费查询能力：最新价格、资金费率、手续费率和维持保证金率
type Exchange interface {
	GetExchangeName() string

	GetPrice(ctx context.Context, symbol string) (float64, error)
	GetFundingRate(ctx context.Context, symbol string) (*FundingRateData, error)
	GetTradingFeeRates(ctx context.Context, symbol string) (*FeeRates, error)
	GetMaintenanceMarginRate(ctx context.Context, symbol string) (float64, error)
}

// floatField 从CCXT返回的动态结构中取数值字段
func floatField(data map[string]interface{}, key string) (float64, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("字段不存在: %s", key)
	}
	value, err := strconv.ParseFloat(fmt.Sprintf("%v", raw), 64)
	if err != nil {
		return 0, fmt.Errorf("解析字段%s失败: %w", key, err)
	}
	return value, nil
}

// ExchangeFactory 交易所工厂，按名称注册和查找交易所实例
type ExchangeFactory struct {
	exchanges map[string]Exchange
}

// NewExchangeFactory 创建交易所工厂
func NewExchangeFactory() *ExchangeFactory {
	return &ExchangeFactory{
		exchanges: make(map[string]Exchange),
	}
}

// Register 注册交易所实例
func (f *ExchangeFactory) Register(name string, exchange Exchange) {
	f.exchanges[name] = exchange
}

// Get 获取交易所实例
func (f *ExchangeFactory) Get(name string) (Exchange, bool) {
	exchange, exists := f.exchanges[name]
	return exchange, exists
}

// GetAll 获取所有已注册的交易所实例
func (f *ExchangeFactory) GetAll() []Exchange {
	var result []Exchange
	for _, exchange := range f.exchanges {
		result = append(result, exchange)
	}
	return result
}

// List 获取所有已注册的交易所名称
func (f *ExchangeFactory) List() []string {
	var names []string
	for name := range f.exchanges {
		names = append(names, name)
	}
	return names
}
