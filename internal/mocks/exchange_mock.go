package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/life2you_mini/contractcalc/internal/exchange"
)

// MockExchange 交易所接口的模拟实现
type MockExchange struct {
	mock.Mock
}

// GetExchangeName 获取交易所名称的模拟实现
func (m *MockExchange) GetExchangeName() string {
	args := m.Called()
	return args.String(0)
}

// GetPrice 获取价格的模拟实现
func (m *MockExchange) GetPrice(ctx context.Context, symbol string) (float64, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(float64), args.Error(1)
}

// GetFundingRate 获取资金费率的模拟实现
func (m *MockExchange) GetFundingRate(ctx context.Context, symbol string) (*exchange.FundingRateData, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.FundingRateData), args.Error(1)
}

// GetTradingFeeRates 获取手续费率的模拟实现
func (m *MockExchange) GetTradingFeeRates(ctx context.Context, symbol string) (*exchange.FeeRates, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.FeeRates), args.Error(1)
}

// GetMaintenanceMarginRate 获取维持保证金率的模拟实现
func (m *MockExchange) GetMaintenanceMarginRate(ctx context.Context, symbol string) (float64, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(float64), args.Error(1)
}
