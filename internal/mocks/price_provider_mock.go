package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPriceProvider 价格查询接口的模拟实现
type MockPriceProvider struct {
	mock.Mock
}

// GetPrice 获取价格的模拟实现
func (m *MockPriceProvider) GetPrice(ctx context.Context, exchangeName, symbol string) (float64, error) {
	args := m.Called(ctx, exchangeName, symbol)
	return args.Get(0).(float64), args.Error(1)
}
