package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/life2you_mini/contractcalc/internal/exchange"
)

// MockExchangeGetter 交易所查找接口的模拟实现
type MockExchangeGetter struct {
	mock.Mock
}

// Get 获取交易所客户端的模拟实现
func (m *MockExchangeGetter) Get(name string) (exchange.Exchange, bool) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(exchange.Exchange), args.Bool(1)
}
