package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/life2you_mini/contractcalc/internal/calculator"
	"github.com/life2you_mini/contractcalc/internal/config"
	"github.com/life2you_mini/contractcalc/internal/mocks"
)

func testWatchPosition() config.WatchPosition {
	return config.WatchPosition{
		Exchange:   "Binance",
		Symbol:     "BTC/USDT",
		Margin:     20,
		Leverage:   5,
		Side:       "long",
		MarginMode: "isolated",
	}
}

func TestPositionMonitor_EvaluatePosition(t *testing.T) {
	ctx := context.Background()

	mockPrices := new(mocks.MockPriceProvider)
	mockPrices.On("GetPrice", mock.Anything, "Binance", "BTC/USDT").Return(60000.0, nil)

	m := NewPositionMonitor(
		[]config.WatchPosition{testWatchPosition()},
		mockPrices,
		calculator.DefaultRateOptions(),
		nil, // 不落盘
		"test:",
		time.Minute,
		zaptest.NewLogger(t),
	)

	metrics, err := m.evaluatePosition(ctx, testWatchPosition())
	require.NoError(t, err)

	assert.Equal(t, "Binance", metrics.Exchange)
	assert.InDelta(t, 60000.0, metrics.CurrentPrice, 1e-9)
	assert.InDelta(t, 100.0, metrics.PositionSize, 1e-9)
	assert.InDelta(t, 48300.0, metrics.LiquidationPrice, 1e-6)
	assert.InDelta(t, 19.5, metrics.RiskPercentage, 1e-9)
	// 以当前价格开仓并立即平仓，亏损即手续费
	assert.InDelta(t, -metrics.TotalFeeAmount, metrics.ProfitAtCurrent, 1e-12)

	mockPrices.AssertExpectations(t)
}

func TestPositionMonitor_EvaluatePosition_PriceFailure(t *testing.T) {
	ctx := context.Background()

	mockPrices := new(mocks.MockPriceProvider)
	mockPrices.On("GetPrice", mock.Anything, "Binance", "BTC/USDT").
		Return(0.0, fmt.Errorf("网络错误"))

	m := NewPositionMonitor(
		[]config.WatchPosition{testWatchPosition()},
		mockPrices,
		calculator.DefaultRateOptions(),
		nil,
		"test:",
		time.Minute,
		zaptest.NewLogger(t),
	)

	_, err := m.evaluatePosition(ctx, testWatchPosition())
	assert.ErrorContains(t, err, "获取价格失败")
}

func TestPositionMonitor_CheckAll_ContinuesOnFailure(t *testing.T) {
	ctx := context.Background()

	failing := testWatchPosition()
	failing.Symbol = "ETH/USDT"

	mockPrices := new(mocks.MockPriceProvider)
	mockPrices.On("GetPrice", mock.Anything, "Binance", "ETH/USDT").
		Return(0.0, fmt.Errorf("网络错误"))
	mockPrices.On("GetPrice", mock.Anything, "Binance", "BTC/USDT").Return(60000.0, nil)

	m := NewPositionMonitor(
		[]config.WatchPosition{failing, testWatchPosition()},
		mockPrices,
		calculator.DefaultRateOptions(),
		nil,
		"test:",
		time.Minute,
		zaptest.NewLogger(t),
	)

	// 第一个仓位失败后仍会评估第二个
	m.checkAll(ctx)
	mockPrices.AssertExpectations(t)
}

func TestPositionMonitor_DefaultInterval(t *testing.T) {
	m := NewPositionMonitor(nil, nil, calculator.DefaultRateOptions(), nil, "test:", 0, zaptest.NewLogger(t))
	assert.Equal(t, DefaultCheckInterval, m.interval)
}
