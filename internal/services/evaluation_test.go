package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/life2you_mini/contractcalc/internal/calculator"
)

func TestFormatResult(t *testing.T) {
	result := calculator.Compute(calculator.NewParams(60000, 20, 5, calculator.MarginIsolated, calculator.Long))
	display := FormatResult(result)

	assert.Equal(t, "100", display.PositionSize)
	assert.Equal(t, "48300", display.LiquidationPrice)
	assert.Equal(t, "19.5", display.RiskPercentage)
	assert.Equal(t, "-19.5", display.LiquidationPricePercent)
	assert.Equal(t, "20", display.MaxLoss)
	assert.Equal(t, "0.04", display.TotalFeeAmount)
	assert.Equal(t, "60026.4", display.BreakEvenPrice)
	assert.Contains(t, display.MaxLossScope, "逐仓")
}

func TestFormatResult_NonFiniteValues(t *testing.T) {
	// 杠杆为0时核心产生Inf/NaN，展示层统一渲染为占位符
	result := calculator.Compute(calculator.NewParams(60000, 20, 0, calculator.MarginIsolated, calculator.Long))
	display := FormatResult(result)

	assert.Equal(t, "-", display.LiquidationPrice)
	assert.Equal(t, "-", display.RiskPercentage)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.2346", formatFloat(1.23456789, 4))
	assert.Equal(t, "100", formatFloat(100.0, 2))
	assert.Equal(t, "-", formatFloat(math.NaN(), 2))
	assert.Equal(t, "-", formatFloat(math.Inf(1), 2))
	assert.Equal(t, "-", formatFloat(math.Inf(-1), 2))
}
