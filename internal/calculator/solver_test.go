package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeverageFromLiquidationPrice(t *testing.T) {
	tests := []struct {
		name             string
		openPrice        float64
		targetPrice      float64
		side             PositionSide
		expectedLeverage float64
	}{
		{
			name:             "多仓-目标价48300对应5倍杠杆",
			openPrice:        60000,
			targetPrice:      48300, // 60000 * (1 - 1/5 + 0.005)
			side:             Long,
			expectedLeverage: 5,
		},
		{
			name:             "空仓-目标价72300对应5倍杠杆",
			openPrice:        60000,
			targetPrice:      72300, // ratio 1.205, 1 / (1.205 - 1 - 0.005) = 5
			side:             Short,
			expectedLeverage: 5,
		},
		{
			name:             "空仓-目标价71700",
			openPrice:        60000,
			targetPrice:      71700,
			side:             Short,
			expectedLeverage: 1 / 0.19, // 1 / (1.195 - 1 - 0.005)
		},
		{
			name:             "多仓-目标价54300对应10倍杠杆",
			openPrice:        60000,
			targetPrice:      54300,
			side:             Long,
			expectedLeverage: 10,
		},
		{
			name:             "多仓-目标价高于开仓价不可达钳制为1",
			openPrice:        60000,
			targetPrice:      66000,
			side:             Long,
			expectedLeverage: 1,
		},
		{
			name:             "空仓-目标价低于开仓价不可达钳制为1",
			openPrice:        60000,
			targetPrice:      54000,
			side:             Short,
			expectedLeverage: 1,
		},
		{
			name:             "多仓-目标价过低杠杆不足1时钳制为1",
			openPrice:        60000,
			targetPrice:      100,
			side:             Long,
			expectedLeverage: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leverage := LeverageFromLiquidationPrice(tt.openPrice, tt.targetPrice, tt.side, 0.005)
			assert.InDelta(t, tt.expectedLeverage, leverage, 1e-9)
		})
	}
}

// 正向计算得到的强平价反推回来应得到原杠杆
// 空仓分支的维持保证金率取负号，与正向公式并非严格互逆，故只验证多仓
func TestLeverageFromLiquidationPrice_RoundTrip(t *testing.T) {
	for _, leverage := range []float64{2, 5, 10, 25, 100} {
		result := Compute(NewParams(60000, 20, leverage, MarginIsolated, Long))
		inverted := LeverageFromLiquidationPrice(60000, result.LiquidationPrice, Long, 0.005)
		assert.InDelta(t, leverage, inverted, 1e-6, "leverage=%v", leverage)
	}
}

func TestLeverageFromRiskPercentage(t *testing.T) {
	tests := []struct {
		name             string
		riskPercentage   float64
		maintenanceRate  float64
		expectedLeverage float64
	}{
		{
			name:             "风险幅度19.5%对应5倍杠杆",
			riskPercentage:   19.5,
			maintenanceRate:  0.005,
			expectedLeverage: 5, // 1 / (0.195 + 0.005)
		},
		{
			name:             "风险幅度9.5%对应10倍杠杆",
			riskPercentage:   9.5,
			maintenanceRate:  0.005,
			expectedLeverage: 10,
		},
		{
			name:             "维持保证金率非正时使用默认值",
			riskPercentage:   19.5,
			maintenanceRate:  0,
			expectedLeverage: 5,
		},
		{
			name:             "风险幅度过大杠杆不足1时钳制为1",
			riskPercentage:   200,
			maintenanceRate:  0.005,
			expectedLeverage: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leverage := LeverageFromRiskPercentage(tt.riskPercentage, Long, tt.maintenanceRate)
			assert.InDelta(t, tt.expectedLeverage, leverage, 1e-9)
		})
	}
}

// 风险幅度本身不带方向，反推结果与持仓方向无关
func TestLeverageFromRiskPercentage_SideIndependent(t *testing.T) {
	long := LeverageFromRiskPercentage(19.5, Long, 0.005)
	short := LeverageFromRiskPercentage(19.5, Short, 0.005)
	assert.Equal(t, long, short)
}

// 正向计算得到的风险幅度反推回来应得到原杠杆
func TestLeverageFromRiskPercentage_RoundTrip(t *testing.T) {
	for _, leverage := range []float64{2, 5, 10, 50} {
		result := Compute(NewParams(60000, 20, leverage, MarginIsolated, Long))
		inverted := LeverageFromRiskPercentage(result.RiskPercentage, Long, 0.005)
		assert.InDelta(t, leverage, inverted, 1e-6, "leverage=%v", leverage)
	}
}

// 两个反推函数的结果永远不低于1
func TestLeverageSolversFloor(t *testing.T) {
	assert.GreaterOrEqual(t, LeverageFromLiquidationPrice(60000, 60000, Long, 0.005), 1.0)
	assert.GreaterOrEqual(t, LeverageFromLiquidationPrice(60000, 0, Long, 0.005), 1.0)
	assert.GreaterOrEqual(t, LeverageFromRiskPercentage(0, Long, 0.005), 1.0)
	assert.GreaterOrEqual(t, LeverageFromRiskPercentage(10000, Short, 0.005), 1.0)
}
