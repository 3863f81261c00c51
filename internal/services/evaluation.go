package services

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/life2you_mini/contractcalc/internal/calculator"
)

// 各类数值的展示精度
const (
	pricePlaces   = 4 // 价格
	amountPlaces  = 8 // 标的资产数量
	feePlaces     = 6 // 手续费、资金费
	percentPlaces = 2 // 百分比
	valuePlaces   = 2 // 计价货币金额
)

// ResultDisplay 用于展示的已舍入结果
// 计算核心全程不舍入，舍入只发生在这一层；
// 退化输入产生的 NaN/Inf 统一展示为 "-"
type ResultDisplay struct {
	PositionSize            string `json:"position_size"`
	PositionAmount          string `json:"position_amount"`
	LiquidationPrice        string `json:"liquidation_price"`
	LiquidationPricePercent string `json:"liquidation_price_percent"`
	RiskPercentage          string `json:"risk_percentage"`
	MaxLoss                 string `json:"max_loss"`
	MaxLossScope            string `json:"max_loss_scope"`
	OpenFeeAmount           string `json:"open_fee_amount"`
	CloseFeeAmount          string `json:"close_fee_amount"`
	TotalFeeAmount          string `json:"total_fee_amount"`
	FundingFeePerPeriod     string `json:"funding_fee_per_period"`
	FundingFeePerDay        string `json:"funding_fee_per_day"`
	BreakEvenPrice          string `json:"break_even_price"`
}

// FormatResult 将计算结果舍入为展示形式
func FormatResult(r calculator.Result) ResultDisplay {
	return ResultDisplay{
		PositionSize:            formatFloat(r.PositionSize, valuePlaces),
		PositionAmount:          formatFloat(r.PositionAmount, amountPlaces),
		LiquidationPrice:        formatFloat(r.LiquidationPrice, pricePlaces),
		LiquidationPricePercent: formatFloat(r.LiquidationPricePercent, percentPlaces),
		RiskPercentage:          formatFloat(r.RiskPercentage, percentPlaces),
		MaxLoss:                 formatFloat(r.MaxLoss, valuePlaces),
		MaxLossScope:            r.MaxLossScope,
		OpenFeeAmount:           formatFloat(r.OpenFeeAmount, feePlaces),
		CloseFeeAmount:          formatFloat(r.CloseFeeAmount, feePlaces),
		TotalFeeAmount:          formatFloat(r.TotalFeeAmount, feePlaces),
		FundingFeePerPeriod:     formatFloat(r.FundingFeePerPeriod, feePlaces),
		FundingFeePerDay:        formatFloat(r.FundingFeePerDay, feePlaces),
		BreakEvenPrice:          formatFloat(r.BreakEvenPrice, pricePlaces),
	}
}

// formatFloat 按指定小数位舍入，NaN/Inf 展示为 "-"
func formatFloat(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(v).Round(places).String()
}
