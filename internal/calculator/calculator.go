package calculator

import "math"

// breakEvenFeePad 保本价在手续费偏移上附加的安全系数
// 刻意保留10%的保守余量，因此保本价不是精确的费用平衡点
const breakEvenFeePad = 1.1

// PriceEvaluator 持有一次计算的中间量，可对任意目标价格反复求盈亏
// 值对象，复制廉价，不持有任何外部状态
type PriceEvaluator struct {
	openPrice float64
	margin    float64
	unitSize  float64 // 仓位数量(标的资产)
	totalFee  float64 // 开平仓手续费合计
	side      PositionSide
}

// ProfitAt 返回以指定价格平仓的盈亏(已扣除开平仓手续费)
func (e PriceEvaluator) ProfitAt(price float64) float64 {
	if e.side == Short {
		return (e.openPrice-price)*e.unitSize - e.totalFee
	}
	return (price-e.openPrice)*e.unitSize - e.totalFee
}

// ProfitPercentAt 返回以指定价格平仓的收益率(相对保证金，百分比)
func (e PriceEvaluator) ProfitPercentAt(price float64) float64 {
	return e.ProfitAt(price) / e.margin * 100
}

// Result 合约计算结果，由 Params 唯一确定
type Result struct {
	PositionSize            float64        `json:"position_size"`             // 名义仓位价值(计价货币)
	PositionAmount          float64        `json:"position_amount"`           // 仓位数量(标的资产)
	LiquidationPrice        float64        `json:"liquidation_price"`         // 预估强平价格
	LiquidationPricePercent float64        `json:"liquidation_price_percent"` // 强平价相对开仓价的偏移(%)，带方向
	RiskPercentage          float64        `json:"risk_percentage"`           // 触发强平所需的反向波动幅度(%)，恒为非负
	MaxLoss                 float64        `json:"max_loss"`                  // 最大亏损，数值上恒等于保证金
	MaxLossScope            string         `json:"max_loss_scope"`            // 最大亏损说明文案，仅取决于保证金模式
	OpenFeeAmount           float64        `json:"open_fee_amount"`           // 开仓手续费
	CloseFeeAmount          float64        `json:"close_fee_amount"`          // 平仓手续费
	TotalFeeAmount          float64        `json:"total_fee_amount"`          // 手续费合计
	FundingFeePerPeriod     float64        `json:"funding_fee_per_period"`    // 每期资金费
	FundingFeePerDay        float64        `json:"funding_fee_per_day"`       // 折算到每日的资金费
	BreakEvenPrice          float64        `json:"break_even_price"`          // 保本价(含10%安全余量)
	Evaluator               PriceEvaluator `json:"-"`                         // 任意价格的盈亏求值器
}

// ProfitAt 等价于 Result.Evaluator.ProfitAt
func (r Result) ProfitAt(price float64) float64 {
	return r.Evaluator.ProfitAt(price)
}

// ProfitPercentAt 等价于 Result.Evaluator.ProfitPercentAt
func (r Result) ProfitPercentAt(price float64) float64 {
	return r.Evaluator.ProfitPercentAt(price)
}

// Compute 由输入参数推导全部仓位指标
//
// 纯函数，无任何内部状态，相同输入必然得到完全一致的输出。
// 本函数不做输入校验：开仓价为0、杠杆为0等退化输入会按 IEEE 754
// 语义产生 NaN/Inf 并原样带出，是否拦截由调用方决定
func Compute(p Params) Result {
	rates := p.Rates.withDefaults()

	positionSize := p.Margin * p.Leverage
	positionAmount := positionSize / p.OpenPrice

	openFee := positionSize * rates.OpenFeeRate
	closeFee := positionSize * rates.CloseFeeRate
	totalFee := openFee + closeFee

	// 强平价：1/杠杆 是恰好亏光保证金的价格波动幅度，
	// 维持保证金率进一步压缩可承受的反向波动空间
	var liqPrice float64
	if p.Side == Short {
		liqPrice = p.OpenPrice * (1 + 1/p.Leverage - rates.MaintenanceRate)
	} else {
		liqPrice = p.OpenPrice * (1 - 1/p.Leverage + rates.MaintenanceRate)
	}

	riskPct := math.Abs(liqPrice-p.OpenPrice) / p.OpenPrice * 100
	liqPct := (liqPrice - p.OpenPrice) / p.OpenPrice * 100

	fundingPerPeriod := positionSize * rates.FundingRate
	fundingPerDay := fundingPerPeriod / rates.FundingPeriodHours * 24

	// 保本价偏移 = 手续费占名义价值的比例，再乘安全系数
	feeOffset := totalFee / positionSize * breakEvenFeePad
	var breakEven float64
	if p.Side == Short {
		breakEven = p.OpenPrice * (1 - feeOffset)
	} else {
		breakEven = p.OpenPrice * (1 + feeOffset)
	}

	return Result{
		PositionSize:            positionSize,
		PositionAmount:          positionAmount,
		LiquidationPrice:        liqPrice,
		LiquidationPricePercent: liqPct,
		RiskPercentage:          riskPct,
		MaxLoss:                 p.Margin,
		MaxLossScope:            p.MarginMode.MaxLossLabel(),
		OpenFeeAmount:           openFee,
		CloseFeeAmount:          closeFee,
		TotalFeeAmount:          totalFee,
		FundingFeePerPeriod:     fundingPerPeriod,
		FundingFeePerDay:        fundingPerDay,
		BreakEvenPrice:          breakEven,
		Evaluator: PriceEvaluator{
			openPrice: p.OpenPrice,
			margin:    p.Margin,
			unitSize:  positionAmount,
			totalFee:  totalFee,
			side:      p.Side,
		},
	}
}
