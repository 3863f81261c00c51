package calculator

// PositionSide 持仓方向
type PositionSide string

const (
	Long  PositionSide = "long"  // 多仓
	Short PositionSide = "short" // 空仓
)

// Valid 判断持仓方向是否合法
func (s PositionSide) Valid() bool {
	return s == Long || s == Short
}

// MarginMode 保证金模式
type MarginMode string

const (
	MarginIsolated MarginMode = "isolated" // 逐仓
	MarginCross    MarginMode = "cross"    // 全仓
)

// Valid 判断保证金模式是否合法
func (m MarginMode) Valid() bool {
	return m == MarginIsolated || m == MarginCross
}

// MaxLossLabel 返回最大亏损的展示说明
// 逐仓的亏损以本仓位保证金为限，全仓则整个账户资金承担风险。
// 该区别只影响展示文案，不参与任何数值计算
func (m MarginMode) MaxLossLabel() string {
	if m == MarginCross {
		return "全仓模式：全部账户资金承担风险"
	}
	return "逐仓模式：亏损以本仓位保证金为限"
}

// 默认费率常量
const (
	DefaultMaintenanceRate    = 0.005  // 维持保证金率 0.5%
	DefaultOpenFeeRate        = 0.0002 // 开仓手续费率 0.02%
	DefaultCloseFeeRate       = 0.0002 // 平仓手续费率 0.02%
	DefaultFundingRate        = 0.0    // 资金费率
	DefaultFundingPeriodHours = 8.0    // 资金费结算周期(小时)
)

// RateOptions 费率配置
// 所有字段均可由调用方覆盖，缺省值见 DefaultRateOptions
type RateOptions struct {
	MaintenanceRate    float64 `json:"maintenance_rate"`     // 维持保证金率(小数)
	OpenFeeRate        float64 `json:"open_fee_rate"`        // 开仓手续费率(小数)
	CloseFeeRate       float64 `json:"close_fee_rate"`       // 平仓手续费率(小数)
	FundingRate        float64 `json:"funding_rate"`         // 每期资金费率(小数)
	FundingPeriodHours float64 `json:"funding_period_hours"` // 资金费结算周期(小时)
}

// DefaultRateOptions 返回默认费率配置
func DefaultRateOptions() RateOptions {
	return RateOptions{
		MaintenanceRate:    DefaultMaintenanceRate,
		OpenFeeRate:        DefaultOpenFeeRate,
		CloseFeeRate:       DefaultCloseFeeRate,
		FundingRate:        DefaultFundingRate,
		FundingPeriodHours: DefaultFundingPeriodHours,
	}
}

// withDefaults 结算周期必须为正，非法值回退到默认的8小时
func (o RateOptions) withDefaults() RateOptions {
	if o.FundingPeriodHours <= 0 {
		o.FundingPeriodHours = DefaultFundingPeriodHours
	}
	return o
}

// Params 合约计算的输入参数，构造后不再修改
type Params struct {
	OpenPrice  float64      `json:"open_price"`  // 开仓价格
	Margin     float64      `json:"margin"`      // 保证金(计价货币)
	Leverage   float64      `json:"leverage"`    // 杠杆倍数
	MarginMode MarginMode   `json:"margin_mode"` // 保证金模式
	Side       PositionSide `json:"side"`        // 持仓方向
	Rates      RateOptions  `json:"rates"`       // 费率配置
}

// NewParams 使用默认费率构造计算参数
// 需要覆盖个别费率时，在返回值的 Rates 字段上直接修改
func NewParams(openPrice, margin, leverage float64, mode MarginMode, side PositionSide) Params {
	return Params{
		OpenPrice:  openPrice,
		Margin:     margin,
		Leverage:   leverage,
		MarginMode: mode,
		Side:       side,
		Rates:      DefaultRateOptions(),
	}
}
