package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/life2you_mini/contractcalc/internal/calculator"
	"github.com/life2you_mini/contractcalc/internal/market"
)

// PriceProvider 价格查询接口，由 market.PriceService 实现
type PriceProvider interface {
	GetPrice(ctx context.Context, exchangeName, symbol string) (float64, error)
}

// EvaluateRequest 一次合约测算请求
type EvaluateRequest struct {
	Exchange   string                  `json:"exchange"`
	Symbol     string                  `json:"symbol"`
	OpenPrice  float64                 `json:"open_price"` // 为0时使用实时价格
	Margin     float64                 `json:"margin"`
	Leverage   float64                 `json:"leverage"`
	Side       calculator.PositionSide `json:"side"`
	MarginMode calculator.MarginMode   `json:"margin_mode"`
	// Rates 不为nil时直接使用，跳过交易所费率查询
	Rates *calculator.RateOptions `json:"rates,omitempty"`
}

// Evaluation 一次合约测算的完整结果
type Evaluation struct {
	Params      calculator.Params `json:"params"`
	Result      calculator.Result `json:"result"`
	Display     ResultDisplay     `json:"display"`
	EvaluatedAt time.Time         `json:"evaluated_at"`
}

// CalculatorService 合约测算服务
// 负责输入校验、费率和价格的解析，再交给计算核心。
// 核心本身不校验输入，所有拦截都发生在这一层
type CalculatorService struct {
	logger    *zap.Logger
	exchanges market.ExchangeGetter
	prices    PriceProvider
	catalog   *market.SymbolCatalog
	defaults  calculator.RateOptions
}

// NewCalculatorService 创建合约测算服务
func NewCalculatorService(
	logger *zap.Logger,
	exchanges market.ExchangeGetter,
	prices PriceProvider,
	catalog *market.SymbolCatalog,
	defaults calculator.RateOptions,
) *CalculatorService {
	return &CalculatorService{
		logger:    logger.With(zap.String("component", "calculator_service")),
		exchanges: exchanges,
		prices:    prices,
		catalog:   catalog,
		defaults:  defaults,
	}
}

// Evaluate 执行一次合约测算
func (s *CalculatorService) Evaluate(ctx context.Context, req EvaluateRequest) (*Evaluation, error) {
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	// 开仓价缺省时取实时价格
	openPrice := req.OpenPrice
	if openPrice <= 0 {
		price, err := s.prices.GetPrice(ctx, req.Exchange, req.Symbol)
		if err != nil {
			return nil, fmt.Errorf("获取实时价格失败: %w", err)
		}
		openPrice = price
	}

	rates := s.resolveRates(ctx, &req)

	params := calculator.Params{
		OpenPrice:  openPrice,
		Margin:     req.Margin,
		Leverage:   req.Leverage,
		MarginMode: req.MarginMode,
		Side:       req.Side,
		Rates:      rates,
	}
	result := calculator.Compute(params)

	s.logger.Debug("合约测算完成",
		zap.String("exchange", req.Exchange),
		zap.String("symbol", req.Symbol),
		zap.Float64("open_price", openPrice),
		zap.Float64("leverage", req.Leverage),
		zap.Float64("liquidation_price", result.LiquidationPrice),
		zap.Float64("risk_percentage", result.RiskPercentage))

	return &Evaluation{
		Params:      params,
		Result:      result,
		Display:     FormatResult(result),
		EvaluatedAt: time.Now(),
	}, nil
}

// validateRequest 校验测算请求
func (s *CalculatorService) validateRequest(req *EvaluateRequest) error {
	if err := s.catalog.Require(req.Symbol); err != nil {
		return err
	}
	if req.Margin <= 0 {
		return fmt.Errorf("保证金必须大于0")
	}
	if req.Leverage < 1 {
		return fmt.Errorf("杠杆倍数不能低于1")
	}
	if req.OpenPrice < 0 {
		return fmt.Errorf("开仓价格不能为负数")
	}
	if !req.Side.Valid() {
		return fmt.Errorf("持仓方向非法: %s", req.Side)
	}
	// 保证金模式缺省按逐仓处理
	if req.MarginMode == "" {
		req.MarginMode = calculator.MarginIsolated
	}
	if !req.MarginMode.Valid() {
		return fmt.Errorf("保证金模式非法: %s", req.MarginMode)
	}
	return nil
}

// resolveRates 解析本次测算使用的费率
// 请求显式指定费率时直接使用；否则在配置默认值的基础上，
// 尽量用交易所的真实费率覆盖，查询失败时保留默认值
func (s *CalculatorService) resolveRates(ctx context.Context, req *EvaluateRequest) calculator.RateOptions {
	if req.Rates != nil {
		return *req.Rates
	}

	rates := s.defaults

	ex, found := s.exchanges.Get(req.Exchange)
	if !found {
		s.logger.Warn("找不到交易所客户端，使用默认费率",
			zap.String("exchange", req.Exchange))
		return rates
	}

	if fees, err := ex.GetTradingFeeRates(ctx, req.Symbol); err != nil {
		s.logger.Warn("获取手续费率失败，使用默认值",
			zap.Error(err),
			zap.String("symbol", req.Symbol))
	} else {
		// 按市价开平仓估算，两边都取taker费率
		rates.OpenFeeRate = fees.Taker
		rates.CloseFeeRate = fees.Taker
	}

	if mmr, err := ex.GetMaintenanceMarginRate(ctx, req.Symbol); err != nil {
		s.logger.Warn("获取维持保证金率失败，使用默认值",
			zap.Error(err),
			zap.String("symbol", req.Symbol))
	} else if mmr > 0 {
		rates.MaintenanceRate = mmr
	}

	if funding, err := ex.GetFundingRate(ctx, req.Symbol); err != nil {
		s.logger.Warn("获取资金费率失败，按0计算",
			zap.Error(err),
			zap.String("symbol", req.Symbol))
	} else {
		rates.FundingRate = funding.FundingRate
	}

	return rates
}

// SolveLeverageFromLiquidationPrice 由目标强平价反推杠杆倍数
func (s *CalculatorService) SolveLeverageFromLiquidationPrice(
	openPrice, targetLiquidationPrice float64,
	side calculator.PositionSide,
	maintenanceRate float64,
) (float64, error) {
	if openPrice <= 0 {
		return 0, fmt.Errorf("开仓价格必须大于0")
	}
	if targetLiquidationPrice <= 0 {
		return 0, fmt.Errorf("目标强平价必须大于0")
	}
	if !side.Valid() {
		return 0, fmt.Errorf("持仓方向非法: %s", side)
	}
	return calculator.LeverageFromLiquidationPrice(openPrice, targetLiquidationPrice, side, maintenanceRate), nil
}

// SolveLeverageFromRiskPercentage 由可承受风险幅度反推杠杆倍数
func (s *CalculatorService) SolveLeverageFromRiskPercentage(
	riskPercentage float64,
	side calculator.PositionSide,
	maintenanceRate float64,
) (float64, error) {
	if riskPercentage < 0 {
		return 0, fmt.Errorf("风险幅度不能为负数")
	}
	if !side.Valid() {
		return 0, fmt.Errorf("持仓方向非法: %s", side)
	}
	return calculator.LeverageFromRiskPercentage(riskPercentage, side, maintenanceRate), nil
}
