package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/life2you_mini/contractcalc/internal/calculator"
	"github.com/life2you_mini/contractcalc/internal/config"
)

// DefaultCheckInterval 默认检查间隔
const DefaultCheckInterval = 5 * time.Minute

// PriceAPI 价格查询接口
type PriceAPI interface {
	GetPrice(ctx context.Context, exchangeName, symbol string) (float64, error)
}

// PositionMetrics 一次仓位评估的快照
type PositionMetrics struct {
	Exchange         string    `json:"exchange"`
	Symbol           string    `json:"symbol"`
	Side             string    `json:"side"`
	CurrentPrice     float64   `json:"current_price"`
	Margin           float64   `json:"margin"`
	Leverage         float64   `json:"leverage"`
	PositionSize     float64   `json:"position_size"`
	LiquidationPrice float64   `json:"liquidation_price"`
	RiskPercentage   float64   `json:"risk_percentage"`
	BreakEvenPrice   float64   `json:"break_even_price"`
	TotalFeeAmount   float64   `json:"total_fee_amount"`
	ProfitAtCurrent  float64   `json:"profit_at_current"`
	Timestamp        time.Time `json:"timestamp"`
}

// PositionMonitor 仓位监控组件
// 按固定间隔用最新价格重算配置中各仓位的指标并记录日志，
// 最新快照和历史序列写入Redis供外部查看
type PositionMonitor struct {
	positions   []config.WatchPosition
	prices      PriceAPI
	defaults    calculator.RateOptions
	redisClient *redis.Client
	keyPrefix   string
	interval    time.Duration
	logger      *zap.Logger
}

// NewPositionMonitor 创建仓位监控组件
// redisClient 可以为nil，此时只输出日志不保存快照
func NewPositionMonitor(
	positions []config.WatchPosition,
	prices PriceAPI,
	defaults calculator.RateOptions,
	redisClient *redis.Client,
	keyPrefix string,
	interval time.Duration,
	logger *zap.Logger,
) *PositionMonitor {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}

	return &PositionMonitor{
		positions:   positions,
		prices:      prices,
		defaults:    defaults,
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		interval:    interval,
		logger:      logger.With(zap.String("component", "position_monitor")),
	}
}

// Start 启动监控，阻塞直到上下文取消
func (m *PositionMonitor) Start(ctx context.Context) error {
	m.logger.Info("启动仓位监控",
		zap.Int("positions", len(m.positions)),
		zap.Duration("interval", m.interval))

	// 立即执行一次检查
	m.checkAll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("仓位监控停止")
			return nil
		case <-ticker.C:
			m.checkAll(ctx)
		}
	}
}

// checkAll 评估全部监控仓位
func (m *PositionMonitor) checkAll(ctx context.Context) {
	for _, position := range m.positions {
		metrics, err := m.evaluatePosition(ctx, position)
		if err != nil {
			m.logger.Error("仓位评估失败",
				zap.Error(err),
				zap.String("exchange", position.Exchange),
				zap.String("symbol", position.Symbol))
			continue
		}

		m.logger.Info("仓位评估结果",
			zap.String("exchange", metrics.Exchange),
			zap.String("symbol", metrics.Symbol),
			zap.String("side", metrics.Side),
			zap.Float64("current_price", metrics.CurrentPrice),
			zap.Float64("liquidation_price", metrics.LiquidationPrice),
			zap.Float64("risk_percentage", metrics.RiskPercentage),
			zap.Float64("profit_at_current", metrics.ProfitAtCurrent))

		if err := m.saveMetrics(ctx, metrics); err != nil {
			m.logger.Warn("保存仓位快照失败",
				zap.Error(err),
				zap.String("symbol", metrics.Symbol))
		}
	}
}

// evaluatePosition 用最新价格评估单个仓位
// 监控仓位以当前价格作为开仓价，得到的是"现在开这个仓"的指标
func (m *PositionMonitor) evaluatePosition(ctx context.Context, position config.WatchPosition) (*PositionMetrics, error) {
	currentPrice, err := m.prices.GetPrice(ctx, position.Exchange, position.Symbol)
	if err != nil {
		return nil, fmt.Errorf("获取价格失败: %w", err)
	}

	mode := calculator.MarginMode(position.MarginMode)
	if mode == "" {
		mode = calculator.MarginIsolated
	}

	params := calculator.Params{
		OpenPrice:  currentPrice,
		Margin:     position.Margin,
		Leverage:   position.Leverage,
		MarginMode: mode,
		Side:       calculator.PositionSide(position.Side),
		Rates:      m.defaults,
	}
	result := calculator.Compute(params)

	return &PositionMetrics{
		Exchange:         position.Exchange,
		Symbol:           position.Symbol,
		Side:             position.Side,
		CurrentPrice:     currentPrice,
		Margin:           position.Margin,
		Leverage:         position.Leverage,
		PositionSize:     result.PositionSize,
		LiquidationPrice: result.LiquidationPrice,
		RiskPercentage:   result.RiskPercentage,
		BreakEvenPrice:   result.BreakEvenPrice,
		TotalFeeAmount:   result.TotalFeeAmount,
		ProfitAtCurrent:  result.ProfitAt(currentPrice),
		Timestamp:        time.Now(),
	}, nil
}

// saveMetrics 将快照写入Redis：最新值覆盖保存，历史按时间戳进入有序集合
func (m *PositionMonitor) saveMetrics(ctx context.Context, metrics *PositionMetrics) error {
	if m.redisClient == nil {
		return nil
	}

	data, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("序列化仓位快照失败: %w", err)
	}

	latestKey := fmt.Sprintf("%smonitor:latest:%s:%s", m.keyPrefix, metrics.Exchange, metrics.Symbol)
	if err := m.redisClient.Set(ctx, latestKey, data, 0).Err(); err != nil {
		return fmt.Errorf("保存最新快照失败: %w", err)
	}

	historyKey := fmt.Sprintf("%smonitor:history:%s:%s", m.keyPrefix, metrics.Exchange, metrics.Symbol)
	err = m.redisClient.ZAdd(ctx, historyKey, redis.Z{
		Score:  float64(metrics.Timestamp.Unix()),
		Member: data,
	}).Err()
	if err != nil {
		return fmt.Errorf("保存历史快照失败: %w", err)
	}

	return nil
}
