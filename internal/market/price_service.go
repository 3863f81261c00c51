package market

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/life2you_mini/contractcalc/internal/exchange"
)

// ExchangeGetter 按名称查找交易所实例，由 exchange.ExchangeFactory 实现
type ExchangeGetter interface {
	Get(name string) (exchange.Exchange, bool)
}

// PriceService 交易对价格查询服务
// 价格在Redis中按固定TTL缓存，缓存未命中时回源到交易所。
// Redis不可用时退化为每次直接查询交易所
type PriceService struct {
	exchanges   ExchangeGetter
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
	logger      *zap.Logger
}

// NewPriceService 创建价格查询服务
// redisClient 可以为nil，此时不使用缓存
func NewPriceService(
	exchanges ExchangeGetter,
	redisClient *redis.Client,
	keyPrefix string,
	ttl time.Duration,
	logger *zap.Logger,
) *PriceService {
	return &PriceService{
		exchanges:   exchanges,
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		ttl:         ttl,
		logger:      logger.With(zap.String("component", "price_service")),
	}
}

// priceKey 价格缓存键，如 contract_calc:price:Binance:BTC/USDT
func (s *PriceService) priceKey(exchangeName, symbol string) string {
	return fmt.Sprintf("%sprice:%s:%s", s.keyPrefix, exchangeName, symbol)
}

// GetPrice 获取交易对最新价格，优先返回缓存值
func (s *PriceService) GetPrice(ctx context.Context, exchangeName, symbol string) (float64, error) {
	key := s.priceKey(exchangeName, symbol)

	// 先查缓存
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, key).Float64()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			s.logger.Warn("读取价格缓存失败",
				zap.Error(err),
				zap.String("key", key))
		}
	}

	// 回源到交易所
	ex, found := s.exchanges.Get(exchangeName)
	if !found {
		return 0, fmt.Errorf("找不到交易所客户端: %s", exchangeName)
	}

	price, err := ex.GetPrice(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("获取价格失败: %w", err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("交易所返回非法价格: %v", price)
	}

	// 写缓存失败不影响本次查询
	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, key, price, s.ttl).Err(); err != nil {
			s.logger.Warn("写入价格缓存失败",
				zap.Error(err),
				zap.String("key", key))
		}
	}

	return price, nil
}
