package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/life2you_mini/contractcalc/internal/config"
	"github.com/life2you_mini/contractcalc/internal/exchange"
	"github.com/life2you_mini/contractcalc/internal/market"
	"github.com/life2you_mini/contractcalc/internal/monitor"
)

// Service 合约计算服务，负责组装各组件并管理生命周期
type Service struct {
	ctx             context.Context
	cancel          context.CancelFunc
	logger          *zap.Logger
	redisClient     *redis.Client
	exchangeFactory *exchange.ExchangeFactory
	calcService     *CalculatorService
	positionMonitor *monitor.PositionMonitor
	wg              sync.WaitGroup
}

// NewService 创建合约计算服务
func NewService(parentCtx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	ctx, cancel := context.WithCancel(parentCtx)

	// Redis不可用时降级运行：价格不走缓存，监控快照不落盘
	redisClient, err := newRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("Redis连接失败，价格缓存与监控快照不可用", zap.Error(err))
		redisClient = nil
	}

	exchangeFactory := exchange.CreateExchangeFactory(
		logger,
		&exchange.BinanceConfig{
			Enabled:   cfg.Exchanges.Binance.Enabled,
			APIKey:    cfg.Exchanges.Binance.APIKey,
			APISecret: cfg.Exchanges.Binance.APISecret,
		},
		&exchange.OKXConfig{
			Enabled:    cfg.Exchanges.OKX.Enabled,
			APIKey:     cfg.Exchanges.OKX.APIKey,
			APISecret:  cfg.Exchanges.OKX.APISecret,
			Passphrase: cfg.Exchanges.OKX.Passphrase,
		},
	)
	if len(exchangeFactory.List()) == 0 {
		cancel()
		return nil, fmt.Errorf("没有可用的交易所")
	}

	catalog := market.NewSymbolCatalog(cfg.Market.AllowedSymbols)
	priceService := market.NewPriceService(
		exchangeFactory,
		redisClient,
		cfg.Redis.KeyPrefix,
		time.Duration(cfg.Market.PriceCacheTTLSeconds)*time.Second,
		logger,
	)

	defaults := cfg.Calculator.RateOptions()
	calcService := NewCalculatorService(logger, exchangeFactory, priceService, catalog, defaults)

	var positionMonitor *monitor.PositionMonitor
	if cfg.Monitor.Enabled && len(cfg.Monitor.Positions) > 0 {
		positionMonitor = monitor.NewPositionMonitor(
			cfg.Monitor.Positions,
			priceService,
			defaults,
			redisClient,
			cfg.Redis.KeyPrefix,
			time.Duration(cfg.Monitor.CheckIntervalMinutes)*time.Minute,
			logger,
		)
	}

	return &Service{
		ctx:             ctx,
		cancel:          cancel,
		logger:          logger,
		redisClient:     redisClient,
		exchangeFactory: exchangeFactory,
		calcService:     calcService,
		positionMonitor: positionMonitor,
	}, nil
}

// Calculator 返回合约测算服务
func (s *Service) Calculator() *CalculatorService {
	return s.calcService
}

// Start 启动服务
func (s *Service) Start() {
	if s.positionMonitor != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.positionMonitor.Start(s.ctx); err != nil {
				s.logger.Error("仓位监控异常退出", zap.Error(err))
			}
		}()
	}
}

// Stop 停止服务，等待后台任务结束
func (s *Service) Stop(shutdownCtx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		return fmt.Errorf("等待后台任务结束超时")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			return fmt.Errorf("关闭Redis连接失败: %w", err)
		}
	}
	return nil
}

// newRedisClient 创建Redis客户端并验证连通性
func newRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
