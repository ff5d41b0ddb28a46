package bootstrap

import (
	"context"
	"earn-server/internal/bridge"
	"earn-server/internal/config"
	"earn-server/internal/kv"
	"earn-server/internal/ledger"
	"earn-server/internal/observability"
	"earn-server/internal/ratelimit"
	"earn-server/internal/store"
	"earn-server/internal/sweeper"
	"fmt"
	"io"
	"time"

	accountHandler "earn-server/internal/account/handler"
	accountProcessor "earn-server/internal/account/processor"
	"earn-server/internal/auth/telegram"
	"earn-server/internal/clients/adnetwork"
	kafkaClient "earn-server/internal/clients/kafka"
	redisClient "earn-server/internal/clients/redis"
	telegramClient "earn-server/internal/clients/telegram"
	referralHandler "earn-server/internal/referral/handler"
	referralProcessor "earn-server/internal/referral/processor"
	rewardHandler "earn-server/internal/rewards/handler"
	rewardProcessor "earn-server/internal/rewards/processor"
	withdrawalHandler "earn-server/internal/withdrawal/handler"
	withdrawalProcessor "earn-server/internal/withdrawal/processor"
)

// attemptRetention is how long idle ad attempt state is kept
const attemptRetention = 10 * time.Minute

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	KV     kv.Store
	Ledger *ledger.Service
	Logger *observability.Logger

	// Middleware
	AuthHandler telegram.Handler
	RateLimiter *ratelimit.Service

	// Handlers
	AccountHandler    accountHandler.Handler
	RewardHandler     rewardHandler.Handler
	WithdrawalHandler withdrawalHandler.Handler
	ReferralHandler   referralHandler.Handler

	// Background workers
	Sweeper *sweeper.Worker

	// Closed on shutdown
	closers []io.Closer
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	var err error
	deps.KV, err = deps.openStore(ctx, cfg, logger)
	if err != nil {
		deps.Cleanup()
		return nil, err
	}

	deps.Ledger = ledger.NewService(deps.KV, ledger.RulesFromConfig(cfg.Rewards), logger)

	// Initialize clients
	ads := adnetwork.NewClient(cfg.AdNetwork, logger)
	hostBridge, err := deps.newBridge(ctx, cfg, logger)
	if err != nil {
		deps.Cleanup()
		return nil, err
	}

	deps.AuthHandler = telegram.New(cfg.Telegram, logger)
	deps.RateLimiter = ratelimit.NewService(cfg.Server.RateLimitRPM, logger)

	// Initialize rewards processor and handler
	rewardProc := rewardProcessor.New(deps.Ledger, ads, cfg.Rewards, logger)
	deps.RewardHandler = rewardHandler.New(rewardProc, logger)

	// Initialize withdrawal processor and handler
	withdrawalProc := withdrawalProcessor.New(deps.Ledger, ads, hostBridge, cfg.Rewards, logger)
	deps.WithdrawalHandler = withdrawalHandler.New(withdrawalProc, logger)

	// Initialize referral processor and handler
	referralProc := referralProcessor.New(deps.Ledger, hostBridge, cfg.Rewards.ReferralBonus, cfg.Rewards.ReferralCap, cfg.Telegram.AppLink, logger)
	deps.ReferralHandler = referralHandler.New(referralProc, logger)

	// Initialize account processor and handler
	accountProc := accountProcessor.New(deps.Ledger, referralProc, rewardProc, deps.Ledger.Rules(), logger)
	deps.AccountHandler = accountHandler.New(accountProc, logger)

	deps.Sweeper = sweeper.New(logger, cfg.Server.SweepInterval,
		sweeper.Task{Name: "ad_attempts", Run: func(now time.Time) int {
			return rewardProc.Prune(now.Add(-attemptRetention))
		}},
		sweeper.Task{Name: "withdrawal_windows", Run: withdrawalProc.Sweep},
		sweeper.Task{Name: "rate_limits", Run: func(now time.Time) int {
			return deps.RateLimiter.Prune(now.Add(-time.Minute))
		}},
	)

	return deps, nil
}

// openStore connects the configured key/value backend
func (d *Dependencies) openStore(ctx context.Context, cfg *config.Config, logger *observability.Logger) (kv.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pg, err := store.New(cfg.Database.ConnectionString(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		d.closers = append(d.closers, pg)
		if err := pg.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return pg, nil

	case config.StoreBackendRedis:
		rc, err := redisClient.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		d.closers = append(d.closers, rc)
		return rc, nil

	case config.StoreBackendLevelDB:
		ldb, err := kv.OpenLevelDB(cfg.Store.LevelDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open leveldb: %w", err)
		}
		d.closers = append(d.closers, ldb)
		return ldb, nil

	default:
		logger.Warn(ctx, "using in-memory store, user state is lost on restart")
		return kv.NewMemoryStore(), nil
	}
}

// newBridge builds the host bridge from whichever sinks are configured
func (d *Dependencies) newBridge(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*bridge.Bridge, error) {
	var sinks []bridge.Sink

	if cfg.Telegram.BotToken != "" && cfg.Telegram.OperatorChatID != 0 {
		bot, err := telegramClient.NewClient(cfg.Telegram.BotToken, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create telegram client: %w", err)
		}
		sinks = append(sinks, bridge.NewTelegramSink(bot, cfg.Telegram.OperatorChatID))
	}

	if cfg.Kafka.Enabled {
		producer := kafkaClient.NewProducer(kafkaClient.ProducerConfig{
			Brokers: cfg.Kafka.BrokerList(),
			Topic:   cfg.Kafka.Topic,
		}, logger)
		d.closers = append(d.closers, producer)
		sinks = append(sinks, bridge.NewKafkaSink(producer))
	}

	if len(sinks) == 0 {
		logger.Warn(ctx, "no host bridge sinks configured, bridge payloads are dropped")
	}
	b := bridge.New(logger, sinks...)
	d.closers = append(d.closers, b)
	return b, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			d.Logger.Error(context.Background(), "failed to close resource", err)
		}
	}
	d.closers = nil
}
