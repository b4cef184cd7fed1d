package svc

import (
	"context"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"trademo/internal/application/port"
	"trademo/internal/application/service"
	"trademo/internal/infrastructure/config"
	"trademo/internal/infrastructure/marketdata/yahoo"
	"trademo/internal/infrastructure/storage/memory"
	"trademo/internal/infrastructure/storage/postgres"
	redisstore "trademo/internal/infrastructure/storage/redis"
	"trademo/internal/infrastructure/storage/sqlite"
)

// ServiceContext owns every runtime dependency: the selected store, the
// market-data client, and the application services built on top. It is the
// single initialization entry point; Close releases resources in reverse
// order of acquisition.
type ServiceContext struct {
	Config *config.Config

	Store  port.Store
	Prices port.PriceProvider

	Portfolios *service.PortfolioService
	Orders     *service.OrderService
	Quotes     *service.QuoteService

	closerChain []func() error
}

func New(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{
		Config:      cfg,
		closerChain: make([]func() error, 0),
	}

	if err := sc.initStore(ctx); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("storage initialization failed: %w", err)
	}

	sc.Prices = yahoo.NewClient(
		cfg.MarketData.BaseURL,
		time.Duration(cfg.MarketData.TimeoutSec)*time.Second,
		cfg.MarketData.MaxRetries,
	)

	startingCash := decimal.NewFromFloat(cfg.Portfolio.StartingCash)
	sc.Portfolios = service.NewPortfolioService(sc.Store, startingCash)
	sc.Orders = service.NewOrderService(service.OrderServiceDeps{
		Store:      sc.Store,
		Prices:     sc.Prices,
		Portfolios: sc.Portfolios,
		// The document stores have no cross-call isolation, so orders for one
		// user are serialized in-process.
		Locker: memory.NewKeyedLock(),
	})
	sc.Quotes = service.NewQuoteService(sc.Prices)

	return sc, nil
}

func (sc *ServiceContext) initStore(ctx context.Context) error {
	switch sc.Config.Storage.Driver {
	case "memory":
		sc.Store = memory.NewStore()
		log.Info().Msg("in-memory store initialized")
		return nil

	case "sqlite":
		store, err := sqlite.New(sc.Config.Storage.SQLite.Path)
		if err != nil {
			return err
		}
		sc.Store = store
		sc.closerChain = append(sc.closerChain, func() error {
			log.Info().Msg("closing sqlite connection")
			return store.Close()
		})
		log.Info().Str("path", sc.Config.Storage.SQLite.Path).Msg("sqlite store initialized")
		return nil

	case "redis":
		return sc.initRedis(ctx)

	case "postgres":
		store, err := postgres.New(sc.Config.Storage.Postgres.DSN)
		if err != nil {
			return err
		}
		sc.Store = store
		sc.closerChain = append(sc.closerChain, func() error {
			log.Info().Msg("closing postgres connection")
			return store.Close()
		})
		log.Info().Msg("postgres store initialized")
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, sc.Config.Storage.Driver)
	}
}

func (sc *ServiceContext) initRedis(ctx context.Context) error {
	rdb := redisclient.NewClient(&redisclient.Options{
		Addr:     sc.Config.Storage.Redis.Addr,
		Password: sc.Config.Storage.Redis.Password,
		DB:       sc.Config.Storage.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	sc.Store = redisstore.New(rdb, sc.Config.Storage.Redis.Prefix)
	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", sc.Config.Storage.Redis.Addr).
		Int("db", sc.Config.Storage.Redis.DB).
		Msg("redis store initialized")
	return nil
}

// Close shuts down resources in reverse order of acquisition.
func (sc *ServiceContext) Close() error {
	var err error
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if e := sc.closerChain[i](); e != nil {
			log.Error().Err(e).Msg("error closing resource")
			if err == nil {
				err = e
			}
		}
	}
	return err
}
