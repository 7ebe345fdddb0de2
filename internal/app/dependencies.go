package app

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/bus"
	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/metrics"
	"github.com/vladislavdragonenkov/foodstream/internal/service/cart"
	"github.com/vladislavdragonenkov/foodstream/internal/service/catalog"
	"github.com/vladislavdragonenkov/foodstream/internal/service/checkout"
	"github.com/vladislavdragonenkov/foodstream/internal/service/favorites"
	"github.com/vladislavdragonenkov/foodstream/internal/service/miniplayer"
	"github.com/vladislavdragonenkov/foodstream/internal/service/orders"
	filestore "github.com/vladislavdragonenkov/foodstream/internal/storage/file"
	"github.com/vladislavdragonenkov/foodstream/internal/storage/memory"
	"github.com/vladislavdragonenkov/foodstream/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/foodstream/internal/storage/redis"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	StateStore domain.StateStore
	OutboxRepo domain.OutboxRepository
	Bus        *bus.Bus
	Metrics    *metrics.StoreMetrics

	Catalog    *catalog.Source
	Cart       *cart.Store
	Orders     *orders.Store
	Favorites  *favorites.Set
	Checkout   *checkout.Service
	MiniPlayer *miniplayer.Store

	Logger  *log.Entry
	closers []io.Closer
}

// NewDependencies создаёт state store по конфигурации и поднимает на нём
// все сервисы приложения. Восстановление снимков происходит здесь же.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		OutboxRepo: memory.NewOutboxRepository(),
		Bus:        bus.New(logger.WithField("component", "event-bus")),
		Metrics:    metrics.NewStoreMetrics(),
		Logger:     logger,
	}

	if err := deps.initStateStore(ctx, cfg); err != nil {
		return nil, err
	}

	deps.Catalog = catalog.NewSource(catalog.DefaultItems())
	deps.Cart = cart.New(ctx, deps.StateStore, deps.Bus, deps.Metrics, logger.WithField("component", "cart-store"))
	deps.Orders = orders.New(ctx, deps.StateStore, deps.Bus, deps.Metrics, logger.WithField("component", "orders-store"))
	deps.Orders.SetOutbox(deps.OutboxRepo)
	deps.Favorites = favorites.New(ctx, deps.StateStore, deps.Bus, deps.Metrics, logger.WithField("component", "favorites-set"))
	deps.MiniPlayer = miniplayer.New(ctx, deps.StateStore, deps.Bus, logger.WithField("component", "miniplayer-store"))

	deps.Checkout = checkout.New(deps.Cart, deps.Orders, deps.OutboxRepo, deps.Metrics, logger.WithField("component", "checkout-service"))
	deps.Checkout.SetDeliveryFee(cfg.DeliveryFeeMinor)

	return deps, nil
}

func (d *Dependencies) initStateStore(ctx context.Context, cfg Config) error {
	switch cfg.Storage {
	case StorageMemory, "":
		d.StateStore = memory.NewStateStore()
	case StorageFile:
		store, err := filestore.NewStateStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("init file state store: %w", err)
		}
		d.StateStore = store
	case StorageRedis:
		store, err := redisstore.NewStateStore(ctx, redisstore.Options{Addr: cfg.RedisAddr})
		if err != nil {
			return fmt.Errorf("init redis state store: %w", err)
		}
		d.StateStore = store
		if closer, ok := store.(io.Closer); ok {
			d.closers = append(d.closers, closer)
		}
	case StoragePostgres:
		pg, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("init postgres state store: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return fmt.Errorf("apply postgres migrations: %w", err)
		}
		d.StateStore = postgres.NewStateStore(pg)
		d.closers = append(d.closers, pg)
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	d.Logger.WithField("storage", cfg.Storage).Info("state store initialized")
	return nil
}

// Close освобождает ресурсы хранилищ.
func (d *Dependencies) Close() {
	for _, closer := range d.closers {
		if err := closer.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close storage")
		}
	}
}
