package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"branakids/navigation/internal/client"
	"branakids/navigation/internal/config"
	"branakids/navigation/internal/repository"
	"branakids/navigation/internal/server"
	"branakids/navigation/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.StorefrontClient
	Repository repository.CartRepository
	Notifier   *storage.RedisNotifier

	Server *server.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	container.db = db
	container.Repository = repository.NewCartRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		db.Close()
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")
	container.redis = rdb

	container.Notifier = storage.NewRedisNotifier(rdb, cfg.Redis.StorageChannel)
	container.Client = client.NewStorefrontClient(cfg.Storefront)

	container.Server = server.New(cfg.Server, cfg.Navigation, server.Dependencies{
		Storefront: container.Client,
		Carts:      container.Repository,
		Wishlist: func(key string) storage.WishlistReader {
			return storage.NewRedisWishlist(rdb, key)
		},
		Storage:   container.Notifier,
		Announcer: container.Notifier,
	})

	return container, nil
}

// Run serves navigation sessions until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	// Forward storage changes to open sessions
	g.Go(func() error {
		return c.Notifier.Run(ctx)
	})

	g.Go(func() error {
		return c.Server.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		timeout := time.Duration(c.Config.Server.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		log.Info("🛑 Shutting down navigation server...")
		return c.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	if err := c.redis.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	log.Info("Container shut down successfully")
	return nil
}
