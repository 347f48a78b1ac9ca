package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hornhub/hornhub-service/internal/catalog"
	"github.com/hornhub/hornhub-service/internal/config"
	"github.com/hornhub/hornhub-service/internal/kvstore"
	"github.com/hornhub/hornhub-service/internal/objectstore"
)

// CatalogAuditor periodically walks the media catalog and checks that
// every cataloged URL still resolves to a stored object. The catalog
// is append-only and the object store is independently owned, so an
// out-of-band remote delete leaves a dangling reference; this worker
// reports those, it never mutates the catalog.
type CatalogAuditor struct {
	catalog  *catalog.Catalog
	objects  objectstore.Store
	interval time.Duration
	logger   *slog.Logger
}

func NewCatalogAuditor(cat *catalog.Catalog, objects objectstore.Store, interval time.Duration) *CatalogAuditor {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &CatalogAuditor{
		catalog:  cat,
		objects:  objects,
		interval: interval,
		logger:   logger,
	}
}

func (ca *CatalogAuditor) Start(ctx context.Context) {
	ticker := time.NewTicker(ca.interval)
	defer ticker.Stop()

	ca.logger.Info("Catalog auditor started",
		"interval", ca.interval.String())

	// Run once immediately on startup
	ca.audit(ctx)

	for {
		select {
		case <-ctx.Done():
			ca.logger.Info("Catalog auditor shutting down")
			return
		case <-ticker.C:
			ca.audit(ctx)
		}
	}
}

func (ca *CatalogAuditor) audit(ctx context.Context) {
	startTime := time.Now()

	items := ca.catalog.All(ctx)
	dangling := 0
	foreign := 0

	for _, item := range items {
		key, ok := ca.objects.KeyFromURL(item.URL)
		if !ok {
			foreign++
			ca.logger.Warn("Catalog item URL does not belong to the object store",
				"item_id", item.ID,
				"url", item.URL)
			continue
		}

		err := ca.objects.Stat(ctx, key)
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			dangling++
			ca.logger.Warn("Dangling catalog reference",
				"item_id", item.ID,
				"object_key", key,
				"uploaded_by", item.UploadedBy)
			continue
		}
		if err != nil {
			ca.logger.Error("Failed to stat object",
				"item_id", item.ID,
				"error", err.Error())
		}
	}

	ca.logger.Info("Completed catalog audit",
		"items_checked", len(items),
		"dangling", dangling,
		"foreign_urls", foreign,
		"duration_ms", time.Since(startTime).Milliseconds())
}

func main() {
	// Load config
	cfg := config.MustLoad()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	slog.Info("Connected to Redis")

	objects, err := objectstore.NewMinIOStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}

	mediaCatalog := catalog.New(kvstore.NewRedisStore(redisClient))

	// Audit every 10 minutes
	auditor := NewCatalogAuditor(mediaCatalog, objects, 10*time.Minute)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	auditor.Start(ctx)

	slog.Info("Catalog auditor stopped")
}
