// Package cache keeps the per-table field definitions hot for the row
// validate/render path, which reads them on every request.
package cache

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/pkg/metrics"
)

// Loader is the backing store the cache fills from.
type Loader interface {
	ListByTable(ctx context.Context, table primitive.ObjectID) ([]domain.Field, error)
}

type entry struct {
	fields  []domain.Field
	fetched time.Time
}

// Cache is a TTL cache of field definitions keyed by table id. Field
// mutations invalidate their table eagerly, the TTL only bounds staleness
// across processes.
type Cache struct {
	mu      sync.RWMutex
	loader  Loader
	ttl     time.Duration
	logger  *zap.SugaredLogger
	byTable map[primitive.ObjectID]entry
}

// New builds a cache with the given staleness bound.
func New(loader Loader, ttl time.Duration, logger *zap.SugaredLogger) *Cache {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Cache{
		loader:  loader,
		ttl:     ttl,
		logger:  logger,
		byTable: make(map[primitive.ObjectID]entry),
	}
}

// ListByTable returns the cached field set, refilling from the loader on miss
// or expiry.
func (c *Cache) ListByTable(ctx context.Context, table primitive.ObjectID) ([]domain.Field, error) {
	c.mu.RLock()
	e, ok := c.byTable[table]
	c.mu.RUnlock()
	if ok && time.Since(e.fetched) < c.ttl {
		metrics.CacheHits.Inc()
		return e.fields, nil
	}
	metrics.CacheMisses.Inc()
	fields, err := c.loader.ListByTable(ctx, table)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.byTable[table] = entry{fields: fields, fetched: time.Now()}
	c.mu.Unlock()
	return fields, nil
}

// Invalidate drops the table's entry after a field mutation.
func (c *Cache) Invalidate(table primitive.ObjectID) {
	c.mu.Lock()
	delete(c.byTable, table)
	c.mu.Unlock()
}

// Start refreshes all cached tables on a ticker until ctx is done.
func (c *Cache) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refresh(ctx)
			}
		}
	}()
}

func (c *Cache) refresh(ctx context.Context) {
	c.mu.RLock()
	tables := make([]primitive.ObjectID, 0, len(c.byTable))
	for t := range c.byTable {
		tables = append(tables, t)
	}
	c.mu.RUnlock()
	for _, t := range tables {
		fields, err := c.loader.ListByTable(ctx, t)
		if err != nil {
			c.logger.Warnw("field cache refresh", "table", t.Hex(), "err", err)
			continue
		}
		c.mu.Lock()
		c.byTable[t] = entry{fields: fields, fetched: time.Now()}
		c.mu.Unlock()
	}
}
