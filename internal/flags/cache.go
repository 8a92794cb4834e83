package flags

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Overview groups every counter shown on the dashboard for one tick.
type Overview struct {
	Tick     int
	Status   DashboardStats
	Database DatabaseStats
	Timeline []TickStats
	Exploits []ExploitHistory
}

// StatsCache memoizes dashboard overviews per tick for a short TTL.
type StatsCache struct {
	store *Store
	ttl   time.Duration
	lru   *expirable.LRU[int, Overview]
}

func NewStatsCache(store *Store, flagTTL, cacheTTL time.Duration) *StatsCache {
	return &StatsCache{
		store: store,
		ttl:   flagTTL,
		lru:   expirable.NewLRU[int, Overview](16, nil, cacheTTL),
	}
}

func (c *StatsCache) Overview(ctx context.Context, tick int) (Overview, error) {
	if o, ok := c.lru.Get(tick); ok {
		return o, nil
	}

	o := Overview{Tick: tick}
	var err error
	if o.Status, err = c.store.DashboardStats(ctx, c.ttl); err != nil {
		return o, err
	}
	if o.Database, err = c.store.DatabaseStats(ctx, tick); err != nil {
		return o, err
	}
	if o.Timeline, err = c.store.Timeline(ctx, tick); err != nil {
		return o, err
	}
	if o.Exploits, err = c.store.ExploitHistory(ctx, tick); err != nil {
		return o, err
	}

	c.lru.Add(tick, o)
	return o, nil
}

// Invalidate drops every cached overview, e.g. after new flags are enqueued.
func (c *StatsCache) Invalidate() {
	c.lru.Purge()
}
