package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/logger"
)

// dashboardKeyFormat is the cache key the dashboard read path populates per
// manager.
const dashboardKeyFormat = "dashboard:manager:%d"

// DashboardCache invalidates cached manager dashboards when job state
// changes underneath them.
type DashboardCache struct {
	rdb *redis.Client
}

// NewDashboardCache creates a dashboard cache invalidator backed by redis
func NewDashboardCache(rdb *redis.Client) *DashboardCache {
	return &DashboardCache{rdb: rdb}
}

// Register subscribes the invalidator on the bus
func (c *DashboardCache) Register(bus *Bus) {
	bus.Subscribe(TypeDashboardStale, c.invalidate)
}

func (c *DashboardCache) invalidate(ctx context.Context, e Event) error {
	key := fmt.Sprintf(dashboardKeyFormat, e.ManagerID)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}
	logger.Debugf("invalidated dashboard cache for manager %d", e.ManagerID)
	return nil
}
