// Package metrics provides the dispatcher's Collector, satisfying
// core.Metrics. Grounded on data/metrics/collector.go's per-category
// atomic counter style (DataCollector's dbQueries/dbQueryErrors
// atomic.Int64 fields), narrowed from that file's db/redis/mongo/
// search/mq categories down to this module's five lookup events, each
// broken out per driver name the way data/metrics/cache.go's
// CacheCollector tags every call with a command label.
package metrics

import (
	"sync"
	"sync/atomic"
)

// perDriver holds the five lookup counters for one driver name.
type perDriver struct {
	openHits   atomic.Int64
	openMisses atomic.Int64
	evictions  atomic.Int64
	findHits   atomic.Int64
	findMisses atomic.Int64
}

// Collector implements core.Metrics with an atomic counter set per
// driver name, lazily created on first use.
type Collector struct {
	mu      sync.RWMutex
	drivers map[string]*perDriver
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{drivers: make(map[string]*perDriver)}
}

func (c *Collector) entry(driverName string) *perDriver {
	c.mu.RLock()
	d, ok := c.drivers[driverName]
	c.mu.RUnlock()
	if ok {
		return d
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok = c.drivers[driverName]; ok {
		return d
	}
	d = &perDriver{}
	c.drivers[driverName] = d
	return d
}

// OpenHit implements core.Metrics.
func (c *Collector) OpenHit(driverName string) { c.entry(driverName).openHits.Add(1) }

// OpenMiss implements core.Metrics.
func (c *Collector) OpenMiss(driverName string) { c.entry(driverName).openMisses.Add(1) }

// Evict implements core.Metrics.
func (c *Collector) Evict(driverName string) { c.entry(driverName).evictions.Add(1) }

// FindHit implements core.Metrics.
func (c *Collector) FindHit(driverName string) { c.entry(driverName).findHits.Add(1) }

// FindMiss implements core.Metrics.
func (c *Collector) FindMiss(driverName string) { c.entry(driverName).findMisses.Add(1) }

// DriverStats is a point-in-time snapshot of one driver's counters.
type DriverStats struct {
	OpenHits   int64 `json:"open_hits"`
	OpenMisses int64 `json:"open_misses"`
	Evictions  int64 `json:"evictions"`
	FindHits   int64 `json:"find_hits"`
	FindMisses int64 `json:"find_misses"`
}

// Snapshot returns a copy of the counters for every driver name seen
// so far, grounded on data/metrics/collector.go's GetStats.
func (c *Collector) Snapshot() map[string]DriverStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]DriverStats, len(c.drivers))
	for name, d := range c.drivers {
		out[name] = DriverStats{
			OpenHits:   d.openHits.Load(),
			OpenMisses: d.openMisses.Load(),
			Evictions:  d.evictions.Load(),
			FindHits:   d.findHits.Load(),
			FindMisses: d.findMisses.Load(),
		}
	}
	return out
}
