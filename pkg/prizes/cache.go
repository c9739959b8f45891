package prizes

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"racerank/pkg/parser"
	"racerank/pkg/race"

	"golang.org/x/sync/singleflight"
)

// Cache lazily loads prize tables and keeps them for its lifetime.
// Entries are never refreshed; failed loads are not stored.
type Cache struct {
	source        Source
	ordinalPrefix string

	mu     sync.RWMutex
	tables map[race.Category]race.PrizeTable
	group  singleflight.Group
}

// NewCache creates a Cache reading listings from source
func NewCache(source Source, ordinalPrefix string) *Cache {
	return &Cache{
		source:        source,
		ordinalPrefix: ordinalPrefix,
		tables:        make(map[race.Category]race.PrizeTable),
	}
}

// Get returns the prize table for the category, loading it on first use.
// Concurrent first requests for the same category share a single load.
func (c *Cache) Get(ctx context.Context, category race.Category) (race.PrizeTable, error) {
	c.mu.RLock()
	table, ok := c.tables[category]
	c.mu.RUnlock()
	if ok {
		return table, nil
	}

	v, err, _ := c.group.Do(string(category), func() (interface{}, error) {
		c.mu.RLock()
		table, ok := c.tables[category]
		c.mu.RUnlock()
		if ok {
			return table, nil
		}

		table, err := c.load(ctx, category)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.tables[category] = table
		c.mu.Unlock()
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(race.PrizeTable), nil
}

// Len returns the number of cached tables
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

func (c *Cache) load(ctx context.Context, category race.Category) (race.PrizeTable, error) {
	data, err := c.source.Fetch(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prize listing for %s: %w", category, err)
	}

	table, err := parser.ParsePrizeTable(bytes.NewReader(data), c.ordinalPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prize listing for %s: %w", category, err)
	}
	return table, nil
}
