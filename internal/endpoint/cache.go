package endpoint

import (
	"github.com/dgraph-io/ristretto/v2"
)

const (
	defaultNumCounters = 10 * 500
	defaultMaxCost     = 1 << 16
	defaultBufferItems = 64
)

// cache wraps a ristretto cache scoped to a single Broker instance, per
// the design note that the endpoint cache must not be a process
// singleton. Grounded on iwpnd-pmtilr/cache.go's RistrettoCache.
type cache struct {
	inner *ristretto.Cache[string, Resolution]
}

func newCache() (*cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, Resolution]{
		NumCounters: defaultNumCounters,
		MaxCost:     defaultMaxCost,
		BufferItems: defaultBufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &cache{inner: c}, nil
}

func (c *cache) Get(key string) (Resolution, bool) {
	return c.inner.Get(key)
}

func (c *cache) Set(key string, value Resolution) {
	c.inner.Set(key, value, 1)
	c.inner.Wait()
}

func (c *cache) Close() {
	c.inner.Close()
}
