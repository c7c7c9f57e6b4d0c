package report

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache stores computed reports keyed by view and window. Injected into the
// Service so tests can swap it out or disable it entirely
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
}

type ttlCache struct {
	entries    *cache.Cache
	maxEntries int
}

// NewTTLCache returns a Cache evicting entries after 'ttl' and capping the
// entry count at 'maxEntries'. When full, expired entries are purged first;
// if that frees nothing the whole cache is flushed rather than growing unbounded
func NewTTLCache(ttl time.Duration, maxEntries int) Cache {
	return &ttlCache{
		entries:    cache.New(ttl, ttl*2),
		maxEntries: maxEntries,
	}
}

func (c *ttlCache) Get(key string) (interface{}, bool) {
	return c.entries.Get(key)
}

func (c *ttlCache) Set(key string, value interface{}) {
	if c.entries.ItemCount() >= c.maxEntries {
		c.entries.DeleteExpired()
	}
	if c.entries.ItemCount() >= c.maxEntries {
		c.entries.Flush()
	}
	c.entries.SetDefault(key, value)
}

type noCache struct{}

func (noCache) Get(string) (interface{}, bool) { return nil, false }
func (noCache) Set(string, interface{})        {}

// NoCache disables report caching
var NoCache Cache = noCache{}
