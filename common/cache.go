package common

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is an abstract expiring key value cache.
type Cache interface {
	Get(key string) (value interface{}, ok bool)
	Set(key string, value interface{})
	GetOrCreate(key string, create func() interface{}) interface{}
	Delete(key string)
	ItemCount() int
}

// GoCache is the caching layer implemented by go-cache.
type GoCache struct {
	sync.Mutex
	cache *gocache.Cache
}

// NewGoCache creates a go-cache cache with a given default expiration duration
// and cleanup interval.
func NewGoCache(defaultExpiration, cleanupInterval time.Duration) *GoCache {
	return &GoCache{
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get gets an item from the cache. Returns the item or nil, and a bool
// indicating whether the key was found.
func (gc *GoCache) Get(key string) (interface{}, bool) {
	return gc.cache.Get(key)
}

// Set adds an item to the cache, replacing any existing item, using the default
// expiration.
func (gc *GoCache) Set(key string, value interface{}) {
	gc.cache.SetDefault(key, value)
}

// GetOrCreate returns the cached item for key, creating and caching it with
// create if absent. Every hit refreshes the expiration so items in use never
// expire.
func (gc *GoCache) GetOrCreate(key string, create func() interface{}) interface{} {
	gc.Lock()
	defer gc.Unlock()

	value, ok := gc.cache.Get(key)
	if !ok {
		value = create()
	}
	gc.cache.SetDefault(key, value)
	return value
}

// Delete deletes an item from the cache. Does nothing if the key is not in the
// cache.
func (gc *GoCache) Delete(key string) {
	gc.cache.Delete(key)
}

func (gc *GoCache) ItemCount() int {
	return gc.cache.ItemCount()
}
