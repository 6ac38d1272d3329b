package ddnsreg

import (
	"encoding/json"
	"time"

	"github.com/openddns/ddnsreg/cache"
	"github.com/openddns/ddnsreg/schema"
)

const domainCacheExp = 5 * time.Minute

// Cache front-ends domain lookups on the read path. Entries are dropped by
// the notifier whenever a committed call touches the record.
type Cache struct {
	lc *cache.Cache
}

func NewCache() *Cache {
	lc, err := cache.NewLocalCache(domainCacheExp)
	if err != nil {
		panic(err)
	}
	return &Cache{lc: lc}
}

func (c *Cache) GetDomain(key string) (rec schema.DomainRecord, ok bool) {
	data, err := c.lc.Cache.Get(key)
	if err != nil {
		return rec, false
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, false
	}
	return rec, true
}

func (c *Cache) SetDomain(key string, rec schema.DomainRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.lc.Cache.Set(key, data); err != nil {
		log.Warn("cache domain record", "err", err, "key", key)
	}
}

func (c *Cache) DelDomain(key string) {
	if err := c.lc.Cache.Delete(key); err != nil {
		log.Warn("evict domain record", "err", err, "key", key)
	}
}
