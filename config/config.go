package config

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/openddns/ddnsreg/config/schema"
)

// Config holds the service parameters that operators tune at runtime through
// the config db: gin rate-limit settings and the request whitelist.
type Config struct {
	wdb       *Wdb
	scheduler *gocron.Scheduler

	mu          sync.RWMutex
	param       schema.Param
	ipWhiteList map[string]struct{}
}

func New(configDSN string, sqliteDir string, useSqlite bool) *Config {
	var wdb *Wdb
	if useSqlite {
		wdb = NewSqliteWdb(sqliteDir)
	} else {
		wdb = NewWdb(configDSN)
	}
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}
	param, err := wdb.GetParam()
	if err != nil {
		panic(err)
	}
	return &Config{
		wdb:         wdb,
		scheduler:   gocron.NewScheduler(time.UTC),
		param:       param,
		ipWhiteList: make(map[string]struct{}),
	}
}

func (c *Config) Param() schema.Param {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.param
}

func (c *Config) IpWhitelist() *map[string]struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	wl := c.ipWhiteList
	return &wl
}

func (c *Config) Run() {
	c.updateIPWhiteList()
	go c.runJobs()
}

func (c *Config) Close() {
	c.scheduler.Stop()
	c.wdb.Close()
}

func (c *Config) runJobs() {
	c.scheduler.Every(1).Minute().SingletonMode().Do(c.updateIPWhiteList)
	c.scheduler.Every(10).Seconds().SingletonMode().Do(c.updateParam)

	c.scheduler.StartAsync()
}

func (c *Config) updateIPWhiteList() {
	ips, err := c.wdb.GetAllAvailableIpRateWhitelist()
	if err != nil {
		return
	}
	ipWhiteList := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		ipWhiteList[ip.OriginOrIP] = struct{}{}
	}
	c.mu.Lock()
	c.ipWhiteList = ipWhiteList
	c.mu.Unlock()
}

func (c *Config) updateParam() {
	param, err := c.wdb.GetParam()
	if err != nil {
		return
	}
	c.mu.Lock()
	c.param = param
	c.mu.Unlock()
}
