package schema

type IpRateWhitelist struct {
	OriginOrIP  string // e.g "188.0.2.2"
	Available   bool   `gorm:"index:idx_wl_avail"` // true means effective
	Description string
}

type Param struct {
	RateLimit  int    // requests per period, 0 keeps the default
	RatePeriod string // "S","M","H","D"
}
