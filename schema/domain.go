package schema

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// registration input bounds, a field must be strictly longer to pass
	DomainNameMinLength     = 5
	IpAddressMinLength      = 6
	TopLevelDomainMinLength = 1

	// names at or below this length pay the short-name surcharge
	PriceIncreaseBound = 9

	MinExpiryPeriod     = 7 * 24 * 3600   // one week, seconds
	DefaultExpiryPeriod = 365 * 24 * 3600 // one year, seconds
)

type DomainRecord struct {
	DomainName     string         `json:"domainName"`
	IpAddress      string         `json:"ipAddress"`
	ValidUntil     int64          `json:"validUntil"` // unix seconds, registration expiry instant
	Owner          common.Address `json:"owner"`
	TopLevelDomain string         `json:"topLevelDomain"`
}

// Live reports whether the record still holds its key at the given ledger time.
// An expired record's key is reclaimable by any registrant.
func (r DomainRecord) Live(now int64) bool {
	return r.ValidUntil >= now
}

// DomainKey derives the lookup key for a (domainName, topLevelDomain) pair.
func DomainKey(domainName, topLevelDomain string) string {
	return crypto.Keccak256Hash([]byte(domainName), []byte(topLevelDomain)).Hex()
}
