package ddnsreg

import (
	"testing"

	"github.com/openddns/ddnsreg/schema"
	"github.com/stretchr/testify/assert"
)

func TestDomainCache(t *testing.T) {
	c := NewCache()
	key := schema.DomainKey("notshortanymore", "co.uk")

	_, ok := c.GetDomain(key)
	assert.False(t, ok)

	rec := schema.DomainRecord{
		DomainName:     "notshortanymore",
		IpAddress:      "127.0.0.1",
		ValidUntil:     testGenesis + 100,
		Owner:          testAlice,
		TopLevelDomain: "co.uk",
	}
	c.SetDomain(key, rec)

	got, ok := c.GetDomain(key)
	assert.True(t, ok)
	assert.Equal(t, rec, got)

	c.DelDomain(key)
	_, ok = c.GetDomain(key)
	assert.False(t, ok)

	// evicting an absent key is harmless
	c.DelDomain("missing")
}
