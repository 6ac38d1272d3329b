package ddnsreg

import (
	"testing"

	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDomainRoundTrip(t *testing.T) {
	s := newTestStore(t)
	key := schema.DomainKey("notshortanymore", "co.uk")

	err := s.View(func(tx *StateTx) error {
		_, err := tx.GetDomain(key)
		assert.ErrorIs(t, err, schema.ErrNotExist)
		return nil
	})
	require.NoError(t, err)

	rec := schema.DomainRecord{
		DomainName:     "notshortanymore",
		IpAddress:      "127.0.0.1",
		ValidUntil:     testGenesis + 100,
		Owner:          testAlice,
		TopLevelDomain: "co.uk",
	}
	err = s.Update(func(tx *StateTx) error {
		return tx.PutDomain(key, rec)
	})
	require.NoError(t, err)

	err = s.View(func(tx *StateTx) error {
		got, err := tx.GetDomain(key)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
		n := tx.DomainCount()
		assert.Equal(t, int64(1), n)
		return nil
	})
	require.NoError(t, err)
}

func TestStoreDomainKeyDistinct(t *testing.T) {
	// same name under different TLDs must not collide
	k1 := schema.DomainKey("notshortanymore", "co.uk")
	k2 := schema.DomainKey("notshortanymore", "io")
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, schema.DomainKey("notshortanymore", "co.uk"))
}

func TestStoreHoldings(t *testing.T) {
	s := newTestStore(t)

	err := s.View(func(tx *StateTx) error {
		assert.True(t, tx.Holding(testAlice).IsZero())
		return nil
	})
	require.NoError(t, err)

	err = s.Update(func(tx *StateTx) error {
		if err := tx.CreditHolding(testAlice, decimal.NewFromInt(7)); err != nil {
			return err
		}
		return tx.CreditHolding(testAlice, decimal.NewFromInt(5))
	})
	require.NoError(t, err)

	err = s.View(func(tx *StateTx) error {
		assert.Equal(t, "12", tx.Holding(testAlice).String())
		return nil
	})
	require.NoError(t, err)
}

func TestStoreRollbackOnError(t *testing.T) {
	s := newTestStore(t)
	key := schema.DomainKey("notshortanymore", "co.uk")

	wantErr := schema.ErrInvalidInput
	err := s.Update(func(tx *StateTx) error {
		if err := tx.PutDomain(key, schema.DomainRecord{DomainName: "notshortanymore"}); err != nil {
			return err
		}
		if err := tx.CreditHolding(testAlice, decimal.NewFromInt(9)); err != nil {
			return err
		}
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	err = s.View(func(tx *StateTx) error {
		_, err := tx.GetDomain(key)
		assert.ErrorIs(t, err, schema.ErrNotExist)
		assert.True(t, tx.Holding(testAlice).IsZero())
		return nil
	})
	require.NoError(t, err)
}
