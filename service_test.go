package ddnsreg

import (
	"testing"
	"time"

	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCallThreePhases(t *testing.T) {
	r := newTestRegistrar(t)
	go r.runNotifier()

	id, done, err := r.SubmitCall(testAlice, schema.Call{
		Action:         schema.ActionRegister,
		DomainName:     "notshortanymore",
		IpAddress:      "127.0.0.1",
		TopLevelDomain: "co.uk",
		Payment:        decimal.New(1, 18).String(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// the accepted row exists before the ledger answers
	sub, err := r.wdb.GetSubmission(id)
	require.NoError(t, err)
	assert.Equal(t, schema.ActionRegister, sub.Action)

	select {
	case res := <-done:
		require.NoError(t, res.Err)
		assert.Equal(t, id, res.SubmissionId)
	case <-time.After(5 * time.Second):
		t.Fatal("call result timed out")
	}

	// the notifier confirms the row shortly after commit
	deadline := time.Now().Add(5 * time.Second)
	for {
		sub, err = r.wdb.GetSubmission(id)
		require.NoError(t, err)
		if sub.Status != schema.SubmissionAccepted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("submission never finalized")
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, schema.SubmissionConfirmed, sub.Status)
	assert.Equal(t, testGenesis, sub.LedgerTime)
}

func TestGetDomainCachedRead(t *testing.T) {
	r := newTestRegistrar(t)

	_, err := r.GetDomain("notshortanymore", "co.uk")
	assert.ErrorIs(t, err, schema.ErrNotExist)

	mustRegister(t, r.store, testAlice, testGenesis, "notshortanymore", "127.0.0.1", "co.uk", decimal.New(1, 18))

	rec, err := r.GetDomain("notshortanymore", "co.uk")
	require.NoError(t, err)
	assert.Equal(t, testAlice, rec.Owner)

	// second read is served from cache
	key := schema.DomainKey("notshortanymore", "co.uk")
	_, ok := r.cache.GetDomain(key)
	assert.True(t, ok)
	rec, err = r.GetDomain("notshortanymore", "co.uk")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", rec.IpAddress)
}

func TestGetDomainPrice(t *testing.T) {
	r := newTestRegistrar(t)

	price, err := r.GetDomainPrice("shortname")
	require.NoError(t, err)
	assert.Equal(t, "1100000000000000000", price.String())

	price, err = r.GetDomainPrice("longernamed")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", price.String())
}

func TestGetHoldingAndTreasury(t *testing.T) {
	r := newTestRegistrar(t)

	bal, err := r.GetHolding(testAlice)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	paid := decimal.New(2, 18)
	mustRegister(t, r.store, testAlice, testGenesis, "notshortanymore", "127.0.0.1", "co.uk", paid)
	err = r.store.Update(func(tx *StateTx) error {
		_, err := withdraw(tx, testOwner, testGenesis, paid)
		return err
	})
	require.NoError(t, err)

	bal, err = r.GetHolding(testOwner)
	require.NoError(t, err)
	assert.True(t, bal.Equal(paid))

	tr, err := r.GetTreasury()
	require.NoError(t, err)
	assert.True(t, tr.Balance.IsZero())
}
