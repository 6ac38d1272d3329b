package ddnsreg

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisTreasury(t *testing.T) {
	s := newTestStore(t)

	err := s.View(func(tx *StateTx) error {
		tr, err := tx.Treasury()
		require.NoError(t, err)
		assert.Equal(t, testOwner, tr.Owner)
		assert.Equal(t, testOwner, tr.Wallet)
		assert.True(t, tr.RegistrationCost.Equal(schema.DefaultRegistrationCost))
		assert.Equal(t, int64(schema.DefaultExpiryPeriod), tr.ExpiryPeriod)
		assert.True(t, tr.Balance.IsZero())
		assert.Equal(t, schema.TreasuryActive, tr.Status)
		return nil
	})
	require.NoError(t, err)

	// genesis is idempotent
	require.NoError(t, s.InitGenesis(testBob))
	err = s.View(func(tx *StateTx) error {
		tr, err := tx.Treasury()
		require.NoError(t, err)
		assert.Equal(t, testOwner, tr.Owner)
		return nil
	})
	require.NoError(t, err)
}

func TestChangeRegistrationCost(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *StateTx) error {
		_, err := changeRegistrationCost(tx, testAlice, testGenesis, decimal.NewFromInt(5))
		return err
	})
	assert.ErrorIs(t, err, schema.ErrNotOwner)

	err = s.Update(func(tx *StateTx) error {
		_, err := changeRegistrationCost(tx, testOwner, testGenesis, decimal.Zero)
		return err
	})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	err = s.Update(func(tx *StateTx) error {
		evs, err := changeRegistrationCost(tx, testOwner, testGenesis, decimal.NewFromInt(5))
		require.NoError(t, err)
		require.Len(t, evs, 1)
		assert.Equal(t, schema.EventCostChanged, evs[0].Type)
		assert.Equal(t, "5", evs[0].Attrs["newPrice"])
		return nil
	})
	require.NoError(t, err)

	// the new cost prices subsequent registrations
	err = s.Update(func(tx *StateTx) error {
		_, err := registerDomain(tx, testAlice, testGenesis, "notshortanymore", "127.0.0.1", "co.uk", decimal.NewFromInt(4))
		return err
	})
	assert.ErrorIs(t, err, schema.ErrInsufficientFunds)
	mustRegister(t, s, testAlice, testGenesis, "notshortanymore", "127.0.0.1", "co.uk", decimal.NewFromInt(5))
}

func TestChangeExpiryPeriod(t *testing.T) {
	s := newTestStore(t)
	week := int64(schema.MinExpiryPeriod)

	err := s.Update(func(tx *StateTx) error {
		_, err := changeExpiryPeriod(tx, testOwner, testGenesis, week)
		return err
	})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	err = s.Update(func(tx *StateTx) error {
		_, err := changeExpiryPeriod(tx, testOwner, testGenesis, week+1)
		return err
	})
	require.NoError(t, err)

	// registrations now expire on the shortened period
	mustRegister(t, s, testAlice, testGenesis, "notshortanymore", "127.0.0.1", "co.uk", decimal.New(1, 18))
	err = s.View(func(tx *StateTx) error {
		rec, err := tx.GetDomain(schema.DomainKey("notshortanymore", "co.uk"))
		require.NoError(t, err)
		assert.Equal(t, testGenesis+week+1, rec.ValidUntil)
		return nil
	})
	require.NoError(t, err)
}

func TestChangeWallet(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *StateTx) error {
		_, err := changeWallet(tx, testOwner, testGenesis, common.Address{})
		return err
	})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	err = s.Update(func(tx *StateTx) error {
		_, err := changeWallet(tx, testBob, testGenesis, testBob)
		return err
	})
	assert.ErrorIs(t, err, schema.ErrNotOwner)

	err = s.Update(func(tx *StateTx) error {
		_, err := changeWallet(tx, testOwner, testGenesis, testBob)
		return err
	})
	require.NoError(t, err)

	err = s.View(func(tx *StateTx) error {
		tr, err := tx.Treasury()
		require.NoError(t, err)
		assert.Equal(t, testBob, tr.Wallet)
		return nil
	})
	require.NoError(t, err)
}

func TestWithdraw(t *testing.T) {
	s := newTestStore(t)
	paid := decimal.New(2, 18)

	mustRegister(t, s, testAlice, testGenesis, "notshortanymore", "127.0.0.1", "co.uk", paid)

	err := s.Update(func(tx *StateTx) error {
		_, err := withdraw(tx, testOwner, testGenesis, paid.Add(decimal.NewFromInt(1)))
		return err
	})
	assert.ErrorIs(t, err, schema.ErrInsufficientFunds)

	err = s.Update(func(tx *StateTx) error {
		_, err := withdraw(tx, testAlice, testGenesis, decimal.NewFromInt(1))
		return err
	})
	assert.ErrorIs(t, err, schema.ErrNotOwner)

	part := decimal.New(5, 17)
	err = s.Update(func(tx *StateTx) error {
		evs, err := withdraw(tx, testOwner, testGenesis, part)
		require.NoError(t, err)
		require.Len(t, evs, 1)
		assert.Equal(t, schema.EventWithdrawal, evs[0].Type)
		assert.Equal(t, testOwner.Hex(), evs[0].Attrs["wallet"])
		return nil
	})
	require.NoError(t, err)

	err = s.View(func(tx *StateTx) error {
		tr, err := tx.Treasury()
		require.NoError(t, err)
		assert.True(t, tr.Balance.Equal(paid.Sub(part)))
		assert.True(t, tx.Holding(testOwner).Equal(part))
		return nil
	})
	require.NoError(t, err)

	// withdrawals land on the configured wallet, not the invoker
	err = s.Update(func(tx *StateTx) error {
		if _, err := changeWallet(tx, testOwner, testGenesis, testBob); err != nil {
			return err
		}
		_, err := withdraw(tx, testOwner, testGenesis, part)
		return err
	})
	require.NoError(t, err)

	err = s.View(func(tx *StateTx) error {
		assert.True(t, tx.Holding(testBob).Equal(part))
		assert.True(t, tx.Holding(testOwner).Equal(part))
		return nil
	})
	require.NoError(t, err)
}

func TestTransferControl(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *StateTx) error {
		_, err := transferControl(tx, testOwner, testGenesis, common.Address{})
		return err
	})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	err = s.Update(func(tx *StateTx) error {
		_, err := transferControl(tx, testOwner, testGenesis, testAlice)
		return err
	})
	require.NoError(t, err)

	// old owner is gated out immediately, new owner is in
	err = s.Update(func(tx *StateTx) error {
		_, err := changeRegistrationCost(tx, testOwner, testGenesis, decimal.NewFromInt(5))
		return err
	})
	assert.ErrorIs(t, err, schema.ErrNotOwner)

	err = s.Update(func(tx *StateTx) error {
		_, err := changeRegistrationCost(tx, testAlice, testGenesis, decimal.NewFromInt(5))
		return err
	})
	assert.NoError(t, err)
}

func TestRenounceControl(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *StateTx) error {
		_, err := renounceControl(tx, testAlice, testGenesis)
		return err
	})
	assert.ErrorIs(t, err, schema.ErrNotOwner)

	err = s.Update(func(tx *StateTx) error {
		evs, err := renounceControl(tx, testOwner, testGenesis)
		require.NoError(t, err)
		require.Len(t, evs, 1)
		assert.Equal(t, schema.EventControlRenounced, evs[0].Type)
		return nil
	})
	require.NoError(t, err)

	// every owner-gated call is unreachable, the former owner included
	for _, caller := range []common.Address{testOwner, testAlice, {}} {
		err = s.Update(func(tx *StateTx) error {
			_, err := changeRegistrationCost(tx, caller, testGenesis, decimal.NewFromInt(5))
			return err
		})
		assert.ErrorIs(t, err, schema.ErrNotOwner)
	}

	// registrations keep working after renouncement
	mustRegister(t, s, testAlice, testGenesis, "notshortanymore", "127.0.0.1", "co.uk", decimal.New(1, 18))
}

func TestHalt(t *testing.T) {
	s := newTestStore(t)
	paid := decimal.New(2, 18)

	mustRegister(t, s, testAlice, testGenesis, "notshortanymore", "127.0.0.1", "co.uk", paid)

	err := s.Update(func(tx *StateTx) error {
		_, err := halt(tx, testAlice, testGenesis, testBob)
		return err
	})
	assert.ErrorIs(t, err, schema.ErrNotOwner)

	err = s.Update(func(tx *StateTx) error {
		evs, err := halt(tx, testOwner, testGenesis, testBob)
		require.NoError(t, err)
		require.Len(t, evs, 1)
		assert.Equal(t, schema.EventHalted, evs[0].Type)
		assert.Equal(t, paid.String(), evs[0].Attrs["swept"])
		return nil
	})
	require.NoError(t, err)

	err = s.View(func(tx *StateTx) error {
		tr, err := tx.Treasury()
		require.NoError(t, err)
		assert.Equal(t, schema.TreasuryHalted, tr.Status)
		assert.True(t, tr.Balance.IsZero())
		assert.True(t, tx.Holding(testBob).Equal(paid))
		return nil
	})
	require.NoError(t, err)

	// everything fails once halted
	err = s.Update(func(tx *StateTx) error {
		_, err := registerDomain(tx, testAlice, testGenesis, "anothernameentirely", "127.0.0.1", "co.uk", paid)
		return err
	})
	assert.ErrorIs(t, err, schema.ErrHalted)

	err = s.Update(func(tx *StateTx) error {
		_, err := withdraw(tx, testOwner, testGenesis, decimal.NewFromInt(1))
		return err
	})
	assert.ErrorIs(t, err, schema.ErrHalted)
}
