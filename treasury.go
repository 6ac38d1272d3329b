package ddnsreg

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
)

func changeRegistrationCost(tx *StateTx, caller common.Address, now int64, newCost decimal.Decimal) ([]schema.Event, error) {
	t, err := ownedTreasury(tx, caller)
	if err != nil {
		return nil, err
	}
	if !newCost.IsPositive() {
		return nil, schema.ErrInvalidInput
	}

	t.RegistrationCost = newCost
	if err := tx.PutTreasury(t); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventCostChanged, now, map[string]string{
			"newPrice": newCost.String(),
		}),
	}, nil
}

func changeExpiryPeriod(tx *StateTx, caller common.Address, now int64, newPeriod int64) ([]schema.Event, error) {
	t, err := ownedTreasury(tx, caller)
	if err != nil {
		return nil, err
	}
	if newPeriod <= schema.MinExpiryPeriod {
		return nil, schema.ErrInvalidInput
	}

	t.ExpiryPeriod = newPeriod
	if err := tx.PutTreasury(t); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventExpiryPeriodChanged, now, map[string]string{
			"newPeriod": formatInt(newPeriod),
		}),
	}, nil
}

func changeWallet(tx *StateTx, caller common.Address, now int64, newWallet common.Address) ([]schema.Event, error) {
	t, err := ownedTreasury(tx, caller)
	if err != nil {
		return nil, err
	}
	if newWallet == (common.Address{}) {
		return nil, schema.ErrInvalidInput
	}

	t.Wallet = newWallet
	if err := tx.PutTreasury(t); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventWalletChanged, now, map[string]string{
			"newWallet": newWallet.Hex(),
		}),
	}, nil
}

// withdraw moves funds out of the treasury balance into the wallet's external
// holdings, in the same atomic step.
func withdraw(tx *StateTx, caller common.Address, now int64, amount decimal.Decimal) ([]schema.Event, error) {
	t, err := ownedTreasury(tx, caller)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(t.Balance) {
		return nil, schema.ErrInsufficientFunds
	}

	t.Balance = t.Balance.Sub(amount)
	if err := tx.PutTreasury(t); err != nil {
		return nil, err
	}
	if err := tx.CreditHolding(t.Wallet, amount); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventWithdrawal, now, map[string]string{
			"invoker": caller.Hex(),
			"wallet":  t.Wallet.Hex(),
			"amount":  amount.String(),
		}),
	}, nil
}

func transferControl(tx *StateTx, caller common.Address, now int64, newOwner common.Address) ([]schema.Event, error) {
	t, err := ownedTreasury(tx, caller)
	if err != nil {
		return nil, err
	}
	if newOwner == (common.Address{}) {
		return nil, schema.ErrInvalidInput
	}

	t.Owner = newOwner
	if err := tx.PutTreasury(t); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventControlTransferred, now, map[string]string{
			"from": caller.Hex(),
			"to":   newOwner.Hex(),
		}),
	}, nil
}

// renounceControl gives up administrative control for good. The registry
// keeps serving registrations; every owner-gated call is unreachable from
// here on, and no call can undo it.
func renounceControl(tx *StateTx, caller common.Address, now int64) ([]schema.Event, error) {
	t, err := ownedTreasury(tx, caller)
	if err != nil {
		return nil, err
	}

	t.Owner = common.Address{}
	t.Status = schema.TreasuryRenounced
	if err := tx.PutTreasury(t); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventControlRenounced, now, map[string]string{
			"previousOwner": caller.Hex(),
		}),
	}, nil
}

// halt stops the registry permanently and sweeps the remaining balance to the
// recipient's holdings in the same atomic step.
func halt(tx *StateTx, caller common.Address, now int64, recipient common.Address) ([]schema.Event, error) {
	t, err := ownedTreasury(tx, caller)
	if err != nil {
		return nil, err
	}
	if recipient == (common.Address{}) {
		return nil, schema.ErrInvalidInput
	}

	swept := t.Balance
	if err := tx.CreditHolding(recipient, swept); err != nil {
		return nil, err
	}
	t.Balance = decimal.Zero
	t.Owner = common.Address{}
	t.Status = schema.TreasuryHalted
	if err := tx.PutTreasury(t); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventHalted, now, map[string]string{
			"invoker":   caller.Hex(),
			"recipient": recipient.Hex(),
			"swept":     swept.String(),
		}),
	}, nil
}

// ownedTreasury loads the treasury and enforces the owner gate. A renounced
// treasury has the zero owner, which no recovered caller can match.
func ownedTreasury(tx *StateTx, caller common.Address) (schema.Treasury, error) {
	t, err := activeTreasury(tx)
	if err != nil {
		return t, err
	}
	if t.Owner == (common.Address{}) || caller != t.Owner {
		return t, schema.ErrNotOwner
	}
	return t, nil
}
