package ddnsreg

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
)

var decTen = decimal.NewFromInt(10)

// DomainPrice quotes the registration/renewal price for a name at the given
// base cost: names at or below the length bound pay cost + cost/10, floored.
func DomainPrice(cost decimal.Decimal, domainName string) decimal.Decimal {
	if len(domainName) > schema.PriceIncreaseBound {
		return cost
	}
	return cost.Add(cost.Div(decTen).Floor())
}

// registerDomain claims a key that is absent or expired. An expired record is
// overwritten wholesale, previous owner included. Overpayment is kept.
func registerDomain(tx *StateTx, caller common.Address, now int64, domainName, ipAddress, topLevelDomain string, payment decimal.Decimal) ([]schema.Event, error) {
	t, err := activeTreasury(tx)
	if err != nil {
		return nil, err
	}
	if len(domainName) <= schema.DomainNameMinLength ||
		len(ipAddress) <= schema.IpAddressMinLength ||
		len(topLevelDomain) <= schema.TopLevelDomainMinLength {
		return nil, schema.ErrInvalidInput
	}

	key := schema.DomainKey(domainName, topLevelDomain)
	old, err := tx.GetDomain(key)
	if err == nil && old.Live(now) {
		return nil, schema.ErrDomainTaken
	}
	if err != nil && err != schema.ErrNotExist {
		return nil, err
	}

	price := DomainPrice(t.RegistrationCost, domainName)
	if payment.LessThan(price) {
		return nil, schema.ErrInsufficientFunds
	}

	rec := schema.DomainRecord{
		DomainName:     domainName,
		IpAddress:      ipAddress,
		ValidUntil:     now + t.ExpiryPeriod,
		Owner:          caller,
		TopLevelDomain: topLevelDomain,
	}
	if err := tx.PutDomain(key, rec); err != nil {
		return nil, err
	}

	receiptEv, err := collectPayment(tx, t, caller, now, domainName, payment)
	if err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventNewDomain, now, map[string]string{
			"domainName":     rec.DomainName,
			"ipAddress":      rec.IpAddress,
			"validUntil":     formatInt(rec.ValidUntil),
			"owner":          rec.Owner.Hex(),
			"topLevelDomain": rec.TopLevelDomain,
		}),
		receiptEv,
	}, nil
}

// renewRegistration extends validity from the current validUntil, not from
// now. A record renewed long after expiry can end up with a validUntil still
// in the past; that additive arithmetic is deliberate.
func renewRegistration(tx *StateTx, caller common.Address, now int64, domainName, topLevelDomain string, payment decimal.Decimal) ([]schema.Event, error) {
	t, err := activeTreasury(tx)
	if err != nil {
		return nil, err
	}

	key := schema.DomainKey(domainName, topLevelDomain)
	rec, err := tx.GetDomain(key)
	if err == schema.ErrNotExist {
		// an absent record has the zero owner, so this is an owner mismatch
		return nil, schema.ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	if rec.Owner != caller {
		return nil, schema.ErrNotOwner
	}

	price := DomainPrice(t.RegistrationCost, domainName)
	if payment.LessThan(price) {
		return nil, schema.ErrInsufficientFunds
	}

	rec.ValidUntil += t.ExpiryPeriod
	if err := tx.PutDomain(key, rec); err != nil {
		return nil, err
	}

	receiptEv, err := collectPayment(tx, t, caller, now, domainName, payment)
	if err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventDomainRenewed, now, map[string]string{
			"domainName":     rec.DomainName,
			"ipAddress":      rec.IpAddress,
			"validUntil":     formatInt(rec.ValidUntil),
			"owner":          rec.Owner.Hex(),
			"topLevelDomain": rec.TopLevelDomain,
		}),
		receiptEv,
	}, nil
}

func editDomainIp(tx *StateTx, caller common.Address, now int64, domainName, topLevelDomain, newIpAddress string) ([]schema.Event, error) {
	if _, err := activeTreasury(tx); err != nil {
		return nil, err
	}

	key := schema.DomainKey(domainName, topLevelDomain)
	rec, err := tx.GetDomain(key)
	if err == schema.ErrNotExist {
		return nil, schema.ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	if rec.Owner != caller {
		return nil, schema.ErrNotOwner
	}
	if len(newIpAddress) <= schema.IpAddressMinLength {
		return nil, schema.ErrInvalidInput
	}

	rec.IpAddress = newIpAddress
	if err := tx.PutDomain(key, rec); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventDomainEdited, now, map[string]string{
			"domainName":     rec.DomainName,
			"topLevelDomain": rec.TopLevelDomain,
			"newIpAddress":   newIpAddress,
		}),
	}, nil
}

func transferDomainOwnership(tx *StateTx, caller common.Address, now int64, domainName, topLevelDomain string, newOwner common.Address) ([]schema.Event, error) {
	if _, err := activeTreasury(tx); err != nil {
		return nil, err
	}

	key := schema.DomainKey(domainName, topLevelDomain)
	rec, err := tx.GetDomain(key)
	if err == schema.ErrNotExist {
		return nil, schema.ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	if rec.Owner != caller {
		return nil, schema.ErrNotOwner
	}
	if newOwner == (common.Address{}) {
		return nil, schema.ErrInvalidInput
	}

	rec.Owner = newOwner
	if err := tx.PutDomain(key, rec); err != nil {
		return nil, err
	}

	return []schema.Event{
		schema.NewEvent(schema.EventOwnershipTransferred, now, map[string]string{
			"domainName":     rec.DomainName,
			"topLevelDomain": rec.TopLevelDomain,
			"from":           caller.Hex(),
			"to":             newOwner.Hex(),
		}),
	}, nil
}

// collectPayment appends the payer's receipt and credits the treasury balance
// in the same transaction, then returns the receipt event.
func collectPayment(tx *StateTx, t schema.Treasury, payer common.Address, now int64, domainName string, payment decimal.Decimal) (schema.Event, error) {
	seq, err := tx.AppendReceipt(payer, schema.Receipt{
		DomainName: domainName,
		AmountPaid: payment,
		TimeBought: now,
	})
	if err != nil {
		return schema.Event{}, err
	}

	t.Balance = t.Balance.Add(payment)
	if err := tx.PutTreasury(t); err != nil {
		return schema.Event{}, err
	}

	return schema.NewEvent(schema.EventReceipt, now, map[string]string{
		"receiver":   payer.Hex(),
		"domainName": domainName,
		"amountPaid": payment.String(),
		"timeBought": formatInt(now),
		"seq":        formatUint(seq),
	}), nil
}

// activeTreasury loads the treasury and rejects every call once halted.
func activeTreasury(tx *StateTx) (schema.Treasury, error) {
	t, err := tx.Treasury()
	if err != nil {
		return t, err
	}
	if t.Status == schema.TreasuryHalted {
		return t, schema.ErrHalted
	}
	return t, nil
}
