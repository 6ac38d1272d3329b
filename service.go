package ddnsreg

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
)

// SubmitCall is phase one of the submission protocol: the call is recorded
// as accepted and queued, and the correlation id returned. The terminal
// phase is readable via the returned channel or the submissions table.
func (r *Registrar) SubmitCall(caller common.Address, call schema.Call) (string, <-chan CallResult, error) {
	id := uuid.NewString()
	if err := r.wdb.InsertSubmission(schema.SubmissionRecord{
		SubmissionId: id,
		Action:       call.Action,
		Caller:       caller.Hex(),
		Status:       schema.SubmissionAccepted,
	}); err != nil {
		return "", nil, err
	}

	done, err := r.ledger.Submit(id, caller, call)
	if err != nil {
		return "", nil, err
	}
	return id, done, nil
}

// GetDomain resolves a record by (name, tld), serving cached reads when the
// record has not been touched since.
func (r *Registrar) GetDomain(domainName, topLevelDomain string) (schema.DomainRecord, error) {
	key := schema.DomainKey(domainName, topLevelDomain)
	if rec, ok := r.cache.GetDomain(key); ok {
		return rec, nil
	}

	var rec schema.DomainRecord
	err := r.store.View(func(tx *StateTx) error {
		var verr error
		rec, verr = tx.GetDomain(key)
		return verr
	})
	if err != nil {
		return rec, err
	}
	r.cache.SetDomain(key, rec)
	return rec, nil
}

// GetDomainPrice quotes what a registration or renewal of the name costs at
// the current base price.
func (r *Registrar) GetDomainPrice(domainName string) (price decimal.Decimal, err error) {
	err = r.store.View(func(tx *StateTx) error {
		t, verr := tx.Treasury()
		if verr != nil {
			return verr
		}
		price = DomainPrice(t.RegistrationCost, domainName)
		return nil
	})
	return
}

func (r *Registrar) GetTreasury() (t schema.Treasury, err error) {
	err = r.store.View(func(tx *StateTx) error {
		var verr error
		t, verr = tx.Treasury()
		return verr
	})
	return
}

func (r *Registrar) GetHolding(addr common.Address) (bal decimal.Decimal, err error) {
	err = r.store.View(func(tx *StateTx) error {
		bal = tx.Holding(addr)
		return nil
	})
	return
}

func (r *Registrar) GetReceiptAt(payer common.Address, index uint64) (schema.Receipt, error) {
	return r.store.ReceiptAt(payer, index)
}

func (r *Registrar) GetReceipts(payer common.Address) ([]schema.Receipt, error) {
	return r.store.Receipts(payer)
}
