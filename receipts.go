package ddnsreg

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/openddns/ddnsreg/schema"
)

// ReceiptIterator lazily walks one payer's receipt sequence in insertion
// order. It is finite and restartable; Next returns ErrExhausted past the
// last receipt and collaborators treat that as "no more items".
type ReceiptIterator struct {
	store *Store
	payer common.Address
	next  uint64
}

func (s *Store) ReceiptIter(payer common.Address) *ReceiptIterator {
	return &ReceiptIterator{store: s, payer: payer}
}

func (it *ReceiptIterator) Next() (r schema.Receipt, err error) {
	err = it.store.View(func(tx *StateTx) error {
		var verr error
		r, verr = tx.Receipt(it.payer, it.next)
		return verr
	})
	if err == nil {
		it.next++
	}
	return
}

func (it *ReceiptIterator) Reset() {
	it.next = 0
}

// ReceiptAt is the indexed single-receipt read used by paginating clients.
func (s *Store) ReceiptAt(payer common.Address, index uint64) (r schema.Receipt, err error) {
	err = s.View(func(tx *StateTx) error {
		var verr error
		r, verr = tx.Receipt(payer, index)
		return verr
	})
	return
}

// Receipts drains the payer's whole sequence in one snapshot.
func (s *Store) Receipts(payer common.Address) (rs []schema.Receipt, err error) {
	err = s.View(func(tx *StateTx) error {
		count := tx.ReceiptCount(payer)
		rs = make([]schema.Receipt, 0, count)
		for i := uint64(0); i < count; i++ {
			r, verr := tx.Receipt(payer, i)
			if verr != nil {
				return verr
			}
			rs = append(rs, r)
		}
		return nil
	})
	return
}
