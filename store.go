package ddnsreg

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"
)

const (
	boltAllocSize = 8 * 1024 * 1024
	boltName      = "state.db"
)

// Store is the authoritative state tree: domain records, receipt sequences,
// the treasury singleton and payout holdings. Every mutating call runs inside
// one bolt read-write transaction, so a failed call leaves no writes behind.
type Store struct {
	Db *bolt.DB
}

func NewBoltStore(dirPath string) (*Store, error) {
	if len(dirPath) == 0 {
		return nil, errors.New("bolt db dir path can not null")
	}
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path.Join(dirPath, boltName), 0660, &bolt.Options{Timeout: 2 * time.Second, InitialMmapSize: 10e6})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	db.AllocSize = boltAllocSize

	s := &Store{Db: db}
	if err := s.Db.Update(func(tx *bolt.Tx) error {
		for _, bkt := range schema.AllBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bkt)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// InitGenesis writes the default treasury state once. Re-running against an
// initialized store is a no-op.
func (s *Store) InitGenesis(owner common.Address) error {
	return s.Update(func(tx *StateTx) error {
		if _, err := tx.Treasury(); err == nil {
			return nil
		}
		return tx.PutTreasury(schema.NewTreasury(owner))
	})
}

func (s *Store) Update(fn func(tx *StateTx) error) error {
	return s.Db.Update(func(btx *bolt.Tx) error {
		return fn(&StateTx{tx: btx})
	})
}

func (s *Store) View(fn func(tx *StateTx) error) error {
	return s.Db.View(func(btx *bolt.Tx) error {
		return fn(&StateTx{tx: btx})
	})
}

func (s *Store) Close() error {
	return s.Db.Close()
}

// StateTx is one consistent view of the state tree, bound to a single bolt
// transaction. Core operations mutate state only through it.
type StateTx struct {
	tx *bolt.Tx
}

func (t *StateTx) GetDomain(key string) (rec schema.DomainRecord, err error) {
	data := t.tx.Bucket([]byte(schema.DomainBucket)).Get([]byte(key))
	if data == nil {
		return rec, schema.ErrNotExist
	}
	err = json.Unmarshal(data, &rec)
	return
}

func (t *StateTx) PutDomain(key string, rec schema.DomainRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return t.tx.Bucket([]byte(schema.DomainBucket)).Put([]byte(key), data)
}

func (t *StateTx) Treasury() (tr schema.Treasury, err error) {
	data := t.tx.Bucket([]byte(schema.TreasuryBucket)).Get([]byte(schema.TreasuryKey))
	if data == nil {
		return tr, schema.ErrNotExist
	}
	err = json.Unmarshal(data, &tr)
	return
}

func (t *StateTx) PutTreasury(tr schema.Treasury) error {
	data, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	return t.tx.Bucket([]byte(schema.TreasuryBucket)).Put([]byte(schema.TreasuryKey), data)
}

// AppendReceipt adds one receipt to the payer's insertion-ordered sequence
// and returns its index.
func (t *StateTx) AppendReceipt(payer common.Address, r schema.Receipt) (uint64, error) {
	seq := t.ReceiptCount(payer)
	data, err := json.Marshal(r)
	if err != nil {
		return 0, err
	}
	if err := t.tx.Bucket([]byte(schema.ReceiptBucket)).Put(receiptKey(payer, seq), data); err != nil {
		return 0, err
	}
	cnt := make([]byte, 8)
	binary.BigEndian.PutUint64(cnt, seq+1)
	if err := t.tx.Bucket([]byte(schema.ReceiptCountBucket)).Put(addrKey(payer), cnt); err != nil {
		return 0, err
	}
	return seq, nil
}

func (t *StateTx) ReceiptCount(payer common.Address) uint64 {
	data := t.tx.Bucket([]byte(schema.ReceiptCountBucket)).Get(addrKey(payer))
	if data == nil {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// Receipt reads one receipt by (payer, index). Reading past the end of the
// sequence returns ErrExhausted, the pagination stop signal.
func (t *StateTx) Receipt(payer common.Address, index uint64) (r schema.Receipt, err error) {
	data := t.tx.Bucket([]byte(schema.ReceiptBucket)).Get(receiptKey(payer, index))
	if data == nil {
		return r, schema.ErrExhausted
	}
	err = json.Unmarshal(data, &r)
	return
}

// Holding returns an account's external payout balance. Holdings are credited
// only by treasury withdrawals and halt sweeps.
func (t *StateTx) Holding(addr common.Address) decimal.Decimal {
	data := t.tx.Bucket([]byte(schema.HoldingBucket)).Get(addrKey(addr))
	if data == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (t *StateTx) CreditHolding(addr common.Address, amount decimal.Decimal) error {
	bal := t.Holding(addr).Add(amount)
	return t.tx.Bucket([]byte(schema.HoldingBucket)).Put(addrKey(addr), []byte(bal.String()))
}

// DomainCount walks the domain bucket; used by the metric job only.
func (t *StateTx) DomainCount() (n int64) {
	_ = t.tx.Bucket([]byte(schema.DomainBucket)).ForEach(func(k, v []byte) error {
		n++
		return nil
	})
	return
}

func addrKey(addr common.Address) []byte {
	return []byte(strings.ToLower(addr.Hex()))
}

func receiptKey(payer common.Address, seq uint64) []byte {
	key := make([]byte, 0, 51)
	key = append(key, addrKey(payer)...)
	key = append(key, '-')
	idx := make([]byte, 8)
	binary.BigEndian.PutUint64(idx, seq)
	return append(key, idx...)
}
