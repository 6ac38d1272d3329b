package rawdb

import (
	"github.com/everFinance/go-everpay/common"
)

var log = common.NewLog("ddnsreg")

// KeyValueDB is the cold archive for committed events and receipts. Archive
// writes are append-only and idempotent; the transactional state tree never
// lives here.
type KeyValueDB interface {
	Put(bucket, key string, value []byte) (err error)

	Get(bucket, key string) (data []byte, err error)

	GetAllKey(bucket string) (keys []string, err error)

	Delete(bucket, key string) (err error)

	Exist(bucket, key string) bool

	Close() (err error)

	Type() string
}
