package ddnsreg

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	evercommon "github.com/everFinance/go-everpay/common"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/openddns/ddnsreg/config"
	"github.com/openddns/ddnsreg/rawdb"
)

var log = evercommon.NewLog("ddnsreg")

// Registrar wires the registry/treasury core to its surroundings: the bolt
// state tree, the serializing ledger, the audit mirror, the archive, the
// HTTP boundary and the background jobs.
type Registrar struct {
	store  *Store
	ledger *Ledger

	wdb     *Wdb
	cache   *Cache
	archive rawdb.KeyValueDB
	kafka   *KWriter

	engine    *gin.Engine
	scheduler *gocron.Scheduler
	config    *config.Config
}

func New(
	boltDirPath, mysqlDsn string, sqliteDir string, useSqlite bool,
	genesisOwner string,
	useS3 bool, s3AccKey, s3SecretKey, s3BucketPrefix, s3Region, s3Endpoint string,
	kafkaUri string,
) *Registrar {
	owner := common.HexToAddress(genesisOwner)
	if owner == (common.Address{}) {
		panic("genesis owner address can not be zero")
	}

	store, err := NewBoltStore(boltDirPath)
	if err != nil {
		panic(err)
	}
	if err := store.InitGenesis(owner); err != nil {
		panic(err)
	}

	var wdb *Wdb
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewMysqlDb(mysqlDsn)
	}
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}

	var archive rawdb.KeyValueDB
	if useS3 {
		archive, err = rawdb.NewS3DB(s3AccKey, s3SecretKey, s3Region, s3BucketPrefix, s3Endpoint)
	} else {
		archive, err = rawdb.NewBoltDB(boltDirPath)
	}
	if err != nil {
		panic(err)
	}

	var kw *KWriter
	if len(kafkaUri) > 0 {
		kw, err = NewKWriter(EventTopic, kafkaUri)
		if err != nil {
			panic(err)
		}
	}

	return &Registrar{
		store:     store,
		ledger:    NewLedger(store, nil),
		wdb:       wdb,
		cache:     NewCache(),
		archive:   archive,
		kafka:     kw,
		engine:    gin.Default(),
		scheduler: gocron.NewScheduler(time.UTC),
		config:    config.New(mysqlDsn, sqliteDir, useSqlite),
	}
}

func (r *Registrar) Run(port string) {
	r.config.Run()
	r.ledger.Run()
	go r.runNotifier()
	go r.runAPI(port)
	r.runJobs()
}

func (r *Registrar) Close() {
	r.ledger.Close()
	r.scheduler.Stop()
	r.config.Close()
	if r.kafka != nil {
		r.kafka.Close()
	}
	if err := r.archive.Close(); err != nil {
		log.Error("close archive", "err", err)
	}
	r.wdb.Close()
	if err := r.store.Close(); err != nil {
		log.Error("close state store", "err", err)
	}
}
