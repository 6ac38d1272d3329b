package ddnsreg

import (
	"path"

	"github.com/openddns/ddnsreg/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqliteName = "ddnsreg.sqlite"

// Wdb is the audit mirror: submissions, events and receipts, queryable by
// client-facing fields. The state tree stays authoritative; rows here are
// written after commit.
type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.SubmissionRecord{}, &schema.EventRecord{}, &schema.ReceiptQueryRecord{})
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}

func (w *Wdb) InsertSubmission(sub schema.SubmissionRecord) error {
	return w.Db.Create(&sub).Error
}

func (w *Wdb) UpdateSubmission(submissionId, status, errMsg string, ledgerTime int64) error {
	return w.Db.Model(&schema.SubmissionRecord{}).Where("submission_id = ?", submissionId).Updates(map[string]interface{}{
		"status":      status,
		"err_msg":     errMsg,
		"ledger_time": ledgerTime,
	}).Error
}

func (w *Wdb) GetSubmission(submissionId string) (res schema.SubmissionRecord, err error) {
	err = w.Db.Where("submission_id = ?", submissionId).First(&res).Error
	return
}

func (w *Wdb) InsertEvents(evs []schema.EventRecord) error {
	return w.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&evs).Error
}

func (w *Wdb) GetEventsByType(typ string, limit int) ([]schema.EventRecord, error) {
	res := make([]schema.EventRecord, 0, limit)
	err := w.Db.Where("type = ?", typ).Order("id desc").Limit(limit).Find(&res).Error
	return res, err
}

func (w *Wdb) GetEventsBySubmission(submissionId string) ([]schema.EventRecord, error) {
	res := make([]schema.EventRecord, 0, 2)
	err := w.Db.Where("submission_id = ?", submissionId).Order("id asc").Find(&res).Error
	return res, err
}

func (w *Wdb) InsertReceipt(rc schema.ReceiptQueryRecord) error {
	return w.Db.Create(&rc).Error
}

func (w *Wdb) GetReceiptsByPayer(payer string) ([]schema.ReceiptQueryRecord, error) {
	res := make([]schema.ReceiptQueryRecord, 0, 10)
	err := w.Db.Where("payer = ?", payer).Order("seq asc").Find(&res).Error
	return res, err
}

func (w *Wdb) GetUnarchivedEvents(limit int) ([]schema.EventRecord, error) {
	res := make([]schema.EventRecord, 0, limit)
	err := w.Db.Where("archived = ?", false).Order("id asc").Limit(limit).Find(&res).Error
	return res, err
}

func (w *Wdb) MarkEventsArchived(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return w.Db.Model(&schema.EventRecord{}).Where("id in ?", ids).Update("archived", true).Error
}
