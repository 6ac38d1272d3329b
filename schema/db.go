package schema

import (
	"time"
)

// SubmissionRecord tracks one submitted call through the three phases:
// accepted on submit, then confirmed or failed once the ledger applies it.
type SubmissionRecord struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	SubmissionId string `gorm:"unique" json:"submissionId"`
	Action       string `json:"action"`
	Caller       string `gorm:"index:idx_sub_caller" json:"caller"`
	Status       string `json:"status"` // "accepted", "confirmed", "failed"
	ErrMsg       string `json:"errMsg,omitempty"`
	LedgerTime   int64  `json:"ledgerTime,omitempty"`
}

// EventRecord mirrors a committed event into the audit db, queryable by type.
type EventRecord struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	SubmissionId string `gorm:"index:idx_ev_sub" json:"submissionId"`
	Type         string `gorm:"index:idx_ev_type" json:"type"`
	LedgerTime   int64  `json:"ledgerTime"`
	Attrs        string `json:"attrs"` // json-encoded event fields

	Archived bool `gorm:"index:idx_ev_archived" json:"-"`
}

// ReceiptQueryRecord mirrors the state-tree receipt sequence for per-payer queries.
type ReceiptQueryRecord struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	Payer      string `gorm:"index:idx_rc_payer" json:"payer"`
	Seq        uint64 `json:"seq"`
	DomainName string `json:"domainName"`
	AmountPaid string `json:"amountPaid"`
	TimeBought int64  `json:"timeBought"`
}
