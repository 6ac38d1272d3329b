package schema

import (
	"github.com/shopspring/decimal"
)

// Receipt is one immutable payment event in a payer's append-only sequence.
type Receipt struct {
	DomainName string          `json:"domainName"`
	AmountPaid decimal.Decimal `json:"amountPaid"` // the value sent, overpayment included
	TimeBought int64           `json:"timeBought"` // ledger time of the paid call
}
