package schema

import (
	"fmt"
	"strings"
)

const (
	ActionRegister = "register"
	ActionRenew    = "renew"
	ActionEditIp   = "edit_ip"
	ActionTransfer = "transfer"

	ActionChangeCost      = "change_cost"
	ActionChangePeriod    = "change_period"
	ActionChangeWallet    = "change_wallet"
	ActionWithdraw        = "withdraw"
	ActionTransferControl = "transfer_control"
	ActionRenounceControl = "renounce_control"
	ActionHalt            = "halt"
)

const (
	// submission 3-phase status
	SubmissionAccepted  = "accepted"
	SubmissionConfirmed = "confirmed"
	SubmissionFailed    = "failed"
)

// Call is the wire shape of one mutating operation. The caller identity is
// not a field; it is recovered from Sig over SignData.
type Call struct {
	Action string `json:"action"`

	DomainName     string `json:"domainName,omitempty"`
	IpAddress      string `json:"ipAddress,omitempty"`
	TopLevelDomain string `json:"topLevelDomain,omitempty"`
	NewOwner       string `json:"newOwner,omitempty"`

	NewWallet string `json:"newWallet,omitempty"`
	Recipient string `json:"recipient,omitempty"`

	Payment   string `json:"payment,omitempty"` // base units, decimal string
	Amount    string `json:"amount,omitempty"`  // withdraw amount
	NewCost   string `json:"newCost,omitempty"`
	NewPeriod int64  `json:"newPeriod,omitempty"` // seconds

	Nonce int64  `json:"nonce"` // client-chosen, scopes the signature
	Sig   string `json:"sig,omitempty"`
}

// SignData is the deterministic byte message the caller signs (eth personal sign).
func (c *Call) SignData() []byte {
	msg := strings.Join([]string{
		"ddnsreg",
		c.Action,
		c.DomainName,
		c.IpAddress,
		c.TopLevelDomain,
		c.NewOwner,
		c.NewWallet,
		c.Recipient,
		c.Payment,
		c.Amount,
		c.NewCost,
		fmt.Sprintf("%d", c.NewPeriod),
		fmt.Sprintf("%d", c.Nonce),
	}, "\n")
	return []byte(msg)
}
