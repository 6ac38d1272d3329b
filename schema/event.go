package schema

const (
	EventNewDomain            = "new_domain"
	EventDomainRenewed        = "domain_renewed"
	EventDomainEdited         = "domain_edited"
	EventOwnershipTransferred = "ownership_transferred"
	EventReceipt              = "receipt"

	EventCostChanged         = "cost_changed"
	EventExpiryPeriodChanged = "expiry_period_changed"
	EventWalletChanged       = "wallet_changed"
	EventWithdrawal          = "withdrawal"
	EventControlTransferred  = "control_transferred"
	EventControlRenounced    = "control_renounced"
	EventHalted              = "halted"
)

// Event is emitted by a committed call. Attrs hold the documented event
// fields as strings, the way they go out on the wire and into the audit db.
type Event struct {
	Type       string            `json:"type"`
	LedgerTime int64             `json:"ledgerTime"`
	Attrs      map[string]string `json:"attrs"`
}

func NewEvent(typ string, now int64, attrs map[string]string) Event {
	return Event{Type: typ, LedgerTime: now, Attrs: attrs}
}
