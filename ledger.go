package ddnsreg

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
)

// Clock supplies ledger time. It is read exactly once per call, so a single
// call sees one consistent notion of "now".
type Clock interface {
	Now() int64
}

type sysClock struct{}

func (sysClock) Now() int64 { return time.Now().Unix() }

// CallResult is the terminal phase of a submission: confirmed with its
// events, or failed with the rejection cause. Either way the call had no
// partial effect.
type CallResult struct {
	SubmissionId string
	Action       string
	Caller       common.Address
	LedgerTime   int64
	Events       []schema.Event
	Err          error
}

type pendingCall struct {
	id     string
	caller common.Address
	call   schema.Call
	done   chan CallResult
}

// Ledger serializes every mutating call and applies each one inside a single
// store transaction: an error rolls the whole call back, a nil error commits
// every write. This is the only path that mutates the state tree.
type Ledger struct {
	store *Store
	clock Clock

	callCh   chan *pendingCall
	resultCh chan CallResult
	quit     chan struct{}
}

func NewLedger(store *Store, clock Clock) *Ledger {
	if clock == nil {
		clock = sysClock{}
	}
	return &Ledger{
		store:    store,
		clock:    clock,
		callCh:   make(chan *pendingCall, 256),
		resultCh: make(chan CallResult, 256),
		quit:     make(chan struct{}),
	}
}

func (l *Ledger) Run() {
	go l.process()
}

func (l *Ledger) Close() {
	close(l.quit)
}

// Results streams every terminal call outcome, in commit order.
func (l *Ledger) Results() <-chan CallResult {
	return l.resultCh
}

// Submit queues one signed call under the given correlation id. The terminal
// result arrives on the returned channel and on Results().
func (l *Ledger) Submit(id string, caller common.Address, call schema.Call) (<-chan CallResult, error) {
	pc := &pendingCall{
		id:     id,
		caller: caller,
		call:   call,
		done:   make(chan CallResult, 1),
	}
	select {
	case l.callCh <- pc:
		return pc.done, nil
	case <-l.quit:
		return nil, schema.ErrLedgerClosed
	}
}

func (l *Ledger) process() {
	for {
		select {
		case pc := <-l.callCh:
			res := l.apply(pc)
			pc.done <- res
			select {
			case l.resultCh <- res:
			case <-l.quit:
				return
			}
		case <-l.quit:
			return
		}
	}
}

func (l *Ledger) apply(pc *pendingCall) CallResult {
	now := l.clock.Now()
	var events []schema.Event

	err := l.store.Update(func(tx *StateTx) error {
		var err error
		events, err = dispatchCall(tx, pc.caller, now, pc.call)
		return err
	})
	if err != nil {
		events = nil
		log.Warn("call rejected", "action", pc.call.Action, "caller", pc.caller.Hex(), "err", err)
	}

	return CallResult{
		SubmissionId: pc.id,
		Action:       pc.call.Action,
		Caller:       pc.caller,
		LedgerTime:   now,
		Events:       events,
		Err:          err,
	}
}

// dispatchCall validates the wire parameters and routes to the core
// operation. Validation failures surface before any write happens.
func dispatchCall(tx *StateTx, caller common.Address, now int64, call schema.Call) ([]schema.Event, error) {
	switch call.Action {
	case schema.ActionRegister:
		payment, err := parseAmount(call.Payment)
		if err != nil {
			return nil, err
		}
		return registerDomain(tx, caller, now, call.DomainName, call.IpAddress, call.TopLevelDomain, payment)

	case schema.ActionRenew:
		payment, err := parseAmount(call.Payment)
		if err != nil {
			return nil, err
		}
		return renewRegistration(tx, caller, now, call.DomainName, call.TopLevelDomain, payment)

	case schema.ActionEditIp:
		return editDomainIp(tx, caller, now, call.DomainName, call.TopLevelDomain, call.IpAddress)

	case schema.ActionTransfer:
		newOwner, err := parseAddress(call.NewOwner)
		if err != nil {
			return nil, err
		}
		return transferDomainOwnership(tx, caller, now, call.DomainName, call.TopLevelDomain, newOwner)

	case schema.ActionChangeCost:
		newCost, err := parseAmount(call.NewCost)
		if err != nil {
			return nil, err
		}
		return changeRegistrationCost(tx, caller, now, newCost)

	case schema.ActionChangePeriod:
		return changeExpiryPeriod(tx, caller, now, call.NewPeriod)

	case schema.ActionChangeWallet:
		newWallet, err := parseAddress(call.NewWallet)
		if err != nil {
			return nil, err
		}
		return changeWallet(tx, caller, now, newWallet)

	case schema.ActionWithdraw:
		amount, err := parseAmount(call.Amount)
		if err != nil {
			return nil, err
		}
		return withdraw(tx, caller, now, amount)

	case schema.ActionTransferControl:
		newOwner, err := parseAddress(call.NewOwner)
		if err != nil {
			return nil, err
		}
		return transferControl(tx, caller, now, newOwner)

	case schema.ActionRenounceControl:
		return renounceControl(tx, caller, now)

	case schema.ActionHalt:
		recipient, err := parseAddress(call.Recipient)
		if err != nil {
			return nil, err
		}
		return halt(tx, caller, now, recipient)

	default:
		return nil, schema.ErrUnknownAction
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	if len(s) == 0 {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, schema.ErrInvalidInput
	}
	return d, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, schema.ErrInvalidInput
	}
	return common.HexToAddress(s), nil
}
