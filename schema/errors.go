package schema

import (
	"errors"
)

var (
	ErrInvalidInput      = errors.New("invalid_input")
	ErrDomainTaken       = errors.New("domain_taken")
	ErrNotOwner          = errors.New("not_owner")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrExhausted         = errors.New("exhausted") // receipt read past the last index
	ErrHalted            = errors.New("registry_halted")

	ErrNotExist         = errors.New("not_exist_record")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrUnknownAction    = errors.New("unknown_action")
	ErrLedgerClosed     = errors.New("ledger_closed")
)
