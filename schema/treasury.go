package schema

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const (
	// treasury status
	TreasuryActive    = "active"
	TreasuryRenounced = "renounced" // admin control relinquished, registry keeps running
	TreasuryHalted    = "halted"    // funds swept, every call fails permanently
)

// DefaultRegistrationCost is the genesis base price: 1 unit in 18-decimal base units.
var DefaultRegistrationCost = decimal.New(1, 18)

type Treasury struct {
	Owner            common.Address  `json:"owner"`
	Wallet           common.Address  `json:"wallet"` // payout destination, defaults to owner
	RegistrationCost decimal.Decimal `json:"registrationCost"`
	ExpiryPeriod     int64           `json:"expiryPeriod"` // seconds
	Balance          decimal.Decimal `json:"balance"`      // collected funds not yet withdrawn
	Status           string          `json:"status"`
}

func NewTreasury(owner common.Address) Treasury {
	return Treasury{
		Owner:            owner,
		Wallet:           owner,
		RegistrationCost: DefaultRegistrationCost,
		ExpiryPeriod:     DefaultExpiryPeriod,
		Balance:          decimal.Zero,
		Status:           TreasuryActive,
	}
}
