package ddnsreg

import (
	"errors"

	"github.com/openddns/ddnsreg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	MetricNameSpace = "ddnsreg"
)

var (
	callTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "calls_total",
			Help:      "ledger calls by action and outcome",
		},
		[]string{"action", "result"},
	)

	treasuryBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "treasury_balance",
			Help:      "collected funds not yet withdrawn, base units",
		},
	)

	domainTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "domain_records",
			Help:      "domain records in the state tree, expired included",
		},
	)
)

func init() {
	prometheus.MustRegister(
		callTotal,
		treasuryBalance,
		domainTotal,
	)
}

func metricCall(action string, err error) {
	callTotal.WithLabelValues(action, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "confirmed"
	case errors.Is(err, schema.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, schema.ErrDomainTaken):
		return "domain_taken"
	case errors.Is(err, schema.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, schema.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, schema.ErrHalted):
		return "halted"
	default:
		return "error"
	}
}

func metricTreasuryBalance(bal decimal.Decimal) {
	f, _ := bal.Float64()
	treasuryBalance.Set(f)
}

func metricDomainTotal(n int64) {
	domainTotal.Set(float64(n))
}
