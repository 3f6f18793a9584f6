package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LedgerMutations counts committed ledger mutations by audit action.
	LedgerMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "magazinepro_ledger_mutations_total",
			Help: "Committed stock ledger mutations by action",
		},
		[]string{"action"},
	)

	// ImportedRows counts product rows upserted by the bulk import.
	ImportedRows = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "magazinepro_imported_rows_total",
			Help: "Product rows upserted via bulk import",
		},
	)

	// InsufficientStock counts scan-out attempts rejected by the stock guard.
	InsufficientStock = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "magazinepro_insufficient_stock_total",
			Help: "Scan-out operations rejected for insufficient stock",
		},
	)
)

func init() {
	prometheus.MustRegister(LedgerMutations, ImportedRows, InsufficientStock)
}
