package market

import "github.com/shopspring/decimal"

// StatsReporter aggregates trade totals for the admin view.
type StatsReporter struct {
	escrow *Escrow
}

// NewStatsReporter wraps the escrow coordinator's trade bookkeeping.
func NewStatsReporter(escrow *Escrow) *StatsReporter {
	return &StatsReporter{escrow: escrow}
}

// TotalTraded sums the amount over all trade records, pending and confirmed.
func (r *StatsReporter) TotalTraded() decimal.Decimal {
	total := decimal.Zero
	for _, rec := range r.escrow.allRecords() {
		total = total.Add(rec.Amount)
	}
	return total
}

// TotalUsers counts distinct users with at least one trade record ever observed.
func (r *StatsReporter) TotalUsers() int {
	return r.escrow.usersObserved()
}
