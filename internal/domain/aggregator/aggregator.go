// Package aggregator derives summary views from allocation records.
//
// All functions are pure: they never mutate their inputs, and every
// division-by-zero case yields 0 rather than an error.
package aggregator

import (
	"math"
	"sort"

	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
)

// AuditRow summarizes one product's demand versus stock. Unallocated can go
// negative after overrides, since overrides may exceed the physical stock.
type AuditRow struct {
	Product     string
	Requested   int
	Given       int
	Available   int
	Unallocated int
	UnmetDemand int
}

// ClientSatisfaction returns each client's mean satisfaction percentage,
// rounded to two decimals. Lines weigh equally regardless of quantity.
func ClientSatisfaction(records []dispatch.Record) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		sums[r.Line.Client] += r.Satisfaction
		counts[r.Line.Client]++
	}
	means := make(map[string]float64, len(sums))
	for client, sum := range sums {
		means[client] = math.Round(sum/float64(counts[client])*100) / 100
	}
	return means
}

// ProductAudit returns one audit row per product that appears in the records,
// sorted by product for deterministic output.
func ProductAudit(records []dispatch.Record, stock dispatch.StockPool) []AuditRow {
	byProduct := make(map[string]*AuditRow)
	for _, r := range records {
		row, ok := byProduct[r.Line.Product]
		if !ok {
			row = &AuditRow{
				Product:   r.Line.Product,
				Available: stock.Available(r.Line.Product),
			}
			byProduct[r.Line.Product] = row
		}
		row.Requested += r.Line.Requested
		row.Given += r.ToGive
	}

	rows := make([]AuditRow, 0, len(byProduct))
	for _, row := range byProduct {
		row.Unallocated = row.Available - row.Given
		row.UnmetDemand = row.Requested - row.Given
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Product < rows[j].Product })
	return rows
}

// OverallFulfillment totals the to-give and requested quantities across all
// records, for a fulfilled/unfulfilled summary.
func OverallFulfillment(records []dispatch.Record) (totalGiven, totalRequested int) {
	for _, r := range records {
		totalGiven += r.ToGive
		totalRequested += r.Line.Requested
	}
	return totalGiven, totalRequested
}
