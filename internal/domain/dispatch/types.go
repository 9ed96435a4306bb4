// Package dispatch defines the core entities shared by the allocation engine:
// order lines, the stock pool, and per-line allocation records.
//
// All quantities are whole units. Order lines and the stock pool are read-only
// inputs for one allocation pass; records are rebuilt from scratch every pass.
package dispatch

import "math"

// Priority is the order line's priority class. Under scarcity, VIP lines are
// served before Regular ones.
type Priority int

const (
	Regular Priority = iota
	VIP
)

// String returns the canonical lowercase name of the priority class.
func (p Priority) String() string {
	if p == VIP {
		return "vip"
	}
	return "regular"
}

// OrderLine is one (client, product, requested quantity, priority) record.
// ID is a stable identifier assigned at normalization time; overrides address
// lines by ID, never by row position.
type OrderLine struct {
	ID        string
	Product   string
	Client    string
	Requested int
	Priority  Priority
}

// StockPool maps product to its available quantity.
type StockPool map[string]int

// Available returns the stock for product, treating a missing entry as zero.
func (s StockPool) Available(product string) int {
	return s[product]
}

// Record is the allocation result for a single order line. Allocated is the
// engine's computed quantity; ToGive starts equal to Allocated and is the
// value a human may override. Satisfaction tracks ToGive.
type Record struct {
	Line         OrderLine
	Allocated    int
	ToGive       int
	Satisfaction float64
}

// Satisfaction returns given/requested as a percentage rounded to two
// decimals. A zero requested quantity yields 0, never NaN.
func Satisfaction(given, requested int) float64 {
	if requested == 0 {
		return 0
	}
	return math.Round(float64(given)/float64(requested)*10000) / 100
}
