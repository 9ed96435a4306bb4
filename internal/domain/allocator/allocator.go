// Package allocator partitions per-product stock among order lines.
//
// Two strategies cover the two observed dispatch behaviors:
//
//   - sequential-priority: strict greedy. VIP lines are served first, in input
//     order, each taking min(requested, remaining); Regular lines share what is
//     left the same way.
//   - proportional: each line's share is requested/total_requested of the
//     group's stock, rounded to whole units, with a deterministic repair pass
//     that removes any rounding surplus. VIP lines form their own group served
//     against the full stock first (optionally boosted by a flat per-line
//     bonus); Regular lines split the remainder.
//
// Products never share stock, so each product is allocated independently. The
// allocator never errors for well-typed input: a product with no stock entry
// simply allocates zero to all of its lines.
package allocator

import (
	"fmt"

	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
)

// Strategy selects the within-product allocation policy.
type Strategy string

const (
	StrategySequential   Strategy = "sequential-priority"
	StrategyProportional Strategy = "proportional"
)

// ParseStrategy validates a strategy name from configuration.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySequential, StrategyProportional:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown allocation strategy %q (want %q or %q)",
			s, StrategySequential, StrategyProportional)
	}
}

// Config holds the allocation options.
type Config struct {
	Strategy      Strategy
	VIPBonusUnits int
}

// Allocate computes one allocation record per order line. Records come back
// in input order; per product, the sum of allocated quantities never exceeds
// the available stock, and no line receives more than it requested.
func Allocate(lines []dispatch.OrderLine, stock dispatch.StockPool, cfg Config) []dispatch.Record {
	gives := make([]int, len(lines))

	for _, group := range groupByProduct(lines) {
		available := stock.Available(lines[group[0]].Product)
		if available <= 0 {
			continue
		}
		switch cfg.Strategy {
		case StrategyProportional:
			allocateProportional(lines, group, available, cfg.VIPBonusUnits, gives)
		default:
			allocateSequential(lines, group, available, gives)
		}
	}

	records := make([]dispatch.Record, len(lines))
	for i, line := range lines {
		give := gives[i]
		if give > line.Requested {
			give = line.Requested
		}
		records[i] = dispatch.Record{
			Line:         line,
			Allocated:    give,
			ToGive:       give,
			Satisfaction: dispatch.Satisfaction(give, line.Requested),
		}
	}
	return records
}

// groupByProduct collects line indices per product, preserving both the input
// order within each group and the order in which products first appear.
func groupByProduct(lines []dispatch.OrderLine) [][]int {
	byProduct := make(map[string]int)
	var groups [][]int
	for i, line := range lines {
		g, ok := byProduct[line.Product]
		if !ok {
			g = len(groups)
			byProduct[line.Product] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// splitByPriority partitions a product group into its VIP and Regular index
// lists, each in input order.
func splitByPriority(lines []dispatch.OrderLine, group []int) (vip, regular []int) {
	for _, i := range group {
		if lines[i].Priority == dispatch.VIP {
			vip = append(vip, i)
		} else {
			regular = append(regular, i)
		}
	}
	return vip, regular
}
