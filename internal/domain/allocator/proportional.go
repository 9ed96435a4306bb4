package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
)

// allocateProportional splits the product's stock proportionally to requested
// quantities. With VIP lines present, the VIP group is served against the full
// stock first and the Regular group receives only what the VIP group left;
// with none, the whole product is a single group.
func allocateProportional(lines []dispatch.OrderLine, group []int, available, vipBonus int, gives []int) {
	vip, regular := splitByPriority(lines, group)
	remaining := available
	if len(vip) > 0 {
		remaining -= allocateGroup(lines, vip, remaining, vipBonus, gives)
	}
	allocateGroup(lines, regular, remaining, 0, gives)
}

// allocateGroup fills gives for one priority group and returns the total it
// allocated. Shares are computed with exact decimal arithmetic and rounded
// half away from zero; the repair loop then removes any rounding surplus.
func allocateGroup(lines []dispatch.OrderLine, idx []int, available, bonus int, gives []int) int {
	if len(idx) == 0 || available <= 0 {
		return 0
	}
	total := 0
	for _, i := range idx {
		total += lines[i].Requested
	}
	if total == 0 {
		return 0
	}

	totalDec := decimal.NewFromInt(int64(total))
	availableDec := decimal.NewFromInt(int64(available))
	sum := 0
	for _, i := range idx {
		raw := decimal.NewFromInt(int64(lines[i].Requested)).Mul(availableDec).Div(totalDec)
		give := int(raw.Round(0).IntPart()) + bonus
		if give > lines[i].Requested {
			give = lines[i].Requested
		}
		gives[i] = give
		sum += give
	}

	// Rounding repair: sweep the group in input order, shaving one unit off
	// each non-empty line, until the group's sum fits the cap. The scan order
	// is part of the observable contract. Deficits are left as-is.
	for sum > available {
		for _, i := range idx {
			if gives[i] > 0 {
				gives[i]--
				sum--
				if sum <= available {
					break
				}
			}
		}
	}
	return sum
}
