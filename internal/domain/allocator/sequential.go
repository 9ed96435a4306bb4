package allocator

import "github.com/prg-tools/dispatch-backend/internal/domain/dispatch"

// allocateSequential serves the group's VIP lines first, then Regular, each in
// input order, giving min(requested, remaining). If the VIP demand fits the
// stock, every VIP line is fully satisfied before any Regular line gets a unit.
func allocateSequential(lines []dispatch.OrderLine, group []int, available int, gives []int) {
	remaining := available
	vip, regular := splitByPriority(lines, group)
	for _, idx := range [][]int{vip, regular} {
		for _, i := range idx {
			if remaining <= 0 {
				return
			}
			give := lines[i].Requested
			if give > remaining {
				give = remaining
			}
			gives[i] = give
			remaining -= give
		}
	}
}
