package allocator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
)

func line(id, product, client string, requested int, priority dispatch.Priority) dispatch.OrderLine {
	return dispatch.OrderLine{
		ID:        id,
		Product:   product,
		Client:    client,
		Requested: requested,
		Priority:  priority,
	}
}

func gives(records []dispatch.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Allocated
	}
	return out
}

func TestAllocate_SequentialFirstComeFirstServed(t *testing.T) {
	// Stock 10, two regular orders of 8 each: the first is served fully,
	// the second gets the remainder.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 8, dispatch.Regular),
		line("b", "P1", "Bolt", 8, dispatch.Regular),
	}
	stock := dispatch.StockPool{"P1": 10}

	records := Allocate(lines, stock, Config{Strategy: StrategySequential})
	require.Len(t, records, 2)

	assert.Equal(t, []int{8, 2}, gives(records))
	assert.Equal(t, 100.0, records[0].Satisfaction)
	assert.Equal(t, 25.0, records[1].Satisfaction)
}

func TestAllocate_SequentialVIPBeforeRegular(t *testing.T) {
	// A VIP listed second still drains the stock before the regular line.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 8, dispatch.Regular),
		line("b", "P1", "Bolt", 8, dispatch.VIP),
	}
	stock := dispatch.StockPool{"P1": 10}

	records := Allocate(lines, stock, Config{Strategy: StrategySequential})

	assert.Equal(t, []int{2, 8}, gives(records))
}

func TestAllocate_SequentialVIPFullySatisfiedUnderScarcity(t *testing.T) {
	// VIP demand (6) fits the stock (10), so every VIP line is fully
	// satisfied no matter how much the regular lines want.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 4, dispatch.VIP),
		line("b", "P1", "Bolt", 50, dispatch.Regular),
		line("c", "P1", "Core", 2, dispatch.VIP),
	}
	stock := dispatch.StockPool{"P1": 10}

	records := Allocate(lines, stock, Config{Strategy: StrategySequential})

	assert.Equal(t, 4, records[0].Allocated)
	assert.Equal(t, 2, records[2].Allocated)
	assert.Equal(t, 4, records[1].Allocated) // remainder
}

func TestAllocate_ZeroStock(t *testing.T) {
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 5, dispatch.VIP),
		line("b", "P1", "Bolt", 3, dispatch.Regular),
		line("c", "P2", "Acme", 7, dispatch.Regular),
	}
	// P1 has explicit zero stock; P2 has no entry at all. Both allocate 0.
	stock := dispatch.StockPool{"P1": 0}

	for _, strategy := range []Strategy{StrategySequential, StrategyProportional} {
		t.Run(string(strategy), func(t *testing.T) {
			records := Allocate(lines, stock, Config{Strategy: strategy})
			assert.Equal(t, []int{0, 0, 0}, gives(records))
		})
	}
}

func TestAllocate_ProportionalExactShares(t *testing.T) {
	// Stock 10, two orders of 5: each gets exactly its share, no repair.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 5, dispatch.Regular),
		line("b", "P1", "Bolt", 5, dispatch.Regular),
	}
	stock := dispatch.StockPool{"P1": 10}

	records := Allocate(lines, stock, Config{Strategy: StrategyProportional})

	assert.Equal(t, []int{5, 5}, gives(records))
}

func TestAllocate_ProportionalRounding(t *testing.T) {
	tests := []struct {
		name      string
		requested []int
		available int
		want      []int
	}{
		{
			// Raw shares are exact, nothing to repair.
			name:      "exact shares",
			requested: []int{3, 3, 4},
			available: 10,
			want:      []int{3, 3, 4},
		},
		{
			// Demand below stock: everyone fully served, leftover stays.
			name:      "demand under stock",
			requested: []int{3, 3, 3},
			available: 10,
			want:      []int{3, 3, 3},
		},
		{
			// 4/12*10 = 3.33 rounds to 3 each; sum 9 < 10 is acceptable,
			// the deficit is never topped up.
			name:      "rounding down leaves slack",
			requested: []int{4, 4, 4},
			available: 10,
			want:      []int{3, 3, 3},
		},
		{
			// 1/3*4 = 1.33 -> 1, 2/3*4 = 2.67 -> 3: sum 4 = cap, no repair.
			name:      "mixed rounding hits cap",
			requested: []int{2, 4},
			available: 4,
			want:      []int{1, 3},
		},
		{
			// 5/10*7 = 3.5 rounds up for both, overallocating by one unit;
			// the repair pass shaves the first line.
			name:      "half rounding repaired in input order",
			requested: []int{5, 5},
			available: 7,
			want:      []int{3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]dispatch.OrderLine, len(tt.requested))
			for i, req := range tt.requested {
				lines[i] = line(fmt.Sprintf("l%d", i), "P1", fmt.Sprintf("C%d", i), req, dispatch.Regular)
			}
			stock := dispatch.StockPool{"P1": tt.available}

			records := Allocate(lines, stock, Config{Strategy: StrategyProportional})

			assert.Equal(t, tt.want, gives(records))
		})
	}
}

func TestAllocate_ProportionalVIPGroupServedFirst(t *testing.T) {
	// VIP lines split the full stock among themselves; regular lines get
	// only the remainder.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 10, dispatch.Regular),
		line("b", "P1", "Bolt", 6, dispatch.VIP),
		line("c", "P1", "Core", 6, dispatch.VIP),
	}
	stock := dispatch.StockPool{"P1": 10}

	records := Allocate(lines, stock, Config{Strategy: StrategyProportional})

	// Each VIP: 6/12*10 = 5. Regular remainder is 0.
	assert.Equal(t, []int{0, 5, 5}, gives(records))
}

func TestAllocate_ProportionalVIPBonus(t *testing.T) {
	t.Run("bonus boosts VIP within stock", func(t *testing.T) {
		lines := []dispatch.OrderLine{
			line("a", "P1", "Acme", 6, dispatch.VIP),
			line("b", "P1", "Bolt", 6, dispatch.Regular),
		}
		stock := dispatch.StockPool{"P1": 10}

		records := Allocate(lines, stock, Config{Strategy: StrategyProportional, VIPBonusUnits: 2})

		// VIP raw share is the whole 10 for a single-line group, clamped to
		// its requested 6 even with the bonus; regular splits the remaining 4.
		assert.Equal(t, 6, records[0].Allocated)
		assert.Equal(t, 4, records[1].Allocated)
	})

	t.Run("bonus never exceeds requested", func(t *testing.T) {
		lines := []dispatch.OrderLine{
			line("a", "P1", "Acme", 3, dispatch.VIP),
			line("b", "P1", "Bolt", 3, dispatch.VIP),
		}
		stock := dispatch.StockPool{"P1": 20}

		records := Allocate(lines, stock, Config{Strategy: StrategyProportional, VIPBonusUnits: 100})

		for _, r := range records {
			assert.LessOrEqual(t, r.Allocated, r.Line.Requested)
		}
	})
}

func TestAllocate_ProductsIndependent(t *testing.T) {
	// Interleaved products must not share stock.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 5, dispatch.Regular),
		line("b", "P2", "Acme", 5, dispatch.Regular),
		line("c", "P1", "Bolt", 5, dispatch.Regular),
		line("d", "P2", "Bolt", 5, dispatch.Regular),
	}
	stock := dispatch.StockPool{"P1": 10, "P2": 4}

	records := Allocate(lines, stock, Config{Strategy: StrategySequential})

	assert.Equal(t, []int{5, 4, 5, 0}, gives(records))
}

func TestAllocate_ConservationAndClamp(t *testing.T) {
	// Property check over a mixed table: per product the allocated sum never
	// exceeds stock, and no line exceeds its request, under both strategies.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 7, dispatch.VIP),
		line("b", "P1", "Bolt", 13, dispatch.Regular),
		line("c", "P1", "Core", 1, dispatch.VIP),
		line("d", "P2", "Acme", 0, dispatch.Regular),
		line("e", "P2", "Bolt", 9, dispatch.Regular),
		line("f", "P3", "Core", 4, dispatch.VIP),
	}
	stock := dispatch.StockPool{"P1": 11, "P2": 3}

	for _, cfg := range []Config{
		{Strategy: StrategySequential},
		{Strategy: StrategyProportional},
		{Strategy: StrategyProportional, VIPBonusUnits: 3},
	} {
		t.Run(fmt.Sprintf("%s bonus=%d", cfg.Strategy, cfg.VIPBonusUnits), func(t *testing.T) {
			records := Allocate(lines, stock, cfg)
			require.Len(t, records, len(lines))

			perProduct := make(map[string]int)
			for _, r := range records {
				assert.GreaterOrEqual(t, r.Allocated, 0)
				assert.LessOrEqual(t, r.Allocated, r.Line.Requested)
				perProduct[r.Line.Product] += r.Allocated
			}
			for product, sum := range perProduct {
				assert.LessOrEqual(t, sum, stock.Available(product), "product %s", product)
			}
		})
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	// The repair scan order is part of the contract: repeated runs over the
	// same input must produce identical output.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 7, dispatch.Regular),
		line("b", "P1", "Bolt", 7, dispatch.Regular),
		line("c", "P1", "Core", 7, dispatch.Regular),
	}
	stock := dispatch.StockPool{"P1": 11}

	first := Allocate(lines, stock, Config{Strategy: StrategyProportional})
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Allocate(lines, stock, Config{Strategy: StrategyProportional}))
	}
}

func TestAllocate_ZeroRequestedGroup(t *testing.T) {
	// A group with zero total demand allocates nothing and never divides by
	// zero.
	lines := []dispatch.OrderLine{
		line("a", "P1", "Acme", 0, dispatch.Regular),
		line("b", "P1", "Bolt", 0, dispatch.Regular),
	}
	stock := dispatch.StockPool{"P1": 10}

	records := Allocate(lines, stock, Config{Strategy: StrategyProportional})

	assert.Equal(t, []int{0, 0}, gives(records))
	assert.Equal(t, 0.0, records[0].Satisfaction)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("sequential-priority")
	require.NoError(t, err)
	assert.Equal(t, StrategySequential, s)

	s, err = ParseStrategy("proportional")
	require.NoError(t, err)
	assert.Equal(t, StrategyProportional, s)

	_, err = ParseStrategy("fair-share")
	assert.Error(t, err)
}
