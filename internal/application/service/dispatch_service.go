// Package service orchestrates one dispatch pass: normalize the raw tables,
// run the allocator, accept overrides, and derive the summary views.
package service

import (
	"fmt"
	"log/slog"

	"github.com/prg-tools/dispatch-backend/internal/domain/aggregator"
	"github.com/prg-tools/dispatch-backend/internal/domain/allocator"
	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
	"github.com/prg-tools/dispatch-backend/internal/domain/normalizer"
	"github.com/prg-tools/dispatch-backend/internal/domain/override"
	"github.com/prg-tools/dispatch-backend/internal/infrastructure/config"
)

// Summary bundles the derived views consumed by presentation adapters.
type Summary struct {
	ClientSatisfaction map[string]float64
	Audit              []aggregator.AuditRow
	TotalGiven         int
	TotalRequested     int
}

// DispatchService holds the state of a single allocation pass. It is not safe
// for concurrent use; callers wanting interactive edits from multiple
// goroutines must serialize access (the session store does).
type DispatchService struct {
	allocCfg        allocator.Config
	defaultPriority dispatch.Priority
	logger          *slog.Logger

	stock   dispatch.StockPool
	records []dispatch.Record
}

// New builds a service from application configuration. Unknown strategy or
// priority names are configuration errors.
func New(cfg *config.Config, logger *slog.Logger) (*DispatchService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	strategy, err := allocator.ParseStrategy(cfg.Allocation.Strategy)
	if err != nil {
		return nil, err
	}
	defaultPriority, err := parseDefaultPriority(cfg.Allocation.DefaultPriority)
	if err != nil {
		return nil, err
	}
	bonus := cfg.Allocation.VIPBonusUnits
	if bonus < 0 {
		bonus = 0
	}

	return &DispatchService{
		allocCfg: allocator.Config{
			Strategy:      strategy,
			VIPBonusUnits: bonus,
		},
		defaultPriority: defaultPriority,
		logger:          logger,
	}, nil
}

// Run executes a full allocation pass over the given tables, replacing any
// previous pass state (records are rebuilt wholesale, overrides discarded).
func (s *DispatchService) Run(orders, stock normalizer.Dataset, om normalizer.OrdersMapping, sm normalizer.StockMapping) ([]dispatch.Record, error) {
	lines, err := normalizer.NormalizeOrders(orders, om, s.defaultPriority)
	if err != nil {
		return nil, err
	}
	pool, err := normalizer.NormalizeStock(stock, sm)
	if err != nil {
		return nil, err
	}

	s.stock = pool
	s.records = allocator.Allocate(lines, pool, s.allocCfg)

	s.logger.Info("dispatch pass complete",
		"strategy", string(s.allocCfg.Strategy),
		"order_lines", len(lines),
		"products", len(pool))

	return s.Records(), nil
}

// Override replaces one line's to-give quantity, clamped to its requested
// quantity, and returns the patched record.
func (s *DispatchService) Override(lineID string, newQty int) (dispatch.Record, error) {
	rec, err := override.Apply(s.records, lineID, newQty)
	if err != nil {
		return dispatch.Record{}, err
	}
	s.logger.Debug("override applied",
		"line_id", lineID,
		"requested", newQty,
		"to_give", rec.ToGive)
	return rec, nil
}

// Records returns a copy of the current pass's allocation records in input
// order.
func (s *DispatchService) Records() []dispatch.Record {
	out := make([]dispatch.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Summary derives the client-satisfaction, audit, and fulfillment views from
// the current records. Safe to call again after any override.
func (s *DispatchService) Summary() Summary {
	given, requested := aggregator.OverallFulfillment(s.records)
	return Summary{
		ClientSatisfaction: aggregator.ClientSatisfaction(s.records),
		Audit:              aggregator.ProductAudit(s.records, s.stock),
		TotalGiven:         given,
		TotalRequested:     requested,
	}
}

func parseDefaultPriority(name string) (dispatch.Priority, error) {
	switch name {
	case "", "regular":
		return dispatch.Regular, nil
	case "vip":
		return dispatch.VIP, nil
	default:
		return dispatch.Regular, fmt.Errorf("unknown default priority %q (want \"vip\" or \"regular\")", name)
	}
}
