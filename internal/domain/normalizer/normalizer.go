// Package normalizer turns raw tabular input into the engine's canonical
// entities.
//
// The caller states explicitly which column plays which role; nothing is
// guessed from column names. A mapping that points at a column the table does
// not have is a configuration error and aborts the run. Bad cell values never
// do: an unparseable quantity degrades to 0 and an unrecognized priority flag
// falls back to the configured default, so one malformed row cannot block the
// rest of the batch.
package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
)

// Dataset is a raw table: a header plus string rows.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// OrdersMapping assigns column names to the order table's roles. Priority may
// be empty, in which case every line gets the default priority class.
type OrdersMapping struct {
	Product  string
	Client   string
	Quantity string
	Priority string
}

// StockMapping assigns column names to the stock table's roles.
type StockMapping struct {
	Product  string
	Quantity string
}

// NormalizeOrders builds order lines from a raw orders table. Each line gets a
// fresh stable ID. The source dataset is not mutated.
func NormalizeOrders(ds Dataset, m OrdersMapping, defaultPriority dispatch.Priority) ([]dispatch.OrderLine, error) {
	productIdx, err := columnIndex(ds, m.Product, "orders")
	if err != nil {
		return nil, err
	}
	clientIdx, err := columnIndex(ds, m.Client, "orders")
	if err != nil {
		return nil, err
	}
	qtyIdx, err := columnIndex(ds, m.Quantity, "orders")
	if err != nil {
		return nil, err
	}
	priorityIdx := -1
	if m.Priority != "" {
		priorityIdx, err = columnIndex(ds, m.Priority, "orders")
		if err != nil {
			return nil, err
		}
	}

	lines := make([]dispatch.OrderLine, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		line := dispatch.OrderLine{
			ID:        uuid.NewString(),
			Product:   cell(row, productIdx),
			Client:    cell(row, clientIdx),
			Requested: CoerceQuantity(cell(row, qtyIdx)),
			Priority:  defaultPriority,
		}
		if priorityIdx >= 0 {
			line.Priority = ParsePriority(cell(row, priorityIdx), defaultPriority)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// NormalizeStock builds the stock pool from a raw stock table. Duplicate rows
// for one product sum their quantities.
func NormalizeStock(ds Dataset, m StockMapping) (dispatch.StockPool, error) {
	productIdx, err := columnIndex(ds, m.Product, "stock")
	if err != nil {
		return nil, err
	}
	qtyIdx, err := columnIndex(ds, m.Quantity, "stock")
	if err != nil {
		return nil, err
	}

	pool := make(dispatch.StockPool, len(ds.Rows))
	for _, row := range ds.Rows {
		product := cell(row, productIdx)
		if product == "" {
			continue
		}
		pool[product] += CoerceQuantity(cell(row, qtyIdx))
	}
	return pool, nil
}

// CoerceQuantity parses a raw cell into a non-negative whole quantity. Integer
// text parses directly; decimal text rounds to the nearest unit; anything else
// coerces to 0. Negative values clamp to 0.
func CoerceQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0
		}
		n = int(math.Round(f))
	}
	if n < 0 {
		return 0
	}
	return n
}

// ParsePriority recognizes 1/0 and case-insensitive yes/no; anything else
// falls back to def.
func ParsePriority(raw string, def dispatch.Priority) dispatch.Priority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "yes":
		return dispatch.VIP
	case "0", "no":
		return dispatch.Regular
	default:
		return def
	}
}

func columnIndex(ds Dataset, name, table string) (int, error) {
	for i, col := range ds.Columns {
		if col == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s: column %q not found (have %v)", table, name, ds.Columns)
}

// cell tolerates short rows: a missing trailing cell reads as empty.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
