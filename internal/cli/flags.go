package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/prg-tools/dispatch-backend/internal/domain/normalizer"
)

// DispatchFlags are the command line options of the dispatch CLI
type DispatchFlags struct {
	OrdersPath string
	StockPath  string
	OrdersMap  string
	StockMap   string

	Strategy        string
	VIPBonusUnits   int
	DefaultPriority string

	ConfigPath string
	Verbose    bool
}

// ParseDispatchFlags parses the dispatch CLI flags from the command line
func ParseDispatchFlags() DispatchFlags {
	var flags DispatchFlags
	flag.StringVar(&flags.OrdersPath, "orders", "", "Path to the orders CSV file")
	flag.StringVar(&flags.StockPath, "stock", "", "Path to the stock CSV file")
	flag.StringVar(&flags.OrdersMap, "orders-map", "", "Orders column mapping, e.g. product=Product,client=Client,qty=Ordered_Qty,priority=VIP")
	flag.StringVar(&flags.StockMap, "stock-map", "", "Stock column mapping, e.g. product=Product,qty=Available_Qty")
	flag.StringVar(&flags.Strategy, "strategy", "", "Allocation strategy: sequential-priority or proportional (overrides config)")
	flag.IntVar(&flags.VIPBonusUnits, "vip-bonus", -1, "Extra units per VIP line for the proportional strategy (overrides config)")
	flag.StringVar(&flags.DefaultPriority, "default-priority", "", "Priority for lines with no parseable flag: vip or regular (overrides config)")
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to the config file")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// OrdersMapping parses the -orders-map value. The priority role is optional.
func (f DispatchFlags) OrdersMapping() (normalizer.OrdersMapping, error) {
	roles, err := parseMapping(f.OrdersMap, "orders-map")
	if err != nil {
		return normalizer.OrdersMapping{}, err
	}
	m := normalizer.OrdersMapping{
		Product:  roles["product"],
		Client:   roles["client"],
		Quantity: roles["qty"],
		Priority: roles["priority"],
	}
	if m.Product == "" || m.Client == "" || m.Quantity == "" {
		return normalizer.OrdersMapping{}, fmt.Errorf("orders-map needs product=, client= and qty= roles")
	}
	return m, nil
}

// StockMapping parses the -stock-map value.
func (f DispatchFlags) StockMapping() (normalizer.StockMapping, error) {
	roles, err := parseMapping(f.StockMap, "stock-map")
	if err != nil {
		return normalizer.StockMapping{}, err
	}
	m := normalizer.StockMapping{
		Product:  roles["product"],
		Quantity: roles["qty"],
	}
	if m.Product == "" || m.Quantity == "" {
		return normalizer.StockMapping{}, fmt.Errorf("stock-map needs product= and qty= roles")
	}
	return m, nil
}

// parseMapping splits "role=Column,role=Column" pairs.
func parseMapping(raw, flagName string) (map[string]string, error) {
	roles := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("missing -%s", flagName)
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("bad -%s entry %q (want role=Column)", flagName, pair)
		}
		roles[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return roles, nil
}
