package main

import (
	"fmt"
	"os"

	"github.com/prg-tools/dispatch-backend/internal/application/service"
	"github.com/prg-tools/dispatch-backend/internal/cli"
	"github.com/prg-tools/dispatch-backend/internal/infrastructure/config"
	"github.com/prg-tools/dispatch-backend/internal/observability"
)

func main() {
	flags := cli.ParseDispatchFlags()

	if flags.OrdersPath == "" || flags.StockPath == "" {
		fmt.Fprintln(os.Stderr, "usage: dispatch -orders orders.csv -stock stock.csv -orders-map ... -stock-map ...")
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	if flags.Strategy != "" {
		cfg.Allocation.Strategy = flags.Strategy
	}
	if flags.VIPBonusUnits >= 0 {
		cfg.Allocation.VIPBonusUnits = flags.VIPBonusUnits
	}
	if flags.DefaultPriority != "" {
		cfg.Allocation.DefaultPriority = flags.DefaultPriority
	}
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}

	logger := observability.NewLogger(cfg.Observability.Logging)

	ordersMapping, err := flags.OrdersMapping()
	if err != nil {
		fatal(err)
	}
	stockMapping, err := flags.StockMapping()
	if err != nil {
		fatal(err)
	}

	orders, err := cli.ReadCSVDataset(flags.OrdersPath)
	if err != nil {
		fatal(err)
	}
	stock, err := cli.ReadCSVDataset(flags.StockPath)
	if err != nil {
		fatal(err)
	}

	svc, err := service.New(cfg, logger)
	if err != nil {
		fatal(err)
	}
	records, err := svc.Run(orders, stock, ordersMapping, stockMapping)
	if err != nil {
		fatal(err)
	}

	cli.PrintHeader(cfg.Allocation.Strategy)
	cli.PrintDispatchTable(records)
	cli.PrintSummary(svc.Summary())
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "dispatch: %v\n", err)
	os.Exit(1)
}
