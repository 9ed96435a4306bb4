package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/prg-tools/dispatch-backend/internal/application/service"
	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
)

// PrintHeader prints the application header
func PrintHeader(strategy string) {
	fmt.Printf("dispatch: allocation pass (%s strategy)\n\n", strategy)
}

// PrintDispatchTable prints the annotated orders table
func PrintDispatchTable(records []dispatch.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tCLIENT\tPRIORITY\tREQUESTED\tALLOCATED\tTO GIVE\tSATISFACTION")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.2f%%\n",
			r.Line.Product,
			r.Line.Client,
			r.Line.Priority,
			r.Line.Requested,
			r.Allocated,
			r.ToGive,
			r.Satisfaction)
	}
	w.Flush()
	fmt.Println()
}

// PrintSummary prints the client satisfaction, audit, and fulfillment views
func PrintSummary(summary service.Summary) {
	fmt.Println("Client satisfaction:")
	clients := make([]string, 0, len(summary.ClientSatisfaction))
	for client := range summary.ClientSatisfaction {
		clients = append(clients, client)
	}
	sort.Strings(clients)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, client := range clients {
		fmt.Fprintf(w, "  %s\t%.2f%%\n", client, summary.ClientSatisfaction[client])
	}
	w.Flush()

	fmt.Println("\nStock vs demand audit:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  PRODUCT\tREQUESTED\tGIVEN\tAVAILABLE\tUNALLOCATED\tUNMET")
	for _, row := range summary.Audit {
		fmt.Fprintf(w, "  %s\t%d\t%d\t%d\t%d\t%d\n",
			row.Product, row.Requested, row.Given, row.Available, row.Unallocated, row.UnmetDemand)
	}
	w.Flush()

	fmt.Println(strings.Repeat("-", 60))
	pct := 0.0
	if summary.TotalRequested > 0 {
		pct = float64(summary.TotalGiven) / float64(summary.TotalRequested) * 100
	}
	fmt.Printf("Fulfillment: Given=%d Requested=%d (%.1f%%)\n",
		summary.TotalGiven, summary.TotalRequested, pct)
}
