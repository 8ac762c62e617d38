// Command analyze runs a one-shot wallet analysis against a JSON transaction
// file and prints the report to stdout.
//
// Usage:
//
//	go run ./cmd/analyze -file transactions.json -address 0xabc...
//	go run ./cmd/analyze -file transactions.json -address 0xabc... -json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mbd888/walletlens/internal/analysis"
	"github.com/mbd888/walletlens/internal/report"
	"github.com/mbd888/walletlens/internal/source"
)

func main() {
	var (
		file    = flag.String("file", "", "path to the JSON transaction file (required)")
		address = flag.String("address", "", "wallet address to analyze (required)")
		topN    = flag.Int("top", analysis.DefaultTopCounterparties, "number of top counterparties to report")
		asJSON  = flag.Bool("json", false, "emit the analysis as JSON instead of a text report")
	)
	flag.Parse()

	if *file == "" || *address == "" {
		flag.Usage()
		os.Exit(2)
	}

	addr, err := source.NormalizeAddress(*address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid address %q: %v\n", *address, err)
		os.Exit(1)
	}

	txs, err := source.LoadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *file, err)
		os.Exit(1)
	}

	analyzer := analysis.NewAnalyzer(analysis.DefaultRiskConfig()).WithTopN(*topN)
	result := analyzer.Analyze(context.Background(), addr, txs)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode analysis: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Print(report.Render(result))
}
