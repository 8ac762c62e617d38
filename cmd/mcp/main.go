// Walletlens MCP Server - Exposes wallet analysis as MCP tools for LLMs
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mbd888/walletlens/internal/analysis"
	"github.com/mbd888/walletlens/internal/config"
	"github.com/mbd888/walletlens/internal/mcpserver"
	"github.com/mbd888/walletlens/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DatasetPath == "" {
		fmt.Fprintln(os.Stderr, "DATASET_PATH is required")
		os.Exit(1)
	}

	txs, err := source.LoadFile(cfg.DatasetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load dataset: %v\n", err)
		os.Exit(1)
	}

	rc := analysis.DefaultRiskConfig()
	if len(cfg.MixingServices) > 0 {
		rc.MixingServices = cfg.MixingServices
	}
	if cfg.StructuringThreshold > 0 {
		rc.StructuringThreshold = cfg.StructuringThreshold
	}
	if cfg.VelocityThreshold > 0 {
		rc.VelocityThreshold = cfg.VelocityThreshold
	}
	rc.FlagRoundAmounts = cfg.FlagRoundAmounts

	analyzer := analysis.NewAnalyzer(rc).WithTopN(cfg.TopCounterparties)

	s := mcpserver.NewMCPServer(analyzer, txs)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
