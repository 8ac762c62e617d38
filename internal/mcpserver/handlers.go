// Package mcpserver exposes wallet analysis as MCP tools for LLM clients.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mbd888/walletlens/internal/analysis"
	"github.com/mbd888/walletlens/internal/report"
	"github.com/mbd888/walletlens/internal/source"
)

// Handlers holds the handler functions for each MCP tool. Unlike the HTTP
// server, tools run against an immutable snapshot of the dataset taken at
// startup.
type Handlers struct {
	analyzer *analysis.Analyzer
	txs      []analysis.Transaction
}

// NewHandlers creates a Handlers instance over a dataset snapshot.
func NewHandlers(analyzer *analysis.Analyzer, txs []analysis.Transaction) *Handlers {
	return &Handlers{analyzer: analyzer, txs: txs}
}

// HandleAnalyzeWallet returns the structured analysis as JSON.
func (h *Handlers) HandleAnalyzeWallet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := h.address(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := h.analyzer.Analyze(ctx, address, h.txs)
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// HandleWalletReport returns the plain-text rendering.
func (h *Handlers) HandleWalletReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := h.address(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := h.analyzer.Analyze(ctx, address, h.txs)
	return mcp.NewToolResultText(report.Render(result)), nil
}

// HandleListFlagged scans every distinct address in the dataset.
func (h *Handlers) HandleListFlagged(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var addrs []string
	for _, tx := range h.txs {
		for _, addr := range []string{tx.FromAddress, tx.ToAddress} {
			if !seen[addr] {
				seen[addr] = true
				addrs = append(addrs, addr)
			}
		}
	}
	sort.Strings(addrs)

	var b strings.Builder
	flagged := 0
	for _, addr := range addrs {
		if flagged >= limit {
			fmt.Fprintf(&b, "... truncated at %d wallets\n", limit)
			break
		}
		result := h.analyzer.Analyze(ctx, addr, h.txs)
		if !result.Flagged() {
			continue
		}
		flagged++
		fmt.Fprintf(&b, "%s (%d txs, volume %.2f):\n", addr, result.TotalTransactions, result.TotalVolume)
		for _, indicator := range result.RiskIndicators {
			fmt.Fprintf(&b, "  - %s\n", indicator)
		}
	}

	if flagged == 0 {
		return mcp.NewToolResultText("No flagged wallets in the loaded dataset."), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (h *Handlers) address(req mcp.CallToolRequest) (string, error) {
	raw := req.GetString("address", "")
	if raw == "" {
		return "", fmt.Errorf("address is required")
	}
	address, err := source.NormalizeAddress(raw)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %v", raw, err)
	}
	return address, nil
}
