package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/mbd888/walletlens/internal/analysis"
)

// NewMCPServer creates a configured MCP server with all walletlens tools registered.
func NewMCPServer(analyzer *analysis.Analyzer, txs []analysis.Transaction) *server.MCPServer {
	s := server.NewMCPServer("walletlens", "1.0.0")
	h := NewHandlers(analyzer, txs)

	s.AddTool(ToolAnalyzeWallet, h.HandleAnalyzeWallet)
	s.AddTool(ToolWalletReport, h.HandleWalletReport)
	s.AddTool(ToolListFlagged, h.HandleListFlagged)

	return s
}
