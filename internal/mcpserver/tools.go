package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the walletlens MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolAnalyzeWallet = mcp.NewTool("analyze_wallet",
	mcp.WithDescription(
		"Analyze a wallet address against the loaded transaction dataset. "+
			"Returns transaction counts, total volume, triggered risk indicators "+
			"(mixing services, structuring, round amounts), velocity metrics, and "+
			"top counterparties as JSON."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address to analyze (e.g. '0x1234...') or a service label")),
)

var ToolWalletReport = mcp.NewTool("wallet_report",
	mcp.WithDescription(
		"Produce a human-readable analysis report for a wallet address. "+
			"Same analysis as analyze_wallet, formatted as a plain-text report "+
			"suitable for pasting into a case file."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address to report on")),
)

var ToolListFlagged = mcp.NewTool("list_flagged",
	mcp.WithDescription(
		"Scan every address in the loaded dataset and list the wallets that "+
			"trigger at least one risk indicator, with the indicators that fired. "+
			"Use this to find wallets worth a closer look."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of flagged wallets to return (default 20)")),
)
