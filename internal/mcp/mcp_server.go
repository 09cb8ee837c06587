// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the toolrank MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Toolrank Ranking Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: calculate_tool_score ---
	s.AddTool(mcp.NewTool("calculate_tool_score",
		mcp.WithDescription("Score a single tool from the catalog and explain each factor's contribution."),
		mcp.WithString("tool_id", mcp.Description("Catalog id or slug of the tool to score."), mcp.Required()),
		mcp.WithString("version", mcp.Description("Algorithm version (e.g. v6, v7, v7.3). Defaults to the configured algorithm.")),
		mcp.WithString("date", mcp.Description("Reference date (e.g. '2025-06-01', 'yesterday', '2 weeks ago'). Defaults to today.")),
	), h.handleCalculateToolScore)

	// --- 2. Tool: build_ranking ---
	s.AddTool(mcp.NewTool("build_ranking",
		mcp.WithDescription("Rank every active tool in the catalog and compare with the previous period."),
		mcp.WithString("version", mcp.Description("Algorithm version (e.g. v6, v7, v7.3).")),
		mcp.WithString("date", mcp.Description("Reference date. Defaults to today.")),
		mcp.WithString("period", mcp.Description("Snapshot period label (YYYY-MM or YYYY-MM-DD). Defaults to the month of the reference date.")),
		mcp.WithString("compare", mcp.Description("Comparison policy: auto, none, or a period to compare with.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries returned.")),
		mcp.WithBoolean("persist", mcp.Description("Store the snapshot. Defaults to false.")),
	), h.handleBuildRanking)

	// --- 3. Tool: compare_snapshots ---
	s.AddTool(mcp.NewTool("compare_snapshots",
		mcp.WithDescription("Compare a stored ranking snapshot with an earlier one."),
		mcp.WithString("period", mcp.Description("Period of the snapshot to compare."), mcp.Required()),
		mcp.WithString("previous_period", mcp.Description("Period to compare against. Defaults to the latest earlier snapshot.")),
		mcp.WithNumber("top_movers", mcp.Description("Number of biggest gainers and losers to report.")),
	), h.handleCompareSnapshots)

	// --- 4. Tool: get_algorithm_info ---
	s.AddTool(mcp.NewTool("get_algorithm_info",
		mcp.WithDescription("Describe the registered algorithm versions, their weights and features."),
		mcp.WithString("version", mcp.Description("Only describe this version.")),
	), h.handleGetAlgorithmInfo)

	// --- 5. Tool: list_snapshots ---
	s.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List stored ranking snapshots, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of snapshots returned.")),
	), h.handleListSnapshots)

	return s
}

// StartMCPServer starts the toolrank MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
