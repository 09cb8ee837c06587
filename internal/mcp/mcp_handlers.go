package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aipowerranking/toolrank/core"
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleCalculateToolScore(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.ToolID = request.GetString("tool_id", "")
	if cfg.ToolID == "" {
		return mcp.NewToolResultError("tool_id is required"), nil
	}
	if v := request.GetString("version", ""); v != "" {
		cfg.Algorithm = v
	}
	if err := contract.RevalidateRun(cfg, request.GetString("date", ""), "", "", time.Now()); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid score parameters: %v", err)), nil
	}

	score, info, err := core.GetToolScoreResult(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	result := struct {
		schema.ToolScore
		Label string `json:"label"`
	}{score, schema.GetTierLabel(score.OverallScore, info.Scale)}
	jsonData, _ := json.MarshalIndent(result, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleBuildRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if v := request.GetString("version", ""); v != "" {
		cfg.Algorithm = v
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	cfg.DryRun = !request.GetBool("persist", false)

	err := contract.RevalidateRun(cfg,
		request.GetString("date", ""),
		request.GetString("period", ""),
		request.GetString("compare", ""),
		time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid ranking parameters: %v", err)), nil
	}

	output, err := core.GetRankingResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}

	result := struct {
		*schema.RankingOutput
		Entries []schema.EnrichedRankingEntry `json:"entries"`
	}{output, schema.EnrichEntries(output.Entries, output.Scale)}
	jsonData, _ := json.MarshalIndent(result, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareSnapshots(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.CurrentPeriod = request.GetString("period", "")
	cfg.PreviousPeriod = request.GetString("previous_period", "")
	if n := request.GetInt("top_movers", 0); n > 0 {
		cfg.TopMovers = n
	}

	if err := schema.ValidatePeriod(cfg.CurrentPeriod); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}
	if cfg.PreviousPeriod != "" {
		if err := schema.ValidatePeriod(cfg.PreviousPeriod); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
		}
		if cfg.PreviousPeriod == cfg.CurrentPeriod {
			return mcp.NewToolResultError("invalid comparison parameters: cannot compare a period with itself"), nil
		}
	}

	report, _, err := core.GetComparisonResults(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetAlgorithmInfo(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.VersionArg = request.GetString("version", "")

	infos, err := core.GetAlgorithmInfos(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(infos, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListSnapshots(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.SnapshotStore
	if h.mgr != nil {
		store = h.mgr.GetSnapshotStore()
	}
	if store == nil {
		return mcp.NewToolResultError("no snapshot store is configured"), nil
	}
	summaries, err := store.ListSnapshots()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	summaries = core.RankSummaries(summaries, request.GetInt("limit", 0))
	if summaries == nil {
		summaries = []schema.SnapshotSummary{}
	}

	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
