// Package core has core logic for scoring, ranking and snapshot comparison.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aipowerranking/toolrank/core/agg"
	"github.com/aipowerranking/toolrank/core/algo"
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/internal/outwriter"
	"github.com/aipowerranking/toolrank/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// defaultDisplayPrecision applies when a snapshot's algorithm is no longer registered.
const defaultDisplayPrecision int32 = 3

// CalculateToolScore scores one tool with the built-in algorithms.
// A nil signals table means no auxiliary signals are loaded.
func CalculateToolScore(tool schema.ToolRecord, version string, referenceDate time.Time, signals *algo.Signals) (schema.ToolScore, error) {
	return NewEngine(WithSignals(signals)).CalculateToolScore(tool, version, referenceDate)
}

// BuildRanking ranks a catalog with the built-in algorithms.
func BuildRanking(ctx context.Context, tools []schema.ToolRecord, version string, referenceDate time.Time, period string, signals *algo.Signals) (*schema.RankingResult, error) {
	return NewEngine(WithSignals(signals)).BuildRanking(ctx, tools, version, referenceDate, period)
}

// GetAlgorithmInfo describes a built-in algorithm version.
func GetAlgorithmInfo(version string) (schema.AlgorithmInfo, error) {
	return algo.DefaultRegistry().Info(version)
}

// ExecuteRank builds, persists and prints a ranking.
// It serves as the main entry point for the 'rank' command.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	output, err := GetRankingResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintRankingResults(*output, cfg, duration)
}

// GetRankingResults runs a ranking and returns its printable output.
func GetRankingResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.RankingOutput, error) {
	builder, err := NewRankRunBuilder(ctx, cfg, mgr).LoadInputs()
	if err != nil {
		return nil, err
	}
	if builder, err = builder.Rank(); err != nil {
		return nil, err
	}
	if builder, err = builder.Compare(); err != nil {
		return nil, err
	}
	if builder, err = builder.Persist(); err != nil {
		return nil, err
	}
	if builder, err = builder.WriteMetrics(); err != nil {
		return nil, err
	}
	return builder.BuildOutput().GetResult(), nil
}

// ExecuteScore scores a single tool and prints the result.
// It serves as the main entry point for the 'score' command.
func ExecuteScore(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	score, info, err := GetToolScoreResult(cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintToolScore(score, info, cfg)
}

// GetToolScoreResult scores cfg.ToolID from the catalog under cfg.Algorithm.
func GetToolScoreResult(cfg *contract.Config, mgr contract.CacheManager) (schema.ToolScore, schema.AlgorithmInfo, error) {
	if cfg.ToolID == "" {
		return schema.ToolScore{}, schema.AlgorithmInfo{}, errors.New("a tool id is required")
	}
	registry, err := newRegistry(cfg)
	if err != nil {
		return schema.ToolScore{}, schema.AlgorithmInfo{}, err
	}
	info, err := registry.Info(cfg.Algorithm)
	if err != nil {
		return schema.ToolScore{}, schema.AlgorithmInfo{}, err
	}

	tools, err := agg.LoadTools(cfg.CatalogPath)
	if err != nil {
		return schema.ToolScore{}, schema.AlgorithmInfo{}, err
	}
	tool, ok := findTool(tools, cfg.ToolID)
	if !ok {
		return schema.ToolScore{}, schema.AlgorithmInfo{}, fmt.Errorf("tool %q not found in %s", cfg.ToolID, cfg.CatalogPath)
	}

	signals, err := agg.CachedLoadSignals(cfg.SignalsPath, signalCache(mgr), cfg.CacheTTL)
	if err != nil {
		return schema.ToolScore{}, schema.AlgorithmInfo{}, err
	}

	engine := newEngine(cfg, registry, signals, contract.Logger(), nil)
	score, err := engine.CalculateToolScore(tool, cfg.Algorithm, cfg.ReferenceDate)
	if err != nil {
		return schema.ToolScore{}, schema.AlgorithmInfo{}, fmt.Errorf("cannot score %s: %w", tool.ID, err)
	}
	return score, info, nil
}

// ExecuteCompare compares two stored snapshots and prints the report.
// It serves as the main entry point for the 'compare' command.
func ExecuteCompare(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, precision, err := GetComparisonResults(cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintComparisonReport(report, precision, cfg)
}

// GetComparisonResults compares the snapshot for cfg.CurrentPeriod with
// cfg.PreviousPeriod, or with the latest earlier snapshot when none is given.
// It also returns the display precision of the current snapshot's algorithm.
func GetComparisonResults(cfg *contract.Config, mgr contract.CacheManager) (schema.ComparisonReport, int32, error) {
	store := snapshotStore(mgr)
	if store == nil {
		return schema.ComparisonReport{}, 0, errors.New("comparing snapshots requires a snapshot store")
	}
	if cfg.CurrentPeriod == "" {
		return schema.ComparisonReport{}, 0, errors.New("a period to compare is required")
	}

	current, err := store.GetSnapshot(cfg.CurrentPeriod)
	if err != nil {
		return schema.ComparisonReport{}, 0, fmt.Errorf("cannot load snapshot %s: %w", cfg.CurrentPeriod, err)
	}

	policy, explicit := schema.CompareAuto, ""
	if cfg.PreviousPeriod != "" {
		policy, explicit = schema.CompareExplicit, cfg.PreviousPeriod
	}
	prev, err := ResolvePrevious(store, current.Period, policy, explicit)
	if err != nil {
		return schema.ComparisonReport{}, 0, err
	}

	report, err := CompareSnapshots(current, prev, cfg.TopMovers)
	if err != nil {
		return schema.ComparisonReport{}, 0, err
	}
	return report, precisionFor(cfg, current.AlgorithmVersion), nil
}

// ExecuteAlgorithms prints the registered algorithm versions, or one version
// when cfg.VersionArg is set.
func ExecuteAlgorithms(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	infos, err := GetAlgorithmInfos(cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintAlgorithms(infos, cfg)
}

// GetAlgorithmInfos describes the built-in and custom algorithm versions.
func GetAlgorithmInfos(cfg *contract.Config) ([]schema.AlgorithmInfo, error) {
	registry, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}
	versions := registry.Versions()
	if cfg.VersionArg != "" {
		versions = []string{cfg.VersionArg}
	}
	infos := make([]schema.AlgorithmInfo, 0, len(versions))
	for _, v := range versions {
		info, err := registry.Info(v)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ExecuteSnapshotList prints the stored snapshots.
func ExecuteSnapshotList(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store := snapshotStore(mgr)
	if store == nil {
		return errors.New("listing snapshots requires a snapshot store")
	}
	summaries, err := store.ListSnapshots()
	if err != nil {
		return fmt.Errorf("cannot list snapshots: %w", err)
	}
	return outwriter.PrintSnapshotList(RankSummaries(summaries, cfg.ResultLimit), cfg)
}

// RankSummaries returns the newest 'limit' summaries.
func RankSummaries(summaries []schema.SnapshotSummary, limit int) []schema.SnapshotSummary {
	if limit > 0 && len(summaries) > limit {
		return summaries[:limit]
	}
	return summaries
}

// newRegistry returns the built-in registry, extended with the configured
// custom weight versions when there are any.
func newRegistry(cfg *contract.Config) (*algo.Registry, error) {
	if len(cfg.CustomWeights) == 0 {
		return algo.DefaultRegistry(), nil
	}
	registry, err := algo.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.CustomWeights))
	for name := range cfg.CustomWeights {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cw := cfg.CustomWeights[name]
		if _, err := registry.Derive(cw.Base, name, cw.Weights); err != nil {
			return nil, fmt.Errorf("custom weights %s: %w", name, err)
		}
	}
	return registry, nil
}

// precisionFor returns the display precision of an algorithm version.
func precisionFor(cfg *contract.Config, version string) int32 {
	registry, err := newRegistry(cfg)
	if err != nil {
		return defaultDisplayPrecision
	}
	info, err := registry.Info(version)
	if err != nil {
		return defaultDisplayPrecision
	}
	return info.Precision
}

// findTool looks a tool up by id, falling back to a case-insensitive slug match.
func findTool(tools []schema.ToolRecord, id string) (schema.ToolRecord, bool) {
	for _, t := range tools {
		if t.ID == id {
			return t, true
		}
	}
	for _, t := range tools {
		if t.Slug != "" && strings.EqualFold(t.Slug, id) {
			return t, true
		}
	}
	return schema.ToolRecord{}, false
}

// signalCache returns the manager's signal cache, tolerating a nil manager.
func signalCache(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSignalCache()
}

// snapshotStore returns the manager's snapshot store, tolerating a nil manager.
func snapshotStore(mgr contract.CacheManager) contract.SnapshotStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSnapshotStore()
}
