package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aipowerranking/toolrank/core/agg"
	"github.com/aipowerranking/toolrank/core/algo"
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RankRunBuilder builds the output of a ranking run using a builder pattern.
type RankRunBuilder struct {
	ctx        context.Context
	cfg        *contract.Config
	mgr        contract.CacheManager
	logger     zerolog.Logger
	tools      []schema.ToolRecord
	engine     *Engine
	metrics    *Metrics
	info       schema.AlgorithmInfo
	result     *schema.RankingResult
	comparison *schema.ComparisonReport
	persisted  bool
	output     *schema.RankingOutput
}

// NewRankRunBuilder creates a new builder for one ranking run.
func NewRankRunBuilder(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) *RankRunBuilder {
	id, ok := getRunID(ctx)
	if !ok {
		id = uuid.NewString()
		ctx = withRunID(ctx, id)
	}
	return &RankRunBuilder{
		ctx:    ctx,
		cfg:    cfg,
		mgr:    mgr,
		logger: contract.Logger().With().Str("run", id).Logger(),
	}
}

// LoadInputs reads the catalog and signals and prepares the engine.
func (b *RankRunBuilder) LoadInputs() (*RankRunBuilder, error) {
	registry, err := newRegistry(b.cfg)
	if err != nil {
		return nil, err
	}
	info, err := registry.Info(b.cfg.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("cannot rank with %q (available: %v): %w", b.cfg.Algorithm, registry.Versions(), err)
	}
	b.info = info

	tools, err := agg.LoadTools(b.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	b.tools = tools

	signals, err := agg.CachedLoadSignals(b.cfg.SignalsPath, signalCache(b.mgr), b.cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	if b.cfg.MetricsFile != "" {
		b.metrics = NewMetrics()
	}
	b.engine = newEngine(b.cfg, registry, signals, b.logger, b.metrics)

	logRunHeader(b.ctx, b.cfg, len(tools), signals)
	return b, nil
}

// Rank scores the catalog and assembles the snapshot.
func (b *RankRunBuilder) Rank() (*RankRunBuilder, error) {
	result, err := b.engine.BuildRanking(b.ctx, b.tools, b.cfg.Algorithm, b.cfg.ReferenceDate, b.cfg.Period)
	if err != nil {
		return nil, err
	}
	for _, e := range result.Errors {
		b.logger.Warn().Str("tool", e.ToolID).Msg(e.Error)
	}
	b.result = result
	return b, nil
}

// Compare diffs the new snapshot against the previous one selected by the compare policy.
// It runs before Persist so the new snapshot never shadows its predecessor.
func (b *RankRunBuilder) Compare() (*RankRunBuilder, error) {
	if b.cfg.ComparePolicy == schema.CompareNone {
		return b, nil
	}
	prev, err := ResolvePrevious(snapshotStore(b.mgr), b.result.Snapshot.Period, b.cfg.ComparePolicy, b.cfg.ComparePeriod)
	if err != nil {
		return nil, err
	}
	report, err := CompareSnapshots(&b.result.Snapshot, prev, b.cfg.TopMovers)
	if err != nil {
		return nil, err
	}
	b.comparison = &report
	return b, nil
}

// Persist stores the snapshot unless this is a dry run or there is no store.
func (b *RankRunBuilder) Persist() (*RankRunBuilder, error) {
	store := snapshotStore(b.mgr)
	if b.cfg.DryRun || store == nil {
		return b, nil
	}
	if err := store.SaveSnapshot(b.result.Snapshot); err != nil {
		return nil, fmt.Errorf("cannot save snapshot for %s: %w", b.result.Snapshot.Period, err)
	}
	b.persisted = b.cfg.StoreBackend != schema.NoneBackend
	b.logger.Debug().Str("period", b.result.Snapshot.Period).Bool("persisted", b.persisted).Msg("snapshot saved")
	return b, nil
}

// WriteMetrics exports the run metrics when a metrics file is configured.
func (b *RankRunBuilder) WriteMetrics() (*RankRunBuilder, error) {
	if b.metrics == nil {
		return b, nil
	}
	if err := b.metrics.WriteTextfile(b.cfg.MetricsFile); err != nil {
		return nil, fmt.Errorf("cannot write metrics to %s: %w", b.cfg.MetricsFile, err)
	}
	return b, nil
}

// BuildOutput constructs the printable RankingOutput.
func (b *RankRunBuilder) BuildOutput() *RankRunBuilder {
	snap := b.result.Snapshot
	b.output = &schema.RankingOutput{
		SnapshotID:       snap.ID,
		Period:           snap.Period,
		AlgorithmVersion: snap.AlgorithmVersion,
		GeneratedAt:      snap.GeneratedAt,
		Scale:            b.info.Scale,
		Precision:        b.info.Precision,
		TotalRanked:      len(snap.Entries),
		Entries:          RankEntries(snap.Entries, b.cfg.ResultLimit),
		Comparison:       b.comparison,
		Errors:           b.result.Errors,
		Skipped:          b.result.Skipped,
		Persisted:        b.persisted,
	}
	return b
}

// GetResult returns the built RankingOutput.
func (b *RankRunBuilder) GetResult() *schema.RankingOutput {
	return b.output
}

// GetRankingResult returns the raw ranking result, including every tool score.
func (b *RankRunBuilder) GetRankingResult() *schema.RankingResult {
	return b.result
}

// newEngine wires an Engine from the run configuration.
func newEngine(cfg *contract.Config, registry *algo.Registry, signals *algo.Signals, logger zerolog.Logger, metrics *Metrics) *Engine {
	opts := []Option{
		WithRegistry(registry),
		WithSignals(signals),
		WithStrictFactors(cfg.Strict),
		WithLogger(logger),
	}
	if cfg.Workers > 0 {
		opts = append(opts, WithWorkers(cfg.Workers))
	}
	if metrics != nil {
		opts = append(opts, WithMetrics(metrics))
	}
	return NewEngine(opts...)
}

// logRunHeader prints a concise, 2-line header for a ranking run to stderr.
func logRunHeader(ctx context.Context, cfg *contract.Config, toolCount int, signals *algo.Signals) {
	if shouldSuppressHeader(ctx) {
		return
	}
	velocity, news := signals.Len()

	// Line 1: The run summary (Catalog and Algorithm)
	fmt.Fprintf(os.Stderr, "🔎 Ranking %d tools (Algorithm: %s)\n", toolCount, cfg.Algorithm)

	// Line 2: The period and inputs being used
	fmt.Fprintf(os.Stderr, "📅 Period: %s (reference %s, %d velocity / %d news signals)\n",
		cfg.Period, cfg.ReferenceDate.Format(time.DateOnly), velocity, news)
}
