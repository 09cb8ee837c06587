package core

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/aipowerranking/toolrank/core/algo"
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// snapshotNamespace scopes deterministic snapshot ids.
var snapshotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://toolrank/snapshots"))

// ErrNoReferenceDate is returned when a run has no reference date.
var ErrNoReferenceDate = errors.New("reference date is required")

// Engine scores tool collections with a registry of algorithm versions.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	registry *algo.Registry
	signals  *algo.Signals
	workers  int
	strict   bool
	logger   zerolog.Logger
	metrics  *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry selects the algorithm registry. The default is algo.DefaultRegistry().
func WithRegistry(r *algo.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithSignals sets the preloaded auxiliary signals shared by every scorer.
func WithSignals(s *algo.Signals) Option {
	return func(e *Engine) { e.signals = s }
}

// WithWorkers sets the size of the scoring worker pool.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithStrictFactors makes an out-of-range factor a per-tool error instead of a clamp.
func WithStrictFactors(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithLogger sets the logger used for warnings and run summaries.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records run statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine returns an Engine with the given options applied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: algo.DefaultRegistry(),
		signals:  algo.EmptySignals(),
		workers:  runtime.GOMAXPROCS(0),
		logger:   contract.Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.signals == nil {
		e.signals = algo.EmptySignals()
	}
	return e
}

// Registry returns the engine's algorithm registry.
func (e *Engine) Registry() *algo.Registry {
	return e.registry
}

// CalculateToolScore scores one tool under one version. Unlike BuildRanking it
// ignores the tool's status, which makes it useful for spot checks.
func (e *Engine) CalculateToolScore(tool schema.ToolRecord, version string, referenceDate time.Time) (schema.ToolScore, error) {
	alg, err := e.registry.Get(version)
	if err != nil {
		return schema.ToolScore{}, err
	}
	if referenceDate.IsZero() {
		return schema.ToolScore{}, ErrNoReferenceDate
	}
	if strings.TrimSpace(tool.ID) == "" {
		return schema.ToolScore{}, errors.New("tool id is required")
	}
	return e.scoreTool(alg, tool, e.inputs(referenceDate))
}

// BuildRanking scores every active tool in parallel and assembles a snapshot.
// Configuration errors abort the run; per-tool failures are collected in
// RankingResult.Errors and the tool is left out of the snapshot.
func (e *Engine) BuildRanking(ctx context.Context, tools []schema.ToolRecord, version string, referenceDate time.Time, period string) (*schema.RankingResult, error) {
	start := time.Now()

	// --- 1. Setup ---
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	alg, err := e.registry.Get(version)
	if err != nil {
		return nil, fmt.Errorf("cannot build ranking: %w", err)
	}
	if referenceDate.IsZero() {
		return nil, ErrNoReferenceDate
	}
	referenceDate = contract.TruncateDay(referenceDate)
	if period == "" {
		period = schema.PeriodOf(referenceDate)
	} else if err := schema.ValidatePeriod(period); err != nil {
		return nil, err
	}

	active, skipped, invalid := partitionTools(tools)

	// --- 2. Parallel scoring ---
	scores, failures := e.scoreAll(alg, active, e.inputs(referenceDate))
	failures = append(invalid, failures...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 3. Finalize ---
	sortScores(scores)
	sortFailures(failures)

	entries := make([]schema.RankingEntry, len(scores))
	for i, s := range scores {
		entries[i] = schema.RankingEntry{
			Position:     i + 1,
			ToolID:       s.ToolID,
			ToolName:     s.ToolName,
			Score:        s.OverallScore,
			FactorScores: s.FactorScores,
		}
	}

	result := &schema.RankingResult{
		Snapshot: schema.RankingSnapshot{
			ID:               SnapshotID(period, alg.Version),
			Period:           period,
			AlgorithmVersion: alg.Version,
			GeneratedAt:      referenceDate,
			Entries:          entries,
		},
		Scores:  scores,
		Errors:  failures,
		Skipped: skipped,
	}

	if e.metrics != nil {
		e.metrics.ObserveRanking(result, time.Since(start))
	}
	e.logger.Debug().
		Str("version", alg.Version).
		Str("period", period).
		Int("ranked", len(entries)).
		Int("errors", len(failures)).
		Int("skipped", len(skipped)).
		Dur("took", time.Since(start)).
		Msg("ranking built")

	return result, nil
}

// SnapshotID returns the deterministic id of the snapshot for a period and version.
func SnapshotID(period, version string) string {
	return uuid.NewSHA1(snapshotNamespace, []byte(period+"|"+version)).String()
}

func (e *Engine) inputs(referenceDate time.Time) algo.Inputs {
	return algo.Inputs{
		ReferenceDate: contract.TruncateDay(referenceDate),
		Signals:       e.signals,
	}
}

// scoreAll processes all tools in parallel using a worker pool.
// It spawns e.workers goroutines and collects their results. Output order
// is not significant; the caller sorts.
func (e *Engine) scoreAll(alg *algo.Algorithm, tools []schema.ToolRecord, in algo.Inputs) ([]schema.ToolScore, []schema.ScoringError) {
	type outcome struct {
		score schema.ToolScore
		err   *schema.ScoringError
	}

	toolCh := make(chan schema.ToolRecord, len(tools))
	outCh := make(chan outcome, len(tools))
	var wg sync.WaitGroup

	workers := min(e.workers, max(len(tools), 1))
	for range workers {
		wg.Go(func() {
			for tool := range toolCh {
				score, err := e.scoreTool(alg, tool, in)
				if err != nil {
					outCh <- outcome{err: &schema.ScoringError{ToolID: tool.ID, Error: err.Error()}}
					continue
				}
				outCh <- outcome{score: score}
			}
		})
	}

	for _, t := range tools {
		toolCh <- t
	}
	close(toolCh)

	wg.Wait()
	close(outCh)

	scores := make([]schema.ToolScore, 0, len(tools))
	var failures []schema.ScoringError
	for o := range outCh {
		if o.err != nil {
			failures = append(failures, *o.err)
			continue
		}
		scores = append(scores, o.score)
	}
	return scores, failures
}

// scoreTool scores a single tool, turning a scorer panic into an error.
func (e *Engine) scoreTool(alg *algo.Algorithm, tool schema.ToolRecord, in algo.Inputs) (score schema.ToolScore, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scorer panic: %v", r)
		}
	}()

	score, err = alg.Score(tool, in, e.strict)
	if err != nil {
		return schema.ToolScore{}, err
	}
	for _, w := range score.Warnings {
		e.logger.Warn().Str("tool", tool.ID).Str("version", alg.Version).Msg(w)
	}
	return score, nil
}

// partitionTools splits the catalog into rankable tools, skipped (non-active)
// tool ids and per-tool errors for empty or duplicate ids.
func partitionTools(tools []schema.ToolRecord) (active []schema.ToolRecord, skipped []string, invalid []schema.ScoringError) {
	seen := make(map[string]int, len(tools))
	for _, t := range tools {
		seen[t.ID]++
	}

	active = make([]schema.ToolRecord, 0, len(tools))
	reported := make(map[string]bool)
	for _, t := range tools {
		id := strings.TrimSpace(t.ID)
		switch {
		case id == "":
			invalid = append(invalid, schema.ScoringError{ToolID: t.ID, Error: fmt.Sprintf("tool %q has no id", t.DisplayName())})
		case seen[t.ID] > 1:
			if !reported[t.ID] {
				reported[t.ID] = true
				invalid = append(invalid, schema.ScoringError{ToolID: t.ID, Error: fmt.Sprintf("duplicate tool id (%d records)", seen[t.ID])})
			}
		case !t.IsActive():
			skipped = append(skipped, t.ID)
		default:
			active = append(active, t)
		}
	}
	return active, skipped, invalid
}
