package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// ExecuteSchedule runs ExecuteRank on a cron schedule until ctx is canceled.
// Each run ranks as of the current UTC day and compares against the latest
// earlier snapshot.
func ExecuteSchedule(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	c, err := newScheduler(ctx, cfg, mgr, ExecuteRank, time.Now)
	if err != nil {
		return err
	}

	c.Start()
	for _, entry := range c.Entries() {
		l := contract.Logger()
		l.Info().Str("cron", cfg.CronSpec).Time("next", entry.Next).Msg("schedule started")
	}

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// newScheduler registers one ranking job for cfg.CronSpec.
func newScheduler(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, run ExecutorFunc, now func() time.Time) (*cron.Cron, error) {
	if cfg.CronSpec == "" {
		return nil, errors.New("a cron schedule is required (use --cron)")
	}

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(cfg.CronSpec, func() {
		runCfg := scheduledConfig(cfg, now())
		runCtx := withRunID(ctx, uuid.NewString())
		if err := run(runCtx, runCfg, mgr); err != nil {
			contract.LogWarn(fmt.Sprintf("Scheduled ranking for %s failed", runCfg.Period), err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", cfg.CronSpec, err)
	}
	return c, nil
}

// scheduledConfig returns the config for one scheduled run at t.
// An explicit compare period only makes sense for a single run, so
// scheduled runs always compare against the latest earlier snapshot.
func scheduledConfig(cfg *contract.Config, t time.Time) *contract.Config {
	runCfg := cfg.CloneWithReferenceDate(contract.TruncateDay(t.UTC()), "")
	if runCfg.ComparePolicy == schema.CompareExplicit {
		runCfg.ComparePolicy = schema.CompareAuto
		runCfg.ComparePeriod = ""
	}
	return runCfg
}
