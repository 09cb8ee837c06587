package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/spf13/viper"
)

// cpuProfile is the open CPU profile while profiling is active.
var cpuProfile *os.File

// setupProfiling reads --profile and starts CPU profiling when a prefix is given.
func setupProfiling() error {
	if err := contract.ProcessProfilingConfig(profile, viper.GetString("profile")); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if !profile.Enabled || cpuProfile != nil {
		return nil
	}

	f, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	cpuProfile = f
	l := contract.Logger()
	l.Info().Str("cpu", f.Name()).Str("heap", profile.Prefix+".mem.prof").Msg("Profiling enabled")
	return nil
}

// StopProfiling flushes the CPU profile and writes a heap profile. It is a no-op
// when profiling never started.
func StopProfiling() error {
	if cpuProfile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	cpuErr := cpuProfile.Close()
	cpuProfile = nil

	heap, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = heap.Close() }()

	runtime.GC()
	if err := pprof.WriteHeapProfile(heap); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	if cpuErr != nil {
		return fmt.Errorf("could not close CPU profile: %w", cpuErr)
	}

	l := contract.Logger()
	l.Info().Msgf("Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.", profile.Prefix)
	return nil
}
