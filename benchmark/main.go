// Package main provides a performance benchmarking tool for the toolrank CLI.
// It generates synthetic catalogs of increasing size, ranks each one several
// times without and with the signal cache, treating the first cached run as
// cold and averaging the rest as warm, and writes the timings to CSV.
//
// Prerequisites:
// - toolrank binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated catalogs and cache files
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aipowerranking/toolrank/core/agg"
	"github.com/aipowerranking/toolrank/schema"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Catalog     string
	Algorithm   string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Workers      int
	NoCacheRuns  int
	CacheRuns    int
	CatalogSizes []int
	Algorithms   []string
}

var categories = []string{"autonomous-agent", "code-editor", "ide-assistant", "open-source-framework", "app-builder", "code-review"}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:      os.Args[1],
		Timeout:      5 * time.Minute,
		Workers:      8,
		NoCacheRuns:  3,
		CacheRuns:    4,
		CatalogSizes: []int{100, 1000, 10000, 50000},
		Algorithms:   []string{"v6", "v7", "v7.3"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config)
}

// checkPrerequisites verifies that the toolrank binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("toolrank"); err != nil {
		return fmt.Errorf("toolrank binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks executes all benchmark tests across the generated catalogs
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d catalogs, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.CatalogSizes), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.CatalogSizes {
		catalogPath, signalsPath, err := generateInputs(config.WorkDir, size)
		if err != nil {
			fmt.Printf("Skipping %d tools: %v\n", size, err)
			continue
		}
		for _, algorithm := range config.Algorithms {
			results = append(results, runBenchmarkSuite(config, size, catalogPath, signalsPath, algorithm))
		}
	}

	return results
}

// generateInputs writes a synthetic catalog with n tools and a matching signals file.
func generateInputs(dir string, n int) (string, string, error) {
	rng := rand.New(rand.NewPCG(uint64(n), 42))
	catalog := agg.Catalog{Tools: make([]schema.ToolRecord, n)}
	signals := agg.SignalsFile{
		Velocity:   make(map[string]float64, n),
		NewsImpact: make(map[string]schema.NewsImpact, n),
	}

	for i := range n {
		id := fmt.Sprintf("tool-%05d", i)
		features := make([]string, rng.IntN(20))
		for j := range features {
			features[j] = "feature " + strconv.Itoa(j)
		}
		catalog.Tools[i] = schema.ToolRecord{
			ID:       id,
			Name:     fmt.Sprintf("Tool %05d", i),
			Category: categories[rng.IntN(len(categories))],
			Info: &schema.ToolInfo{
				Description: strings.Repeat("An AI coding tool. ", 1+rng.IntN(10)),
				Features:    features,
				Technical: &schema.TechnicalInfo{
					SWEBenchVerified: ptr(rng.Float64() * 80),
					MultiFileSupport: ptr(rng.IntN(2) == 1),
				},
				Metrics: &schema.MetricsInfo{
					Users:       ptr(float64(rng.IntN(5_000_000))),
					GitHubStars: ptr(float64(rng.IntN(100_000))),
				},
			},
		}
		signals.Velocity[id] = rng.Float64() * 100
		signals.NewsImpact[id] = schema.NewsImpact{TotalImpact: rng.Float64() * 100}
	}

	catalogPath := filepath.Join(dir, fmt.Sprintf("catalog_%d.json", n))
	signalsPath := filepath.Join(dir, fmt.Sprintf("signals_%d.json", n))
	if err := writeJSONFile(catalogPath, catalog); err != nil {
		return "", "", err
	}
	if err := writeJSONFile(signalsPath, signals); err != nil {
		return "", "", err
	}
	return catalogPath, signalsPath, nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ptr[T any](v T) *T {
	return &v
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for one catalog and algorithm
func runBenchmarkSuite(config BenchmarkConfig, size int, catalogPath, signalsPath, algorithm string) BenchmarkResult {
	fmt.Printf("Ranking %d tools with %s\n", size, algorithm)

	cacheDB := filepath.Join(config.WorkDir, fmt.Sprintf("cache_%d_%s.db", size, algorithm))
	_ = os.Remove(cacheDB)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		args := []string{
			"rank", "--dry-run", "--compare", "none",
			"--catalog", catalogPath, "--signals", signalsPath,
			"--algorithm", algorithm,
			"--workers", strconv.Itoa(config.Workers),
			"--store-backend", "none",
			"--cache-backend", cacheBackend,
		}
		if cacheBackend == "sqlite" {
			args = append(args, "--cache-db-connect", cacheDB)
		}
		cold, times := runBenchmark(config, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Catalog:     strconv.Itoa(size),
		Algorithm:   algorithm,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a toolrank command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("toolrank", args...)
		cmd.Dir = config.WorkDir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Ranked in") && strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/toolrank_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"tools", "algorithm", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Catalog, result.Algorithm, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")

	for _, algorithm := range config.Algorithms {
		fmt.Printf("Algorithm %s:\n", algorithm)
		for _, result := range results {
			if result.Algorithm == algorithm {
				fmt.Printf("  %6s tools: No-cache: %s, Cold: %s, Warm: %s\n", result.Catalog, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
