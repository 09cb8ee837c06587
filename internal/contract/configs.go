package contract

import (
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/aipowerranking/toolrank/schema"
)

// Default values for configuration.
const (
	DefaultAlgorithm   = "v7.3"
	DefaultResultLimit = 50
	MaxResultLimit     = 1000
	DefaultTopMovers   = 5
	DefaultCacheTTL    = "7 days"
	DefaultLogLevel    = "warn"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// WeightSumTolerance is how far a custom weight vector may drift from 1.
const WeightSumTolerance = 1e-9

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// CustomWeightsRaw is one custom algorithm version from the config file.
type CustomWeightsRaw struct {
	Base    string             `mapstructure:"base"`
	Weights map[string]float64 `mapstructure:"weights"`
}

// CustomWeights is a validated custom algorithm version.
type CustomWeights struct {
	Base    string
	Weights map[schema.FactorName]float64
}

// Config holds the runtime configuration for a ranking run.
// This struct remains the "final, validated" config.
type Config struct {
	CatalogPath string
	SignalsPath string
	Algorithm   string

	ReferenceDate time.Time
	Period        string
	ComparePolicy schema.ComparePolicy
	ComparePeriod string // set when ComparePolicy is explicit

	ResultLimit int
	Workers     int
	Strict      bool
	DryRun      bool
	TopMovers   int

	Output     schema.OutputMode
	OutputFile string
	Explain    bool
	Detail     bool
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	MetricsFile string
	LogLevel    string
	CronSpec    string

	// CustomWeights maps a custom version name to its base version and weights.
	CustomWeights map[string]CustomWeights

	// Positional arguments.
	ToolID         string
	VersionArg     string
	CurrentPeriod  string
	PreviousPeriod string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	ToolIDArg  string
	VersionArg string
	PeriodArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Catalog        string `mapstructure:"catalog"`
	Signals        string `mapstructure:"signals"`
	Algorithm      string `mapstructure:"algorithm"`
	Date           string `mapstructure:"date"`
	Period         string `mapstructure:"period"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Strict         bool   `mapstructure:"strict"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Detail         bool   `mapstructure:"detail"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	MetricsFile    string `mapstructure:"metrics-file"`
	LogLevel       string `mapstructure:"log-level"`

	// --- Fields from rankCmd.Flags() ---
	Compare   string `mapstructure:"compare"`
	DryRun    bool   `mapstructure:"dry-run"`
	TopMovers int    `mapstructure:"top-movers"`

	// --- Fields from scoreCmd.Flags() ---
	Explain bool `mapstructure:"explain"`

	// --- Fields from scheduleCmd.Flags() ---
	Cron string `mapstructure:"cron"`

	// --- Custom weights from config file ---
	CustomWeights map[string]CustomWeightsRaw `mapstructure:"custom_weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[string]CustomWeights, len(c.CustomWeights))
		for name, cw := range c.CustomWeights {
			weights := make(map[schema.FactorName]float64, len(cw.Weights))
			maps.Copy(weights, cw.Weights)
			clone.CustomWeights[name] = CustomWeights{Base: cw.Base, Weights: weights}
		}
	}
	return &clone
}

// CloneWithReferenceDate returns a copy of the Config for another reference date.
// The period is re-derived unless it was set explicitly to something else.
func (c *Config) CloneWithReferenceDate(date time.Time, period string) *Config {
	clone := c.Clone()
	clone.ReferenceDate = date
	clone.Period = period
	if clone.Period == "" {
		clone.Period = schema.PeriodOf(date)
	}
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	return ProcessAndValidateAt(cfg, input, time.Now())
}

// ProcessAndValidateAt is ProcessAndValidate with an explicit clock.
func ProcessAndValidateAt(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processReferenceDate(cfg, input, now); err != nil {
		return err
	}
	if err := processComparePolicy(cfg, input); err != nil {
		return err
	}
	if err := processPositionalArgs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// RevalidateRun applies per-request date, period and compare overrides to an
// already validated config. Empty values keep the config's settings, except
// that a new date re-derives the period.
func RevalidateRun(cfg *Config, date, period, compare string, now time.Time) error {
	if strings.TrimSpace(date) != "" {
		d, err := ParseReferenceDate(date, now)
		if err != nil {
			return err
		}
		cfg.ReferenceDate = d
		cfg.Period = schema.PeriodOf(d)
	}
	if p := strings.TrimSpace(period); p != "" {
		if err := schema.ValidatePeriod(p); err != nil {
			return err
		}
		cfg.Period = p
	}
	if strings.TrimSpace(compare) == "" {
		if cfg.ComparePolicy == schema.CompareExplicit && cfg.ComparePeriod == cfg.Period {
			return fmt.Errorf("cannot compare period %s with itself", cfg.Period)
		}
		return nil
	}
	cfg.ComparePeriod = ""
	return processComparePolicy(cfg, &ConfigRawInput{Compare: compare})
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL, PostgreSQL and Redis backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must be a redis:// or rediss:// URL")
		}
	}
	return nil
}

// validateBackendConfigs validates snapshot store and signal cache backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Snapshot Store Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("store-db-connect: %w", err)
	}

	// --- Signal Cache Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	ttl := input.CacheTTL
	if ttl == "" {
		ttl = DefaultCacheTTL
	}
	d, err := ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid cache-ttl: %w", err)
	}
	cfg.CacheTTL = d

	// Both SQLite stores default to separate files; an explicit path must not collide.
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.CacheBackend == schema.SQLiteBackend {
		storePath := cfg.StoreDBConnect
		if storePath == "" {
			storePath = GetSnapshotDBFilePath()
		}
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		if filepath.Clean(storePath) == filepath.Clean(cachePath) {
			return fmt.Errorf("snapshot store and signal cache must use different SQLite database files. Both resolve to %q", storePath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all fields that need no parsing.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.CatalogPath = strings.TrimSpace(input.Catalog)
	cfg.SignalsPath = strings.TrimSpace(input.Signals)
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width
	cfg.Strict = input.Strict
	cfg.DryRun = input.DryRun
	cfg.MetricsFile = input.MetricsFile
	cfg.CronSpec = strings.TrimSpace(input.Cron)

	cfg.Algorithm = strings.TrimSpace(input.Algorithm)
	if cfg.Algorithm == "" {
		cfg.Algorithm = DefaultAlgorithm
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.TopMovers < 0 {
		return fmt.Errorf("top-movers cannot be negative (received %d)", input.TopMovers)
	}
	cfg.TopMovers = input.TopMovers
	if cfg.TopMovers == 0 {
		cfg.TopMovers = DefaultTopMovers
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	level := strings.ToLower(strings.TrimSpace(input.LogLevel))
	if level == "" {
		level = DefaultLogLevel
	}
	if _, err := ParseLogLevel(level); err != nil {
		return err
	}
	cfg.LogLevel = level

	return nil
}

// processReferenceDate resolves the reference date and the snapshot period.
func processReferenceDate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	date, err := ParseReferenceDate(input.Date, now)
	if err != nil {
		return err
	}
	cfg.ReferenceDate = date

	cfg.Period = strings.TrimSpace(input.Period)
	if cfg.Period == "" {
		cfg.Period = schema.PeriodOf(date)
		return nil
	}
	return schema.ValidatePeriod(cfg.Period)
}

// processComparePolicy parses --compare: auto, none, or an explicit period.
func processComparePolicy(cfg *Config, input *ConfigRawInput) error {
	value := strings.TrimSpace(input.Compare)
	switch strings.ToLower(value) {
	case "", string(schema.CompareAuto):
		cfg.ComparePolicy = schema.CompareAuto
	case string(schema.CompareNone), "off", "false":
		cfg.ComparePolicy = schema.CompareNone
	default:
		if err := schema.ValidatePeriod(value); err != nil {
			return fmt.Errorf("invalid --compare value: must be auto, none or a period: %w", err)
		}
		if value == cfg.Period {
			return fmt.Errorf("cannot compare period %s with itself", value)
		}
		cfg.ComparePolicy = schema.CompareExplicit
		cfg.ComparePeriod = value
	}
	return nil
}

// processPositionalArgs validates the positional arguments set by the command.
func processPositionalArgs(cfg *Config, input *ConfigRawInput) error {
	cfg.ToolID = strings.TrimSpace(input.ToolIDArg)
	cfg.VersionArg = strings.TrimSpace(input.VersionArg)
	cfg.CurrentPeriod, cfg.PreviousPeriod = "", ""

	switch len(input.PeriodArgs) {
	case 0:
		return nil
	case 1, 2:
	default:
		return fmt.Errorf("expected at most two periods, got %d", len(input.PeriodArgs))
	}

	cfg.CurrentPeriod = strings.TrimSpace(input.PeriodArgs[0])
	if err := schema.ValidatePeriod(cfg.CurrentPeriod); err != nil {
		return err
	}
	if len(input.PeriodArgs) == 2 {
		cfg.PreviousPeriod = strings.TrimSpace(input.PeriodArgs[1])
		if err := schema.ValidatePeriod(cfg.PreviousPeriod); err != nil {
			return err
		}
		if cfg.PreviousPeriod == cfg.CurrentPeriod {
			return fmt.Errorf("cannot compare period %s with itself", cfg.CurrentPeriod)
		}
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ProcessCustomWeightsRaw converts raw custom weights into validated weight vectors.
// Every version must name a base, list all eight factors and sum to 1.
func ProcessCustomWeightsRaw(raw map[string]CustomWeightsRaw) (map[string]CustomWeights, error) {
	result := make(map[string]CustomWeights, len(raw))

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := raw[name]
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("custom weights need a version name")
		}
		base := strings.TrimSpace(r.Base)
		if base == "" {
			base = DefaultAlgorithm
		}

		weights := make(map[schema.FactorName]float64, len(r.Weights))
		sum := 0.0
		for key, w := range r.Weights {
			factor := schema.FactorName(strings.ToLower(strings.TrimSpace(key)))
			if _, ok := schema.ValidFactors[factor]; !ok {
				return nil, fmt.Errorf("custom weights %s: unknown factor %q", name, key)
			}
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("custom weights %s: weight for %s must be a non-negative number", name, factor)
			}
			weights[factor] = w
			sum += w
		}
		for _, f := range schema.AllFactors {
			if _, ok := weights[f]; !ok {
				return nil, fmt.Errorf("custom weights %s: missing factor %s", name, f)
			}
		}
		if math.Abs(sum-1) > WeightSumTolerance {
			return nil, fmt.Errorf("custom weights %s must sum to 1.0, got %.6f", name, sum)
		}
		result[name] = CustomWeights{Base: base, Weights: weights}
	}
	return result, nil
}

// processCustomWeights validates the custom weight versions from the config file.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessCustomWeightsRaw(input.CustomWeights)
	if err != nil {
		return err
	}
	cfg.CustomWeights = weights
	return nil
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".toolrank_snapshots.db"
	}
	return filepath.Join(homeDir, ".toolrank_snapshots.db")
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the signal cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".toolrank_cache.db"
	}
	return filepath.Join(homeDir, ".toolrank_cache.db")
}
