package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aipowerranking/toolrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

// validInput returns the minimal input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        10,
		Workers:      4,
		Output:       "text",
		Color:        "yes",
		StoreBackend: string(schema.SQLiteBackend),
		CacheBackend: string(schema.SQLiteBackend),
	}
}

func evenWeights() map[string]float64 {
	return map[string]float64{
		"agentic_capability":    0.125,
		"innovation":            0.125,
		"technical_performance": 0.125,
		"developer_adoption":    0.125,
		"market_traction":       0.125,
		"business_sentiment":    0.125,
		"development_velocity":  0.125,
		"platform_resilience":   0.125,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit too high", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "negative top movers", mutate: func(in *ConfigRawInput) { in.TopMovers = -1 }, expectError: true},
		{name: "invalid output format", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{
			name: "parquet with file",
			mutate: func(in *ConfigRawInput) {
				in.Output = "parquet"
				in.OutputFile = "ranking.parquet"
			},
		},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: true},
		{name: "invalid log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "loud" }, expectError: true},
		{name: "invalid date", mutate: func(in *ConfigRawInput) { in.Date = "the other day" }, expectError: true},
		{name: "relative date", mutate: func(in *ConfigRawInput) { in.Date = "2 weeks ago" }},
		{name: "invalid period", mutate: func(in *ConfigRawInput) { in.Period = "2025/06" }, expectError: true},
		{name: "explicit compare", mutate: func(in *ConfigRawInput) { in.Compare = "2025-05" }},
		{name: "compare with itself", mutate: func(in *ConfigRawInput) { in.Compare = "2025-06" }, expectError: true},
		{name: "invalid compare", mutate: func(in *ConfigRawInput) { in.Compare = "last time" }, expectError: true},
		{name: "too many periods", mutate: func(in *ConfigRawInput) { in.PeriodArgs = []string{"2025-06", "2025-05", "2025-04"} }, expectError: true},
		{name: "same periods", mutate: func(in *ConfigRawInput) { in.PeriodArgs = []string{"2025-06", "2025-06"} }, expectError: true},
		{name: "invalid store backend", mutate: func(in *ConfigRawInput) { in.StoreBackend = "redis" }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "memcached" }, expectError: true},
		{name: "mysql store without connection string", mutate: func(in *ConfigRawInput) { in.StoreBackend = string(schema.MySQLBackend) }, expectError: true},
		{name: "postgresql cache without connection string", mutate: func(in *ConfigRawInput) { in.CacheBackend = string(schema.PostgreSQLBackend) }, expectError: true},
		{
			name: "mysql store with connection string",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = string(schema.MySQLBackend)
				in.StoreDBConnect = "user:pass@tcp(localhost:3306)/toolrank"
			},
		},
		{
			name: "redis cache with url",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.RedisBackend)
				in.CacheDBConnect = "redis://localhost:6379/0"
			},
		},
		{
			name: "sqlite stores sharing a file",
			mutate: func(in *ConfigRawInput) {
				in.StoreDBConnect = "/tmp/toolrank.db"
				in.CacheDBConnect = "/tmp/toolrank.db"
			},
			expectError: true,
		},
		{name: "none backends", mutate: func(in *ConfigRawInput) { in.StoreBackend, in.CacheBackend = "none", "none" }},
		{name: "invalid cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "forever" }, expectError: true},
		{
			name: "custom weights",
			mutate: func(in *ConfigRawInput) {
				in.CustomWeights = map[string]CustomWeightsRaw{"even": {Base: "v7", Weights: evenWeights()}}
			},
		},
		{
			name: "custom weights not summing to one",
			mutate: func(in *ConfigRawInput) {
				w := evenWeights()
				w["innovation"] = 0.5
				in.CustomWeights = map[string]CustomWeightsRaw{"skewed": {Weights: w}}
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidateAt(cfg, input, configNow)
			if tt.expectError {
				assert.Error(t, err, "ProcessAndValidate should return an error for %s", tt.name)
				return
			}
			require.NoError(t, err, "ProcessAndValidate should not return an error for %s", tt.name)
			assert.Equal(t, input.Limit, cfg.ResultLimit)
			assert.Equal(t, input.Workers, cfg.Workers)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidateAt(cfg, validInput(), configNow))

	assert.Equal(t, DefaultAlgorithm, cfg.Algorithm)
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), cfg.ReferenceDate)
	assert.Equal(t, "2025-06", cfg.Period)
	assert.Equal(t, schema.CompareAuto, cfg.ComparePolicy)
	assert.Equal(t, DefaultTopMovers, cfg.TopMovers)
	assert.Equal(t, 7*24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.Empty(t, cfg.CustomWeights)
}

func TestProcessComparePolicy(t *testing.T) {
	tests := []struct {
		compare string
		policy  schema.ComparePolicy
		period  string
	}{
		{"", schema.CompareAuto, ""},
		{"AUTO", schema.CompareAuto, ""},
		{"none", schema.CompareNone, ""},
		{"off", schema.CompareNone, ""},
		{"2025-03", schema.CompareExplicit, "2025-03"},
	}

	for _, tt := range tests {
		t.Run(tt.compare, func(t *testing.T) {
			input := validInput()
			input.Compare = tt.compare
			cfg := &Config{}
			require.NoError(t, ProcessAndValidateAt(cfg, input, configNow))
			assert.Equal(t, tt.policy, cfg.ComparePolicy)
			assert.Equal(t, tt.period, cfg.ComparePeriod)
		})
	}
}

func TestProcessPositionalArgs(t *testing.T) {
	input := validInput()
	input.ToolIDArg = "  cursor "
	input.PeriodArgs = []string{"2025-06", "2025-05"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidateAt(cfg, input, configNow))
	assert.Equal(t, "cursor", cfg.ToolID)
	assert.Equal(t, "2025-06", cfg.CurrentPeriod)
	assert.Equal(t, "2025-05", cfg.PreviousPeriod)
}

func TestRevalidateRun(t *testing.T) {
	base := func() *Config {
		return &Config{
			ReferenceDate: TruncateDay(configNow),
			Period:        "2025-06",
			ComparePolicy: schema.CompareAuto,
		}
	}

	t.Run("no overrides", func(t *testing.T) {
		cfg := base()
		require.NoError(t, RevalidateRun(cfg, "", "", "", configNow))
		assert.Equal(t, "2025-06", cfg.Period)
		assert.Equal(t, schema.CompareAuto, cfg.ComparePolicy)
	})

	t.Run("date derives period", func(t *testing.T) {
		cfg := base()
		require.NoError(t, RevalidateRun(cfg, "2025-03-04", "", "", configNow))
		assert.Equal(t, time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC), cfg.ReferenceDate)
		assert.Equal(t, "2025-03", cfg.Period)
	})

	t.Run("explicit period wins", func(t *testing.T) {
		cfg := base()
		require.NoError(t, RevalidateRun(cfg, "2025-03-04", "2025-02-28", "", configNow))
		assert.Equal(t, "2025-02-28", cfg.Period)
	})

	t.Run("compare override", func(t *testing.T) {
		cfg := base()
		require.NoError(t, RevalidateRun(cfg, "", "2025-07", "2025-05", configNow))
		assert.Equal(t, "2025-07", cfg.Period)
		assert.Equal(t, schema.CompareExplicit, cfg.ComparePolicy)
		assert.Equal(t, "2025-05", cfg.ComparePeriod)

		require.NoError(t, RevalidateRun(cfg, "", "", "none", configNow))
		assert.Equal(t, schema.CompareNone, cfg.ComparePolicy)
		assert.Empty(t, cfg.ComparePeriod)
	})

	t.Run("invalid values", func(t *testing.T) {
		assert.Error(t, RevalidateRun(base(), "not a date", "", "", configNow))
		assert.Error(t, RevalidateRun(base(), "", "June", "", configNow))
		assert.Error(t, RevalidateRun(base(), "", "", "2025-06", configNow), "self comparison")
	})

	t.Run("inherited explicit compare collides with new period", func(t *testing.T) {
		cfg := base()
		cfg.ComparePolicy, cfg.ComparePeriod = schema.CompareExplicit, "2025-05"
		assert.Error(t, RevalidateRun(cfg, "", "2025-05", "", configNow))
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/toolrank", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/toolrank", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=toolrank", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=toolrank", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"redis valid", schema.RedisBackend, "redis://localhost:6379/0", false},
		{"redis tls", schema.RedisBackend, "rediss://cache.internal:6380", false},
		{"redis bare host", schema.RedisBackend, "localhost:6379", true},
		{"redis empty", schema.RedisBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessCustomWeightsRaw(t *testing.T) {
	t.Run("normalizes factor names and defaults base", func(t *testing.T) {
		raw := map[string]CustomWeightsRaw{}
		w := map[string]float64{}
		for k, v := range evenWeights() {
			w[" "+k+" "] = v
		}
		raw["even"] = CustomWeightsRaw{Weights: w}

		got, err := ProcessCustomWeightsRaw(raw)
		require.NoError(t, err)
		require.Contains(t, got, "even")
		assert.Equal(t, DefaultAlgorithm, got["even"].Base)
		assert.InDelta(t, 0.125, got["even"].Weights[schema.Innovation], 1e-12)
	})

	t.Run("unknown factor", func(t *testing.T) {
		w := evenWeights()
		w["hype"] = 0
		_, err := ProcessCustomWeightsRaw(map[string]CustomWeightsRaw{"x": {Weights: w}})
		assert.ErrorContains(t, err, "unknown factor")
	})

	t.Run("missing factor", func(t *testing.T) {
		w := evenWeights()
		delete(w, "innovation")
		w["agentic_capability"] = 0.25
		_, err := ProcessCustomWeightsRaw(map[string]CustomWeightsRaw{"x": {Weights: w}})
		assert.ErrorContains(t, err, "missing factor")
	})

	t.Run("negative weight", func(t *testing.T) {
		w := evenWeights()
		w["innovation"] = -0.125
		w["agentic_capability"] = 0.375
		_, err := ProcessCustomWeightsRaw(map[string]CustomWeightsRaw{"x": {Weights: w}})
		assert.ErrorContains(t, err, "non-negative")
	})
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Algorithm: "even",
		CustomWeights: map[string]CustomWeights{
			"even": {Base: "v7", Weights: map[schema.FactorName]float64{schema.Innovation: 1}},
		},
	}
	clone := cfg.Clone()
	clone.CustomWeights["even"].Weights[schema.Innovation] = 0.5
	assert.Equal(t, 1.0, cfg.CustomWeights["even"].Weights[schema.Innovation])

	moved := cfg.CloneWithReferenceDate(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), "")
	assert.Equal(t, "2025-03", moved.Period)
	assert.Equal(t, "even", moved.Algorithm)
}

func TestSQLiteCollisionUsesCleanPaths(t *testing.T) {
	input := validInput()
	dir := t.TempDir()
	input.StoreDBConnect = filepath.Join(dir, "a", "..", "shared.db")
	input.CacheDBConnect = filepath.Join(dir, "shared.db")
	assert.Error(t, ProcessAndValidateAt(&Config{}, input, configNow))
}
