package schema

import (
	"math"
	"strings"
	"time"
)

// ToolRecord is a single AI coding tool as supplied by the tool catalog.
// Only ID is required; everything under Info is optional.
type ToolRecord struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Slug     string     `json:"slug,omitempty" yaml:"slug,omitempty"`
	Category string     `json:"category,omitempty" yaml:"category,omitempty"`
	Status   ToolStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Info     *ToolInfo  `json:"info,omitempty" yaml:"info,omitempty"`
}

// ToolInfo is the loosely structured metadata bag attached to a tool.
type ToolInfo struct {
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Summary     string         `json:"summary,omitempty" yaml:"summary,omitempty"`
	Features    []string       `json:"features,omitempty" yaml:"features,omitempty"`
	Technical   *TechnicalInfo `json:"technical,omitempty" yaml:"technical,omitempty"`
	Business    *BusinessInfo  `json:"business,omitempty" yaml:"business,omitempty"`
	Metrics     *MetricsInfo   `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	FoundedYear *int           `json:"founded_year,omitempty" yaml:"founded_year,omitempty"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// TechnicalInfo holds capability attributes and benchmark results.
type TechnicalInfo struct {
	ContextWindow     *float64 `json:"context_window,omitempty" yaml:"context_window,omitempty"`
	MultiFileSupport  *bool    `json:"multi_file_support,omitempty" yaml:"multi_file_support,omitempty"`
	LanguageCount     *float64 `json:"language_count,omitempty" yaml:"language_count,omitempty"`
	LLMProviderCount  *float64 `json:"llm_provider_count,omitempty" yaml:"llm_provider_count,omitempty"`
	SWEBenchVerified  *float64 `json:"swe_bench_verified,omitempty" yaml:"swe_bench_verified,omitempty"`
	SWEBenchLite      *float64 `json:"swe_bench_lite,omitempty" yaml:"swe_bench_lite,omitempty"`
	SWEBenchFull      *float64 `json:"swe_bench_full,omitempty" yaml:"swe_bench_full,omitempty"`
	SubprocessSupport *bool    `json:"subprocess_support,omitempty" yaml:"subprocess_support,omitempty"`
	ToolUse           *bool    `json:"tool_use,omitempty" yaml:"tool_use,omitempty"`
}

// BusinessInfo holds pricing attributes.
type BusinessInfo struct {
	PricingModel   PricingModel `json:"pricing_model,omitempty" yaml:"pricing_model,omitempty"`
	BasePrice      *float64     `json:"base_price,omitempty" yaml:"base_price,omitempty"`
	FreeTier       *bool        `json:"free_tier,omitempty" yaml:"free_tier,omitempty"`
	EnterpriseTier *bool        `json:"enterprise_tier,omitempty" yaml:"enterprise_tier,omitempty"`
}

// MetricsInfo holds market and community metrics.
type MetricsInfo struct {
	NewsMentions *float64 `json:"news_mentions,omitempty" yaml:"news_mentions,omitempty"`
	Users        *float64 `json:"users,omitempty" yaml:"users,omitempty"`
	MonthlyARR   *float64 `json:"monthly_arr,omitempty" yaml:"monthly_arr,omitempty"`
	Valuation    *float64 `json:"valuation,omitempty" yaml:"valuation,omitempty"`
	Funding      *float64 `json:"funding,omitempty" yaml:"funding,omitempty"`
	GitHubStars  *float64 `json:"github_stars,omitempty" yaml:"github_stars,omitempty"`
	Employees    *float64 `json:"employees,omitempty" yaml:"employees,omitempty"`
}

// NewsImpact is the precomputed news signal for one tool.
type NewsImpact struct {
	TotalImpact float64 `json:"total_impact" yaml:"total_impact" cbor:"total_impact"`
}

// IsActive reports whether the tool takes part in rankings.
// An empty status is treated as active.
func (t ToolRecord) IsActive() bool {
	return t.Status == "" || t.Status == ActiveTool
}

// DisplayName returns the name, falling back to the slug and then the ID.
func (t ToolRecord) DisplayName() string {
	switch {
	case t.Name != "":
		return t.Name
	case t.Slug != "":
		return t.Slug
	default:
		return t.ID
	}
}

// Text returns the lower-cased description, summary and features joined by spaces.
func (t ToolRecord) Text() string {
	if t.Info == nil {
		return ""
	}
	parts := make([]string, 0, 2+len(t.Info.Features))
	parts = append(parts, t.Info.Description, t.Info.Summary)
	parts = append(parts, t.Info.Features...)
	return strings.ToLower(strings.Join(parts, " "))
}

// FeatureCount returns the number of listed features.
func (t ToolRecord) FeatureCount() int {
	if t.Info == nil {
		return 0
	}
	return len(t.Info.Features)
}

// Technical returns the technical attributes or nil.
func (t ToolRecord) Technical() *TechnicalInfo {
	if t.Info == nil {
		return nil
	}
	return t.Info.Technical
}

// Business returns the business attributes or nil.
func (t ToolRecord) Business() *BusinessInfo {
	if t.Info == nil {
		return nil
	}
	return t.Info.Business
}

// Metrics returns the market metrics or nil.
func (t ToolRecord) Metrics() *MetricsInfo {
	if t.Info == nil {
		return nil
	}
	return t.Info.Metrics
}

// Num unwraps an optional number. Nil and non-finite values report false.
func Num(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

// Flag unwraps an optional flag, treating nil as false.
func Flag(p *bool) bool {
	return p != nil && *p
}

// Float returns a pointer to v. It keeps fixtures and tests short.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
