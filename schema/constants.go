package schema

// Custom string types for type safety.
type (
	// FactorName identifies one of the eight scoring factors.
	FactorName string

	// OutputMode represents the format of the output.
	OutputMode string

	// Movement represents how a tool moved between two snapshots.
	Movement string

	// ToolStatus represents the lifecycle state of a tool in the catalog.
	ToolStatus string

	// PricingModel represents how a tool is sold.
	PricingModel string

	// ComparePolicy selects which previous snapshot a run is compared against.
	ComparePolicy string

	// DatabaseBackend represents the database backend for storage and caching.
	DatabaseBackend string
)

// Factor names used in scoring breakdowns.
const (
	AgenticCapability    FactorName = "agentic_capability"
	Innovation           FactorName = "innovation"
	TechnicalPerformance FactorName = "technical_performance"
	DeveloperAdoption    FactorName = "developer_adoption"
	MarketTraction       FactorName = "market_traction"
	BusinessSentiment    FactorName = "business_sentiment"
	DevelopmentVelocity  FactorName = "development_velocity"
	PlatformResilience   FactorName = "platform_resilience"
)

// AllFactors lists every factor in canonical display order.
var AllFactors = []FactorName{
	AgenticCapability,
	Innovation,
	TechnicalPerformance,
	DeveloperAdoption,
	MarketTraction,
	BusinessSentiment,
	DevelopmentVelocity,
	PlatformResilience,
}

// ValidFactors lists all valid factor names.
var ValidFactors = map[FactorName]struct{}{
	AgenticCapability:    {},
	Innovation:           {},
	TechnicalPerformance: {},
	DeveloperAdoption:    {},
	MarketTraction:       {},
	BusinessSentiment:    {},
	DevelopmentVelocity:  {},
	PlatformResilience:   {},
}

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All movements supported.
const (
	MovementUp      Movement = "up"
	MovementDown    Movement = "down"
	MovementSame    Movement = "same"
	MovementNew     Movement = "new"
	MovementDropped Movement = "dropped"
)

// AllMovements lists every movement in summary order.
var AllMovements = []Movement{MovementUp, MovementDown, MovementSame, MovementNew, MovementDropped}

// Tool statuses. Only active tools are ranked.
const (
	ActiveTool       ToolStatus = "active"
	BetaTool         ToolStatus = "beta"
	DeprecatedTool   ToolStatus = "deprecated"
	DiscontinuedTool ToolStatus = "discontinued"
)

// Pricing models.
const (
	FreePricing         PricingModel = "free"
	FreemiumPricing     PricingModel = "freemium"
	SubscriptionPricing PricingModel = "subscription"
	UsagePricing        PricingModel = "usage"
	EnterprisePricing   PricingModel = "enterprise"
	OpenSourcePricing   PricingModel = "open-source"
)

// Comparison period policies.
const (
	CompareAuto     ComparePolicy = "auto" // default
	CompareNone     ComparePolicy = "none"
	CompareExplicit ComparePolicy = "explicit"
)

// All storage backends supported. RedisBackend is only valid for the signal cache.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid snapshot store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCacheBackends lists all valid signal cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}
