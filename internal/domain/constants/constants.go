package constants

// Matching constants
const (
	// DefaultMaxCombos ranked combos returned per query
	DefaultMaxCombos = 3

	// DefaultMaxProducts ranked products returned per query
	DefaultMaxProducts = 5
)

// AI model constants
const (
	// GeminiModelName Gemini AI model name
	GeminiModelName = "gemini-2.5-flash"

	// ClassifyTemperature deterministic intent labels
	ClassifyTemperature = 0.0

	// PolishTemperature some freedom when rewriting prose
	PolishTemperature = 0.4

	// MaxRetries attempts per AI call before the rule-based path takes over
	MaxRetries = 3

	// RetryDelay seconds between AI call attempts
	RetryDelay = 2
)

// Worker pool constants
const (
	DefaultWorkerCount   = 10
	RequestQueueSize     = 100
	MaxRequestsPerSecond = 3
)
