package config

// Application constants and workflow defaults.
const (
	// Application Info
	AppName    = "Housing Report"
	AppVersion = "1.0.0"

	// Dataset defaults
	DefaultTargetColumn = "SalePrice"
	DefaultIDColumn     = "Id"

	// Pipeline defaults
	DefaultSeed             = 42
	DefaultTrainFraction    = 0.8
	DefaultMissingThreshold = 0.7
	DefaultMaxConcurrency   = 3

	// Trainer defaults
	DefaultTreeCount    = 300
	DefaultRoundCount   = 100
	DefaultLearningRate = 0.3
	DefaultMaxDepth     = 6

	// Reporting defaults
	DefaultTopK       = 10
	DefaultReportsDir = "reports"

	// Log settings
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/housing-report.log"
)
