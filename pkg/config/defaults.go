package config

// Workload defaults.
const (
	DefaultSeed              = 1
	DefaultOperations        = 100_000
	DefaultKeySpace          = 4096
	DefaultPutRatio          = 0.45
	DefaultDeleteRatio       = 0.30
	DefaultGetOrInsertRatio  = 0.10
	DefaultValidateEvery     = 1000
	DefaultSampleEvery       = 500
	DefaultOrder             = OrderAscending
	DefaultReportFormat      = "table"
	DefaultLoggingLevel      = "info"
	DefaultLoggingJSON       = false
	DefaultTelemetryService  = "rbtree"
	DefaultTelemetryInsecure = false
)

// Key orders understood by the workload.
const (
	OrderAscending  = "asc"
	OrderDescending = "desc"
)
