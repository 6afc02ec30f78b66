package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the SQLite database
	DefaultDatabasePath = "./library.db"

	// DefaultReportsDir is where exported borrowing reports are written
	DefaultReportsDir = "./reports"
)
