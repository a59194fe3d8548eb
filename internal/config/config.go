package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; the database URL must be provided via
	// flag or environment.
	DefaultDatabaseURL = ""
)
