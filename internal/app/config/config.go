// Package config provides read-only access to terminal configuration.
// The interface abstracts the source (ENV, defaults) so the app layer does
// not depend on how values were loaded.
package config

import "time"

// Config provides read-only access to application configuration
type Config interface {
	Home() string                 // Base directory for taskterm data (TASKTERM_HOME)
	ReferenceDBPath() string      // SQLite reference database path (TASKTERM_REFERENCE_DB)
	SnapshotPath() string         // Active task snapshot file (TASKTERM_SNAPSHOT)
	JournalPath() string          // Fact journal file (TASKTERM_JOURNAL)
	LookupCacheTTL() time.Duration // Lookup cache TTL (TASKTERM_CACHE_TTL_SEC)
	SearchLimit() int             // Max results for text search (TASKTERM_SEARCH_LIMIT)
	StderrLevel() string          // Stderr log level (TASKTERM_STDERR_LEVEL)
}

// AppConfig is the concrete implementation of Config
type AppConfig struct {
	home           string
	referenceDB    string
	snapshotPath   string
	journalPath    string
	lookupCacheTTL time.Duration
	searchLimit    int
	stderrLevel    string
}

// NewAppConfig creates a config with explicit values
func NewAppConfig(
	home string,
	referenceDB string,
	snapshotPath string,
	journalPath string,
	lookupCacheTTL time.Duration,
	searchLimit int,
	stderrLevel string,
) *AppConfig {
	return &AppConfig{
		home:           home,
		referenceDB:    referenceDB,
		snapshotPath:   snapshotPath,
		journalPath:    journalPath,
		lookupCacheTTL: lookupCacheTTL,
		searchLimit:    searchLimit,
		stderrLevel:    stderrLevel,
	}
}

// Home returns the base directory for taskterm data
func (c *AppConfig) Home() string {
	return c.home
}

// ReferenceDBPath returns the SQLite reference database path
func (c *AppConfig) ReferenceDBPath() string {
	return c.referenceDB
}

// SnapshotPath returns the active task snapshot file path
func (c *AppConfig) SnapshotPath() string {
	return c.snapshotPath
}

// JournalPath returns the fact journal file path
func (c *AppConfig) JournalPath() string {
	return c.journalPath
}

// LookupCacheTTL returns the lookup cache TTL
func (c *AppConfig) LookupCacheTTL() time.Duration {
	return c.lookupCacheTTL
}

// SearchLimit returns the maximum number of text search results
func (c *AppConfig) SearchLimit() int {
	return c.searchLimit
}

// StderrLevel returns the stderr log level
func (c *AppConfig) StderrLevel() string {
	return c.stderrLevel
}
