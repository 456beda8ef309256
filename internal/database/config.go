package database

import (
	"fmt"
	"strings"
)

// DatabaseConfig selects the backing store for the users table. Driver picks
// between an embedded SQLite file (the default, used by single-node
// deployments and the test suite) and an external PostgreSQL server.
type DatabaseConfig struct {
	Driver string

	// PostgreSQL connection settings, ignored for sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// Path of the SQLite database file, ignored for postgres.
	// ":memory:" gives a throwaway in-memory database.
	Path string
}

// normalizedDriver lowercases the driver name. An empty driver means sqlite.
func (c *DatabaseConfig) normalizedDriver() string {
	driver := strings.ToLower(c.Driver)
	if driver == "" {
		return "sqlite"
	}
	return driver
}

// DSN builds the data source name for the selected driver. For sqlite this is
// just the file path.
func (c *DatabaseConfig) DSN() string {
	switch c.normalizedDriver() {
	case "postgres", "postgresql":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case "sqlite":
		return c.Path
	default:
		return ""
	}
}

// String masks the password so the config can appear in logs
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.normalizedDriver(), c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}
