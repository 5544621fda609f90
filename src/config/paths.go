package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "taskchat"

// Paths lists the configuration sources in order of increasing precedence.
// Empty entries are skipped.
type Paths struct {
	UserConfig    string
	ProjectConfig string
	LocalConfig   string
	// Explicit is a file named on the command line; it must exist.
	Explicit string
	DotEnv   string
}

// DefaultPaths returns the standard configuration locations
func DefaultPaths() Paths {
	return Paths{
		UserConfig:    filepath.Join(xdg.ConfigHome, appName, "config.json"),
		ProjectConfig: filepath.Join("."+appName, "config.json"),
		LocalConfig:   filepath.Join("."+appName, "config.local.json"),
		DotEnv:        ".env",
	}
}

// DefaultDatabasePath keeps the database under XDG_STATE_HOME
func DefaultDatabasePath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".db")
}
