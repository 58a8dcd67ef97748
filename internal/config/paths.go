package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Paths holds the on-disk locations used by logbook.
type Paths struct {
	// BaseDir is the directory holding config, database and data (~/.logbook)
	BaseDir string
}

// DefaultPaths returns ~/.logbook based paths.
func DefaultPaths() *Paths {
	return &Paths{BaseDir: filepath.Join(homeDir(), ".logbook")}
}

// ConfigFile returns the path to the config file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite database.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.BaseDir, "logbook.db")
}

// DataDir returns the default directory for spreadsheets to import.
func (p *Paths) DataDir() string {
	return filepath.Join(p.BaseDir, "data")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
