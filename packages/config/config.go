// Package config handles cellsheet.toml configuration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cellsheet.config")

// FileName is the configuration file looked up when no path is given
const FileName = "cellsheet.toml"

// Config is the cellsheet.toml configuration
type Config struct {
	Grid    Grid    `toml:"grid"`
	Cell    Cell    `toml:"cell"`
	Storage Storage `toml:"storage"`
	Log     Log     `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults
	Path string `toml:"-"`
}

// Grid sizes new spreadsheets
type Grid struct {
	Rows    int `toml:"rows"`
	Columns int `toml:"columns"`
}

// Cell configures fresh cells
type Cell struct {
	DefaultColor uint32 `toml:"default-color"`
}

// Storage configures snapshots
type Storage struct {
	Format string `toml:"format"`
}

// Log configures commonlog
type Log struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Grid:    Grid{Rows: 50, Columns: 26},
		Cell:    Cell{DefaultColor: 0xFFFFFFFF},
		Storage: Storage{Format: "xml"},
	}
}

// Load reads the configuration at path. keys missing from the file keep
// their defaults, and a missing file is the default configuration
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("no configuration at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Warningf("unknown key %s in %s", key, path)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var problems []string
	if c.Grid.Rows <= 0 {
		problems = append(problems, fmt.Sprintf("grid.rows must be positive, got %d", c.Grid.Rows))
	}
	if c.Grid.Columns <= 0 || c.Grid.Columns > 26 {
		problems = append(problems, fmt.Sprintf("grid.columns must be between 1 and 26, got %d", c.Grid.Columns))
	}
	switch c.Storage.Format {
	case "xml", "cbor":
	default:
		problems = append(problems, fmt.Sprintf("storage.format must be \"xml\" or \"cbor\", got %q", c.Storage.Format))
	}
	if c.Log.Verbosity < 0 {
		problems = append(problems, fmt.Sprintf("log.verbosity must not be negative, got %d", c.Log.Verbosity))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// LogPath returns the log file, nil for stderr
func (c *Config) LogPath() *string {
	if c.Log.Path == "" {
		return nil
	}
	path := c.Log.Path
	return &path
}
