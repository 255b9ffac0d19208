// Package engine composes the compiled query, the MARC batch reader,
// and a sink into the driver loop, plus the collaborators left
// injectable: table-name resolution and output sinks.
package engine

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// defaultScratchBytes is the reference scratch-buffer size (128 MiB).
const defaultScratchBytes = 128 << 20

// Config holds everything a Driver needs beyond the query text itself.
type Config struct {
	// TableDir is the directory DirTableResolver resolves table names
	// against.
	TableDir string `toml:"table_dir"`
	// ScratchBytes sizes the Reader's scratch buffer. Zero means use
	// the reference default.
	ScratchBytes int `toml:"scratch_bytes"`
}

// ScratchSize returns the configured scratch size, or the reference
// default when unset.
func (c Config) ScratchSize() int {
	if c.ScratchBytes <= 0 {
		return defaultScratchBytes
	}
	return c.ScratchBytes
}

// LoadConfig decodes a TOML config file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "engine: loading config %s", path)
	}
	return cfg, nil
}
