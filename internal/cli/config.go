package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/elkdraw/elkdraw/pkg/errors"
)

// config holds file-based defaults for the render and layout commands.
// Explicit command-line flags always win over config values.
type config struct {
	Padding  float64 `toml:"padding"`
	FontSize float64 `toml:"font_size"`
	Theme    string  `toml:"theme"`
	NoTheme  bool    `toml:"no_theme"`
	Compact  bool    `toml:"compact"`
	Indent   string  `toml:"indent"`
	NoIcons  bool    `toml:"no_icons"`

	// IconCache overrides the icon cache directory; "off" disables
	// persistence entirely.
	IconCache string `toml:"icon_cache"`

	Layout layoutConfig `toml:"layout"`
}

type layoutConfig struct {
	Bin            string `toml:"bin"`
	Provider       string `toml:"provider"`
	Package        string `toml:"package"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// defaultConfigPath returns the conventional config file location:
// $XDG_CONFIG_HOME/elkdraw/config.toml, falling back to ~/.config.
func defaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "elkdraw", "config.toml")
}

// loadConfig reads a TOML config file. An explicit path must exist; the
// default path is optional and yields a zero config when absent.
func loadConfig(path string) (config, error) {
	var cfg config

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, nil
}
