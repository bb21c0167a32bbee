// Package config loads settings for the cryptdoc command.
//
// Settings come from a YAML file, by default
// $XDG_CONFIG_HOME/cryptdoc/config.yaml, and are then overridden by any
// command-line flag the user set explicitly. A missing default file is not
// an error. Passwords are never read from or written to the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/absfs/cryptdoc"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Flag names shared by RegisterFlags and ApplyFlags
const (
	FlagDir     = "dir"
	FlagLevel   = "level"
	FlagWorkers = "workers"
)

// Config holds CLI settings.
type Config struct {
	// Directory is the document store directory.
	// Default: the current working directory
	Directory string `yaml:"directory"`

	// Editor is the command used by "edit". Empty falls back to
	// $VISUAL, then $EDITOR, then vi.
	Editor string `yaml:"editor"`

	// CompressionLevel is the gzip level for new containers.
	// Default: 0 (library default)
	CompressionLevel int `yaml:"compression_level"`

	// Workers bounds parallel verification.
	// Default: 0 (one per CPU)
	Workers int `yaml:"workers"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Directory: ".",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cryptdoc/config.yaml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "cryptdoc", "config.yaml"), nil
}

// Load reads path over the defaults. A file that does not exist yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if err := cfg.loadFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads path over the defaults. The file must exist.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	c.Directory = expandPath(c.Directory)
	return nil
}

// RegisterFlags defines the flags that can override file settings.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(FlagDir, "", "document directory (default from config, else current directory)")
	flags.Int(FlagLevel, 0, "gzip compression level for saved documents (-2..9, 0 = default)")
	flags.Int(FlagWorkers, 0, "parallel verification workers (0 = one per CPU)")
}

// ApplyFlags copies every flag the user changed into c.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	if flags.Changed(FlagDir) {
		dir, err := flags.GetString(FlagDir)
		if err != nil {
			return err
		}
		c.Directory = expandPath(dir)
	}
	if flags.Changed(FlagLevel) {
		level, err := flags.GetInt(FlagLevel)
		if err != nil {
			return err
		}
		c.CompressionLevel = level
	}
	if flags.Changed(FlagWorkers) {
		workers, err := flags.GetInt(FlagWorkers)
		if err != nil {
			return err
		}
		c.Workers = workers
	}
	return nil
}

// Validate checks the settings against what the library accepts.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return errors.New("directory cannot be empty")
	}
	if c.CompressionLevel != 0 {
		if err := cryptdoc.ValidateCompressionLevel(c.CompressionLevel); err != nil {
			return err
		}
	}
	p := c.Parallel()
	if err := p.Validate(); err != nil {
		return fmt.Errorf("workers: %w", err)
	}
	return nil
}

// Codec returns a codec using the configured compression level.
func (c *Config) Codec() (*cryptdoc.Codec, error) {
	return cryptdoc.New(&cryptdoc.Config{CompressionLevel: c.CompressionLevel})
}

// Parallel returns the verification worker settings.
func (c *Config) Parallel() cryptdoc.ParallelConfig {
	p := cryptdoc.DefaultParallelConfig()
	if c.Workers != 0 {
		p.MaxWorkers = c.Workers
	}
	return p
}

// EditorCommand returns the editor to launch for "edit".
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return "vi"
}

// Save writes c to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// expandPath expands ${VAR} references and a leading ~/
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
