package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v8"
	"gopkg.in/yaml.v3"

	"sigscan/internal/feed"
	"sigscan/internal/signature"
)

// EnvPrefix is prepended to the environment variable of every field.
const EnvPrefix = "SIGSCAN_"

// Config represents the configuration in the YAML file.
type Config struct {
	Keys   Keys   `yaml:"keys"`
	Feed   Feed   `yaml:"feed"`
	Dumps  Dumps  `yaml:"dumps"`
	Report Report `yaml:"report"`
	Scan   Scan   `yaml:"scan"`
}

// Keys holds the constants signatures are encoded with.
type Keys struct {
	XorKey      Hex32  `yaml:"xor_key" env:"XOR_KEY"`
	GameVersion uint32 `yaml:"game_version" env:"GAME_VERSION"`
	Seed        Hex32  `yaml:"seed" env:"SEED"`
}

func (k Keys) Signature() signature.Keys {
	return signature.Keys{
		XorKey:      uint32(k.XorKey),
		GameVersion: uint16(k.GameVersion),
		Seed:        uint32(k.Seed),
	}
}

// Feed selects where signatures come from. File takes precedence over URL.
type Feed struct {
	URL   string `yaml:"url" env:"FEED_URL"`
	Key   string `yaml:"key" env:"FEED_KEY"`
	File  string `yaml:"file" env:"FEED_FILE"`
	Plain bool   `yaml:"plain" env:"FEED_PLAIN"`
}

// Dumps selects the buffers to scan. Remote and S3 take precedence over Dirs.
type Dumps struct {
	Dirs   StringArray `yaml:"dirs"`
	Remote string      `yaml:"remote" env:"REMOTE"`
	S3     S3          `yaml:"s3"`
}

type S3 struct {
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Prefix    string `yaml:"prefix" env:"S3_PREFIX"`
	Region    string `yaml:"region" env:"S3_REGION"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	PathStyle bool   `yaml:"path_style" env:"S3_PATH_STYLE"`
}

type Report struct {
	Path    string `yaml:"path" env:"REPORT"`
	NoColor bool   `yaml:"no_color" env:"NO_COLOR"`
}

type Scan struct {
	Workers            int  `yaml:"workers" env:"WORKERS"`
	OnlyCurrentVersion bool `yaml:"only_current_version" env:"ONLY_CURRENT_VERSION"`
	RegionFilter       bool `yaml:"region_filter" env:"REGION_FILTER"`
	CacheSize          int  `yaml:"cache_size" env:"CACHE_SIZE"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Keys: Keys{
			XorKey:      Hex32(signature.DefaultKeys.XorKey),
			GameVersion: uint32(signature.DefaultKeys.GameVersion),
			Seed:        Hex32(signature.DefaultKeys.Seed),
		},
		Feed: Feed{
			URL: feed.DefaultURL,
			Key: feed.DefaultKey,
		},
		Dumps: Dumps{
			Dirs: StringArray{"files"},
		},
		Report: Report{
			Path: "data.txt",
		},
		Scan: Scan{
			CacheSize: 64,
		},
	}
}

// Hex32 is a 32-bit value written either as an integer or as a string with a
// 0x, 0o or 0b prefix.
type Hex32 uint32

func (h Hex32) String() string {
	return fmt.Sprintf("0x%08X", uint32(h))
}

// UnmarshalText implements encoding.TextUnmarshaler, used for environment
// variables.
func (h *Hex32) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(strings.TrimSpace(string(text)), 0, 32)
	if err != nil {
		return fmt.Errorf("invalid 32-bit value %q: %w", text, err)
	}
	*h = Hex32(v)
	return nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (h *Hex32) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a 32-bit value", value.Line)
	}
	return h.UnmarshalText([]byte(value.Value))
}

// StringArray allows a YAML field to be parsed as either a single string or a slice of strings.
type StringArray []string

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (a *StringArray) UnmarshalYAML(value *yaml.Node) error {
	var multi []string
	err := value.Decode(&multi)
	if err != nil {
		var single string
		err := value.Decode(&single)
		if err != nil {
			return err
		}
		*a = []string{single}
	} else {
		*a = multi
	}
	return nil
}

// Load reads a YAML configuration file over the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to process config file '%s': %w", path, err)
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for config file '%s': %w", path, err)
		}
		config.substitute(filepath.Dir(absPath))
	}

	if err := config.ApplyEnv(nil); err != nil {
		return nil, err
	}
	return config, config.Validate()
}

// ApplyEnv overrides fields from SIGSCAN_* variables. A nil environment reads
// the process environment.
func (c *Config) ApplyEnv(environment map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environment}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("failed to apply environment: %w", err)
	}
	if dirs, ok := lookup(environment, EnvPrefix+"DUMPS"); ok {
		c.Dumps.Dirs = strings.Split(dirs, string(os.PathListSeparator))
	}
	return nil
}

func lookup(environment map[string]string, name string) (string, bool) {
	if environment == nil {
		return os.LookupEnv(name)
	}
	v, ok := environment[name]
	return v, ok
}

// Validate checks values the YAML and environment decoders cannot.
func (c *Config) Validate() error {
	if c.Keys.GameVersion > 0xFFFF {
		return fmt.Errorf("game version %d does not fit in 16 bits", c.Keys.GameVersion)
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Scan.Workers)
	}
	if c.Scan.CacheSize < 0 {
		return fmt.Errorf("cache size must not be negative, got %d", c.Scan.CacheSize)
	}
	if !c.Feed.Plain {
		if _, err := feed.ParseKey(c.Feed.Key); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) substitute(baseDir string) {
	for i, dir := range c.Dumps.Dirs {
		c.Dumps.Dirs[i] = SubstituteString(dir, baseDir)
	}
	c.Feed.File = SubstituteString(c.Feed.File, baseDir)
	c.Report.Path = SubstituteString(c.Report.Path, baseDir)
}

// varRegex matches environment variables ($VAR_NAME), tilde (~), asterisk (*), and escaped characters (\$, \~, \*, \\).
// It uses named capture groups for clarity:
// - `escaped`: Matches '\$', '\~', '\*' or '\\'
// - `tilde`: Matches '~'
// - `star`: Matches '*'
// - `varName`: Matches the name of an environment variable after '$'
var substitutionRegex = regexp.MustCompile(`\\(?P<escaped>[~$*])|\\(?P<escaped_backslash>\\)|(?P<tilde>~)|(?P<star>\*)|(?P<varName>\$[a-zA-Z0-9_]+)`)

// SubstituteString processes a string for environment variable substitutions
// of the form $NAME, replaced by the environment variable NAME. It also
// substitutes '~' with the user's home directory and '*' with the baseDir,
// the directory holding the configuration file.
// A backslash '\' in front of '$', '~', '*', or '\' escapes the character and the
// backslash is removed.
func SubstituteString(in string, baseDir string) string {
	homeDir, _ := os.UserHomeDir()

	return substitutionRegex.ReplaceAllStringFunc(in, func(match string) string {
		if strings.HasPrefix(match, `\`) {
			if match == `\\` {
				return `\`
			}
			return string(match[1])
		}

		if match == "~" {
			if homeDir != "" {
				return homeDir
			}
			return "~"
		}

		if match == "*" {
			return baseDir
		}

		if strings.HasPrefix(match, "$") {
			if val, exists := os.LookupEnv(match[1:]); exists {
				return val
			}
			return ""
		}

		return match
	})
}
