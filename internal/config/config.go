// Package config loads funclang command configuration.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/majwic/lisp-abstract-interpreter/lang"
	"github.com/spf13/pflag"
)

// Defaults
const (
	DefaultLogLevel = "warn"
	DefaultOutput   = "text"
	DefaultBaseDir  = "."
	DefaultMaxDepth = 10000
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "FUNCLANG_"

// Output formats
const (
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
)

// AbstractFlag is the name of the repeatable flag binding an abstract input.
// Its values are not loaded through koanf because they populate a map.
const AbstractFlag = "abstract"

// Config holds all command configuration.
type Config struct {
	LogLevel     string              `koanf:"log_level"`
	Output       string              `koanf:"output"`
	BaseDir      string              `koanf:"base_dir"`
	MaxDepth     int                 `koanf:"max_depth"`
	AbstractFile string              `koanf:"abstract_file"`
	Abstract     map[string][]string `koanf:"abstract"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Output:   DefaultOutput,
		BaseDir:  DefaultBaseDir,
		MaxDepth: DefaultMaxDepth,
	}
}

// findConfigFile returns the explicit path or the first default config file
// present in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"funclang.yaml", "funclang.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, a config file, environment
// variables and flags.  Precedence (highest to lowest): flags > env vars >
// config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	def := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level": def.LogLevel,
		"output":    def.Output,
		"base_dir":  def.BaseDir,
		"max_depth": def.MaxDepth,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// FUNCLANG_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == AbstractFlag {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if flags != nil {
		if f := flags.Lookup(AbstractFlag); f != nil && f.Changed {
			values, err := flags.GetStringArray(AbstractFlag)
			if err != nil {
				return nil, err
			}
			if err := cfg.addAbstractFlags(values); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// addAbstractFlags merges name=Tok,Tok flag values into c.Abstract.
func (c *Config) addAbstractFlags(values []string) error {
	for _, v := range values {
		name, tokens, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("invalid --%s value %q: expected name=Token,Token", AbstractFlag, v)
		}
		if c.Abstract == nil {
			c.Abstract = make(map[string][]string)
		}
		c.Abstract[name] = strings.Split(tokens, ",")
	}
	return nil
}

// Validate checks option values.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputTable, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q: must be one of %s, %s, %s", c.Output, OutputText, OutputTable, OutputJSON)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("invalid max_depth %d: must not be negative", c.MaxDepth)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for name, tokens := range c.Abstract {
		if _, err := lang.ParseTokenSet(tokens); err != nil {
			return fmt.Errorf("abstract input %s: %w", name, err)
		}
	}
	return nil
}

// Bindings returns the abstract inputs named by the abstract file and the
// abstract map.  Entries of the map override entries of the file.
func (c *Config) Bindings() (map[string]lang.TokenSet, error) {
	bindings := make(map[string]lang.TokenSet)
	if c.AbstractFile != "" {
		fromFile, err := LoadAbstractFile(c.AbstractFile)
		if err != nil {
			return nil, err
		}
		for name, s := range fromFile {
			bindings[name] = s
		}
	}
	names := make([]string, 0, len(c.Abstract))
	for name := range c.Abstract {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s, err := lang.ParseTokenSet(c.Abstract[name])
		if err != nil {
			return nil, fmt.Errorf("abstract input %s: %w", name, err)
		}
		bindings[name] = s
	}
	return bindings, nil
}
