// Package config loads chromamatch tunables from defaults, a YAML config file,
// CHROMAMATCH_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/chromamatch/internal/colour"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CHROMAMATCH"

// DefaultConfigPath is the config file read when none is given explicitly.
const DefaultConfigPath = "~/.config/chromamatch/config.yaml"

// Configuration keys.
const (
	KeyClusters        = "clusters"
	KeySeed            = "seed"
	KeyInits           = "inits"
	KeyMaxIterations   = "max_iterations"
	KeyTolerance       = "tolerance"
	KeyUndertoneMargin = "undertone_margin"
	KeyLabelSkin       = "labels.skin"
	KeyLabelLeftEye    = "labels.left_eye"
	KeyLabelRightEye   = "labels.right_eye"
	KeyLabelHair       = "labels.hair"
)

// Default segmentation class ids, from the face-parsing label set.
const (
	DefaultLabelSkin     = 1
	DefaultLabelLeftEye  = 4
	DefaultLabelRightEye = 5
	DefaultLabelHair     = 13
)

// Labels maps facial regions to class ids in a segmentation label map.
type Labels struct {
	Skin     int `mapstructure:"skin"`
	LeftEye  int `mapstructure:"left_eye"`
	RightEye int `mapstructure:"right_eye"`
	Hair     int `mapstructure:"hair"`
}

// Config holds all chromamatch tunables.
type Config struct {
	Clusters        int     `mapstructure:"clusters"`
	Seed            int64   `mapstructure:"seed"`
	Inits           int     `mapstructure:"inits"`
	MaxIterations   int     `mapstructure:"max_iterations"`
	Tolerance       float64 `mapstructure:"tolerance"`
	UndertoneMargin float64 `mapstructure:"undertone_margin"`
	Labels          Labels  `mapstructure:"labels"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Clusters:        colour.DefaultClusters,
		Seed:            colour.DefaultSeed,
		Inits:           colour.DefaultInits,
		MaxIterations:   colour.DefaultMaxIterations,
		Tolerance:       colour.DefaultTolerance,
		UndertoneMargin: colour.DefaultUndertoneMargin,
		Labels: Labels{
			Skin:     DefaultLabelSkin,
			LeftEye:  DefaultLabelLeftEye,
			RightEye: DefaultLabelRightEye,
			Hair:     DefaultLabelHair,
		},
	}
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyClusters, d.Clusters)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyInits, d.Inits)
	v.SetDefault(KeyMaxIterations, d.MaxIterations)
	v.SetDefault(KeyTolerance, d.Tolerance)
	v.SetDefault(KeyUndertoneMargin, d.UndertoneMargin)
	v.SetDefault(KeyLabelSkin, d.Labels.Skin)
	v.SetDefault(KeyLabelLeftEye, d.Labels.LeftEye)
	v.SetDefault(KeyLabelRightEye, d.Labels.RightEye)
	v.SetDefault(KeyLabelHair, d.Labels.Hair)
}

// BindFlags binds each named flag in fs to its configuration key. Flags absent
// from fs are skipped, so commands only bind what they declare.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keysByFlag map[string]string) error {
	for name, key := range keysByFlag {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration into v and returns it validated. When path is
// empty the default config file is used if it exists; an explicit path must
// exist.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand config path %s: %w", path, err)
	}

	if _, err := os.Stat(expanded); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config file not accessible: %w", err)
	}
	return expanded, nil
}

// Validate checks every field and names the first offending key.
func (c Config) Validate() error {
	if err := c.ExtractorConfig().Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.UndertoneMargin < 0 {
		return fmt.Errorf("invalid configuration: %s cannot be negative, got %g", KeyUndertoneMargin, c.UndertoneMargin)
	}

	labels := []struct {
		key   string
		value int
	}{
		{KeyLabelSkin, c.Labels.Skin},
		{KeyLabelLeftEye, c.Labels.LeftEye},
		{KeyLabelRightEye, c.Labels.RightEye},
		{KeyLabelHair, c.Labels.Hair},
	}
	for _, l := range labels {
		if l.value < 0 || l.value > 255 {
			return fmt.Errorf("invalid configuration: %s must be a class id in 0-255, got %d", l.key, l.value)
		}
	}
	return nil
}

// ExtractorConfig returns the clustering settings.
func (c Config) ExtractorConfig() colour.ExtractorConfig {
	return colour.ExtractorConfig{
		Clusters:      c.Clusters,
		Seed:          c.Seed,
		Inits:         c.Inits,
		MaxIterations: c.MaxIterations,
		Tolerance:     c.Tolerance,
	}
}
