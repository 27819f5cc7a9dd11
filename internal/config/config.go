// Package config resolves linedemux settings from flags, the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nakario/linedemux"
)

// EnvPrefix is the prefix of the environment variables read by Load
const EnvPrefix = "LINEDEMUX"

// Keys shared by the flags and the LINEDEMUX_* variables
const (
	// KeyCompat selects linedemux.ModeCompat
	KeyCompat = "compat"
	// KeyAvgSuffix is the suffix of the avg output
	KeyAvgSuffix = "avg-suffix"
	// KeyMaxSuffix is the suffix of the max output
	KeyMaxSuffix = "max-suffix"
	// KeyVerbose enables debug logging
	KeyVerbose = "verbose"
)

// Config holds the resolved settings
type Config struct {
	Compat    bool
	AvgSuffix string
	MaxSuffix string
	Verbose   bool
}

// RegisterFlags adds the configuration flags to flags
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Bool(KeyCompat, false, "reproduce the original alternation, trailing artifact and silent failures included")
	flags.String(KeyAvgSuffix, linedemux.DefaultAvgSuffix, "suffix of the output receiving lines 0, 2, 4, ...")
	flags.String(KeyMaxSuffix, linedemux.DefaultMaxSuffix, "suffix of the output receiving lines 1, 3, 5, ...")
	flags.BoolP(KeyVerbose, "v", false, "log progress to stderr")
}

// Load resolves the configuration. Flags set on the command line win over
// LINEDEMUX_* variables, which win over the flag defaults.
// envFile is loaded first when it exists; a missing file is not an error.
// A malformed envFile is reported, but the returned Config is still
// resolved from the flags and the environment.
func Load(flags *pflag.FlagSet, envFile string) (Config, error) {
	var envErr error
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			envErr = fmt.Errorf("Error loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, err
	}

	return Config{
		Compat:    v.GetBool(KeyCompat),
		AvgSuffix: v.GetString(KeyAvgSuffix),
		MaxSuffix: v.GetString(KeyMaxSuffix),
		Verbose:   v.GetBool(KeyVerbose),
	}, envErr
}

// Options converts c into split options
func (c Config) Options() linedemux.Options {
	mode := linedemux.ModeFixed
	if c.Compat {
		mode = linedemux.ModeCompat
	}
	return linedemux.Options{
		Mode:      mode,
		AvgSuffix: c.AvgSuffix,
		MaxSuffix: c.MaxSuffix,
	}
}
