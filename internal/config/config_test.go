package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/nakario/linedemux"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Config{AvgSuffix: linedemux.DefaultAvgSuffix, MaxSuffix: linedemux.DefaultMaxSuffix}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
	if cfg.Options().Mode != linedemux.ModeFixed {
		t.Errorf("default mode = %v", cfg.Options().Mode)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("LINEDEMUX_COMPAT", "true")
	t.Setenv("LINEDEMUX_AVG_SUFFIX", ".even")

	cfg, err := Load(newFlags(t), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Compat || cfg.AvgSuffix != ".even" {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Options().Mode != linedemux.ModeCompat {
		t.Errorf("mode = %v, want compat", cfg.Options().Mode)
	}
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("LINEDEMUX_MAX_SUFFIX", ".env")

	cfg, err := Load(newFlags(t, "--max-suffix", ".flag", "-v"), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxSuffix != ".flag" || !cfg.Verbose {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set
	t.Setenv("LINEDEMUX_MAX_SUFFIX", ".set")
	os.Unsetenv("LINEDEMUX_AVG_SUFFIX")
	t.Cleanup(func() { os.Unsetenv("LINEDEMUX_AVG_SUFFIX") })

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("LINEDEMUX_AVG_SUFFIX=.fromfile\nLINEDEMUX_MAX_SUFFIX=.ignored\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(newFlags(t), envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AvgSuffix != ".fromfile" || cfg.MaxSuffix != ".set" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(newFlags(t), filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}

func TestLoadMalformedEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("BAD-KEY=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(newFlags(t, "--compat"), envFile)
	if err == nil {
		t.Fatal("Load() accepted a malformed env file")
	}
	if !cfg.Compat || cfg.AvgSuffix != linedemux.DefaultAvgSuffix {
		t.Errorf("Load() = %+v, want the flags resolved anyway", cfg)
	}
}
