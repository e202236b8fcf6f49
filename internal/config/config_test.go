package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/mammon/internal/config"
	"github.com/labi-le/mammon/internal/hotkey"
	flag "github.com/spf13/pflag"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func resolve(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	f := config.NewFlags(flag.NewFlagSet("mammon", flag.ContinueOnError))
	if err := f.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return f.Resolve()
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := config.Load(missing, false)
	if err != nil {
		t.Fatalf("optional file: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	if _, err := config.Load(missing, true); !errors.Is(err, config.ErrDecode) {
		t.Fatalf("required file: expected ErrDecode, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
notify = false

[hotkey]
chord = "alt+space"
interval = "25ms"

[window]
width = 640
`)

	cfg, err := config.Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := config.Default()
	want.Notify = false
	want.Hotkey.Chord = "alt+space"
	want.Hotkey.Interval = config.Duration{Duration: 25 * time.Millisecond}
	want.Window.Width = 640

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown key", body: "colour = \"red\"\n"},
		{name: "bad duration", body: "[hotkey]\ninterval = \"soon\"\n"},
		{name: "broken toml", body: "[window\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Load(writeFile(t, tt.body), true); !errors.Is(err, config.ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestFlags_OverrideFile(t *testing.T) {
	path := writeFile(t, `
verbose = true

[window]
width = 640
height = 480
`)

	cfg, err := resolve(t, "--config", path, "--height", "300", "--hotkey=false")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := config.Default()
	want.Verbose = true
	want.Window.Width = 640
	want.Window.Height = 300
	want.Hotkey.Enabled = false

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestFlags_DefaultsWithoutFile(t *testing.T) {
	cfg, err := resolve(t)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		valid  bool
	}{
		{name: "defaults", mutate: func(*config.Config) {}, valid: true},
		{name: "empty chord", mutate: func(c *config.Config) { c.Hotkey.Chord = "" }},
		{name: "empty chord with hotkey off", mutate: func(c *config.Config) {
			c.Hotkey.Chord = ""
			c.Hotkey.Enabled = false
		}, valid: true},
		{name: "zero interval", mutate: func(c *config.Config) { c.Hotkey.Interval.Duration = 0 }},
		{name: "slow interval", mutate: func(c *config.Config) { c.Hotkey.Interval.Duration = 2 * time.Second }},
		{name: "tiny window", mutate: func(c *config.Config) { c.Window.Width = 10 }},
		{name: "quality", mutate: func(c *config.Config) { c.Capture.JPEGQuality = 101 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfig_Chord(t *testing.T) {
	keymap := map[string]uint16{"ctrl": 29, "rctrl": 3613, "shift": 42, "rshift": 54, "a": 30}

	tests := []struct {
		name  string
		chord string
		err   error
	}{
		{name: "default", chord: config.Default().Hotkey.Chord},
		{name: "unknown key", chord: "ctrl+hyper", err: hotkey.ErrUnknownKey},
		{name: "dangling plus", chord: "ctrl+", err: hotkey.ErrEmptyChord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Hotkey.Chord = tt.chord

			chord, err := cfg.Chord(keymap)
			if tt.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if chord.String() != tt.chord {
					t.Fatalf("chord %q, want %q", chord, tt.chord)
				}
				return
			}
			if !errors.Is(err, config.ErrInvalid) || !errors.Is(err, tt.err) {
				t.Fatalf("expected ErrInvalid wrapping %v, got %v", tt.err, err)
			}
		})
	}
}
