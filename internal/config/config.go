package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/labi-le/mammon/internal/hotkey"
)

const (
	appDir   = "mammon"
	fileName = "config.toml"

	minWindowSide = 100
	maxInterval   = time.Second
)

var (
	ErrInvalid = errors.New("invalid config")
	ErrDecode  = errors.New("failed to decode config")
)

// Duration reads values like "10ms" from toml.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Hotkey  Hotkey  `toml:"hotkey"`
	Window  Window  `toml:"window"`
	Capture Capture `toml:"capture"`
	Notify  bool    `toml:"notify"`
	Verbose bool    `toml:"verbose"`
}

type Hotkey struct {
	Enabled  bool     `toml:"enabled"`
	Chord    string   `toml:"chord"`
	Interval Duration `toml:"interval"`
}

type Window struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Font is an optional ttf/otf/ttc file preferred over the bundled fonts.
	Font string `toml:"font"`
}

type Capture struct {
	JPEGQuality int `toml:"jpeg_quality"`
}

func Default() Config {
	return Config{
		Hotkey: Hotkey{
			Enabled:  true,
			Chord:    hotkey.DefaultChord,
			Interval: Duration{10 * time.Millisecond},
		},
		Window: Window{
			Width:  400,
			Height: 500,
		},
		Capture: Capture{
			JPEGQuality: 85,
		},
		Notify: true,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/mammon/config.toml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load decodes path over the defaults. A missing file is an error only
// when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w %s: unknown key %s", ErrDecode, path, undecoded[0])
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Hotkey.Enabled && c.Hotkey.Chord == "" {
		errs = append(errs, fmt.Errorf("%w: hotkey chord is empty", ErrInvalid))
	}
	if c.Hotkey.Interval.Duration <= 0 || c.Hotkey.Interval.Duration > maxInterval {
		errs = append(errs, fmt.Errorf("%w: hotkey interval %s out of (0, %s]", ErrInvalid, c.Hotkey.Interval, maxInterval))
	}
	if c.Window.Width < minWindowSide || c.Window.Height < minWindowSide {
		errs = append(errs, fmt.Errorf("%w: window %dx%d smaller than %d", ErrInvalid, c.Window.Width, c.Window.Height, minWindowSide))
	}
	if c.Capture.JPEGQuality < 1 || c.Capture.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("%w: jpeg quality %d out of [1, 100]", ErrInvalid, c.Capture.JPEGQuality))
	}

	return errors.Join(errs...)
}

// Chord resolves the configured hotkey against keymap. Unknown keys are
// reported as ErrInvalid like the rest of Validate.
func (c Config) Chord(keymap map[string]uint16) (hotkey.Chord, error) {
	chord, err := hotkey.ParseChord(c.Hotkey.Chord, keymap)
	if err != nil {
		return hotkey.Chord{}, fmt.Errorf("%w: hotkey chord: %w", ErrInvalid, err)
	}
	return chord, nil
}
