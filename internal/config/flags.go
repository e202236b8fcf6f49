package config

import (
	flag "github.com/spf13/pflag"
)

// Flags layers command line values over the config file. Only flags set
// explicitly override the file.
type Flags struct {
	fs     *flag.FlagSet
	path   string
	values Config

	ShowHelp       bool
	ShowVersion    bool
	Hidden         bool
	InstallService bool
}

func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs, values: Default()}
	v := &f.values

	fs.StringVar(&f.path, "config", "", "Path to the config file (default: user config dir)")

	fs.BoolVar(&v.Hotkey.Enabled, "hotkey", v.Hotkey.Enabled, "Enable the global hotkey")
	fs.StringVar(&v.Hotkey.Chord, "hotkey_chord", v.Hotkey.Chord, "Hotkey chord, e.g. ctrl+shift+a")
	fs.DurationVar(&v.Hotkey.Interval.Duration, "hotkey_interval", v.Hotkey.Interval.Duration, "Key state poll interval")
	fs.IntVar(&v.Window.Width, "width", v.Window.Width, "Window width")
	fs.IntVar(&v.Window.Height, "height", v.Window.Height, "Window height")
	fs.StringVar(&v.Window.Font, "font", v.Window.Font, "Extra font file (ttf, otf, ttc)")
	fs.IntVar(&v.Capture.JPEGQuality, "jpeg_quality", v.Capture.JPEGQuality, "Quality of stored images")
	fs.BoolVar(&v.Notify, "notify", v.Notify, "Enable notifications")
	fs.BoolVar(&v.Verbose, "verbose", v.Verbose, "Verbose logs")

	fs.BoolVarP(&f.ShowVersion, "version", "v", false, "Show version")
	fs.BoolVarP(&f.ShowHelp, "help", "h", false, "Show help")
	fs.BoolVar(&f.Hidden, "hidden", true, "Hide console window (for windows user)")
	fs.BoolVar(&f.InstallService, "install-service", false, "Install systemd-unit and start the service")

	return f
}

func (f *Flags) Parse(args []string) error {
	return f.fs.Parse(args)
}

// Resolve returns defaults, then the config file, then changed flags.
func (f *Flags) Resolve() (Config, error) {
	path, required := f.path, f.fs.Changed("config")
	if !required {
		var err error
		if path, err = DefaultPath(); err != nil {
			path = ""
		}
	}

	cfg, err := Load(path, required)
	if err != nil {
		return Config{}, err
	}

	f.fs.Visit(func(fl *flag.Flag) {
		f.apply(fl.Name, &cfg)
	})

	return cfg, cfg.Validate()
}

func (f *Flags) apply(name string, cfg *Config) {
	switch name {
	case "hotkey":
		cfg.Hotkey.Enabled = f.values.Hotkey.Enabled
	case "hotkey_chord":
		cfg.Hotkey.Chord = f.values.Hotkey.Chord
	case "hotkey_interval":
		cfg.Hotkey.Interval = f.values.Hotkey.Interval
	case "width":
		cfg.Window.Width = f.values.Window.Width
	case "height":
		cfg.Window.Height = f.values.Window.Height
	case "font":
		cfg.Window.Font = f.values.Window.Font
	case "jpeg_quality":
		cfg.Capture.JPEGQuality = f.values.Capture.JPEGQuality
	case "notify":
		cfg.Notify = f.values.Notify
	case "verbose":
		cfg.Verbose = f.values.Verbose
	}
}

func (f *Flags) Usage() {
	f.fs.PrintDefaults()
}
