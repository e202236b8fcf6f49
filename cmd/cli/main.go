package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gioui.org/app"
	"gioui.org/font"
	"github.com/labi-le/mammon/internal/capture"
	"github.com/labi-le/mammon/internal/channel"
	"github.com/labi-le/mammon/internal/config"
	"github.com/labi-le/mammon/internal/history"
	"github.com/labi-le/mammon/internal/hotkey"
	"github.com/labi-le/mammon/internal/hotkey/keystate"
	"github.com/labi-le/mammon/internal/lock"
	"github.com/labi-le/mammon/internal/metadata"
	"github.com/labi-le/mammon/internal/notification"
	"github.com/labi-le/mammon/internal/service"
	"github.com/labi-le/mammon/internal/tray"
	"github.com/labi-le/mammon/internal/tray/icon"
	"github.com/labi-le/mammon/internal/ui"
	"github.com/labi-le/mammon/internal/ui/view"
	"github.com/labi-le/mammon/pkg/clipboard"
	"github.com/labi-le/mammon/pkg/console"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

const appName = "mammon"

func main() {
	flags := config.NewFlags(flag.CommandLine)
	_ = flags.Parse(os.Args[1:])

	if flags.ShowHelp {
		flag.Usage()
		return
	}

	cfg, cfgErr := flags.Resolve()
	applyTagsOverrides(&cfg)
	logger := initLogger(cfg.Verbose)

	logger.Info().EmbedObject(metadata.Build{}).Send()

	if flags.ShowVersion {
		// ^
		return
	}

	if cfgErr != nil {
		logger.Fatal().Err(cfgErr).Msg("invalid configuration")
	}

	var chord hotkey.Chord
	if cfg.Hotkey.Enabled {
		var err error
		if chord, err = cfg.Chord(keystate.Keymap()); err != nil {
			logger.Fatal().Err(err).Msg("invalid configuration")
		}
	}

	if cfg.Verbose {
		logger.Info().Msg("verbose mode enabled")
	}

	if flags.InstallService {
		if err := service.InstallService(logger); err != nil {
			logger.Fatal().Err(err).Msg("failed install service")
		}
		return
	}

	unlock := lock.Must(logger)

	if flags.Hidden && console.HideConsoleWindow() {
		logger.Trace().Msg("console window hidden")
	}

	if ui.PreferX11() {
		logger.Debug().Msg("wayland session, using xwayland for the window")
	}

	go func() {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := run(ctx, cancel, cfg, chord, logger)
		cancel()
		unlock()

		if err != nil {
			logger.Fatal().Err(err).Msg("stopped with error")
		}
		logger.Info().Msg("bye")
		os.Exit(0)
	}()

	// the window owns the main thread
	app.Main()
}

func run(ctx context.Context, cancel context.CancelFunc, cfg config.Config, chord hotkey.Chord, logger zerolog.Logger) error {
	notifier := notification.New(cfg.Notify, appName)

	clip, err := clipboard.New(logger)
	if err != nil {
		notifier.Notify("clipboard is unavailable: %s", err)
		return fmt.Errorf("clipboard: %w", err)
	}

	queue := channel.New()
	store := history.New(logger)

	window := ui.New(store, queue, clip, logger,
		ui.WithSize(cfg.Window.Width, cfg.Window.Height),
		ui.WithFonts(loadFonts(cfg.Window.Font, logger)...),
	)

	handler := capture.NewHandler(queue, logger, capture.WithQuality(cfg.Capture.JPEGQuality))
	watcher := capture.NewWatcher(clip, handler, logger).Start(ctx)

	listened := make(chan error, 1)
	go func() {
		listened <- channel.Listen(ctx, queue, store, logger)
	}()

	var wg sync.WaitGroup

	tr := tray.New(icon.Load(), appName, cancel, logger)
	tr.Start()
	wg.Add(1)
	go func() {
		defer wg.Done()
		tray.Listen(ctx, tr.Events(), store, logger)
	}()

	if cfg.Hotkey.Enabled {
		startHotkey(ctx, &wg, cfg, chord, window.Scale, store, logger, notifier)
	}

	closed := make(chan error, 1)
	go func() {
		closed <- window.Run(ctx)
	}()

	var runErr error
	select {
	case err := <-listened:
		if !errors.Is(err, context.Canceled) {
			runErr = err
		}
	case <-watcher.Done():
		if runErr = watcher.Err(); runErr != nil {
			notifier.Notify("clipboard watch stopped: %s", runErr)
		}
	}

	logger.Debug().Msg("shutting down")

	cancel()
	tr.Stop()
	stopErr := watcher.Stop()
	queue.Close()
	wg.Wait()

	if runErr == nil {
		runErr = stopErr
	}
	return errors.Join(runErr, <-closed)
}

func startHotkey(
	ctx context.Context,
	wg *sync.WaitGroup,
	cfg config.Config,
	chord hotkey.Chord,
	scale func() float32,
	target hotkey.Summoner,
	logger zerolog.Logger,
	notifier notification.Notifier,
) {
	source, err := keystate.New(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("hotkey disabled")
		notifier.Notify("hotkey %s is unavailable: %s", chord, err)
		return
	}

	listener := hotkey.NewListener(source, chord, target, logger,
		hotkey.WithInterval(cfg.Hotkey.Interval.Duration),
		hotkey.WithWindowSize(cfg.Window.Width, cfg.Window.Height),
		hotkey.WithScale(scale),
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer source.Close()
		listener.Run(ctx)
	}()
}

func loadFonts(path string, logger zerolog.Logger) []font.FontFace {
	if path == "" {
		return nil
	}

	faces, err := view.LoadFont(path)
	if err != nil {
		logger.Warn().Err(err).Msg("falling back to bundled fonts")
		return nil
	}
	return faces
}

func initLogger(verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	if verbose {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			short := file
			for i := len(file) - 1; i > 0; i-- {
				if file[i] == '/' {
					short = file[i+1:]
					break
				}
			}
			file = short
			return fmt.Sprintf("%s:%d", file, line)
		}
		return zerolog.New(output).
			Level(zerolog.TraceLevel).
			With().
			Timestamp().
			Caller().
			Logger()
	}

	return zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}
