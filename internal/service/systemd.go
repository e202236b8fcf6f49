package service

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	unitName = "mammon.service"

	serviceTemplate = `
[Unit]
Description=Mammon Clipboard History
Documentation=https://github.com/labi-le/mammon

PartOf=graphical-session.target

After=graphical-session.target

ConditionEnvironment=DISPLAY

[Service]
Type=simple
ExecStart=%s
Environment="PATH=%s"
Environment="DISPLAY=%s"
Environment="DBUS_SESSION_BUS_ADDRESS=%s"
Restart=on-failure
RestartSec=10

StandardOutput=journal
StandardError=journal

[Install]
WantedBy=graphical-session.target
`
)

var ErrMissingEnv = errors.New("critical env missing")

// Unit renders the user unit for the executable at exe.
func Unit(exe, envPath, display, dbus string) string {
	if strings.Contains(exe, " ") {
		exe = fmt.Sprintf(`"%s"`, exe)
	}
	return fmt.Sprintf(serviceTemplate, exe, envPath, display, dbus)
}

func InstallService(logger zerolog.Logger) error {
	env := make(map[string]string, 3)
	for _, key := range []string{"PATH", "DISPLAY", "DBUS_SESSION_BUS_ADDRESS"} {
		if env[key] = os.Getenv(key); env[key] == "" {
			return fmt.Errorf("%w: %s is empty. Cannot install service", ErrMissingEnv, key)
		}
	}

	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to detect executable path: %w", err)
	}

	exePath, err = filepath.EvalSymlinks(exePath)
	if err != nil {
		return fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	absPath, err := filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home dir: %w", err)
	}

	systemdDir := filepath.Join(homeDir, ".config", "systemd", "user")
	serviceFile := filepath.Join(systemdDir, unitName)

	logger.Info().Msg("try to delete the old service instance")
	_ = runSystemctl(logger, "disable", "--now", unitName)

	if err := os.MkdirAll(systemdDir, 0755); err != nil {
		return fmt.Errorf("failed to create systemd directory: %w", err)
	}

	content := Unit(absPath, env["PATH"], env["DISPLAY"], env["DBUS_SESSION_BUS_ADDRESS"])

	if err := os.WriteFile(serviceFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write service file: %w", err)
	}

	logger.Info().Str("path", serviceFile).Msg("service file created")

	if err := runSystemctl(logger, "daemon-reload"); err != nil {
		return err
	}

	if err := runSystemctl(logger, "enable", unitName); err != nil {
		return err
	}

	if err := runSystemctl(logger, "restart", unitName); err != nil {
		return err
	}

	logger.Info().Msg("service installed and started successfully")
	return nil
}

func runSystemctl(logger zerolog.Logger, args ...string) error {
	logger.Debug().Strs("args", args).Msg("executing systemctl")

	cmd := exec.Command("systemctl", append([]string{"--user"}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("systemctl %s failed: %w", strings.Join(args, " "), err)
	}
	return nil
}
