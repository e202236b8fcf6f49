package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightlyone/lockfile"
	"github.com/rs/zerolog"
)

const file = "mammon.lck"

var (
	ErrCannotLock     = errors.New("cannot get locked process")
	ErrAlreadyRunning = errors.New("mammon is already running")
)

// Acquire takes the single instance lock inside dir. The returned func
// releases it.
func Acquire(dir string) (func() error, error) {
	lock, err := lockfile.New(filepath.Join(dir, file))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCannotLock, err)
	}

	if lockErr := lock.TryLock(); lockErr != nil {
		owner, err := lock.GetOwner()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCannotLock, errors.Join(lockErr, err))
		}
		return nil, fmt.Errorf("%w. pid %d", ErrAlreadyRunning, owner.Pid)
	}

	return lock.Unlock, nil
}

func Must(logger zerolog.Logger) func() {
	unlock, err := Acquire(os.TempDir())
	if err != nil {
		logger.Fatal().Err(err).Msg("single instance check")
	}

	return func() {
		if err := unlock(); err != nil {
			logger.Error().Err(err).Msg("cannot unlock process")
		}
	}
}
