//go:build unix && !darwin && !null

package clipboard

import (
	"errors"
	"os"

	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/clipboard/x11"
	"github.com/rs/zerolog"
)

var ErrNoDisplay = errors.New("x11 display not found")

func New(logger zerolog.Logger) (eventful.Eventful, error) {
	if _, ok := os.LookupEnv("DISPLAY"); !ok {
		return nil, ErrNoDisplay
	}
	return x11.New(logger), nil
}
