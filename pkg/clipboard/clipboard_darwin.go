//go:build darwin && !null

package clipboard

import (
	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/clipboard/mac"
	"github.com/rs/zerolog"
)

func New(zerolog.Logger) (eventful.Eventful, error) {
	return mac.New(), nil
}
