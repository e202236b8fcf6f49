//go:build windows && !null

package clipboard

import (
	"github.com/labi-le/mammon/pkg/clipboard/design"
	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/rs/zerolog"
)

func New(zerolog.Logger) (eventful.Eventful, error) {
	return design.New(), nil
}
