//go:build null

package clipboard

import (
	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/clipboard/null"
	"github.com/rs/zerolog"
)

func New(zerolog.Logger) (eventful.Eventful, error) {
	return null.NewNull(), nil
}
