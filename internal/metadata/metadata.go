package metadata

import "github.com/rs/zerolog"

var (
	Version    = "freshest"
	CommitHash = "n/a"
	BuildTime  = "n/a"
)

type Build struct{}

func (Build) MarshalZerologObject(e *zerolog.Event) {
	e.Str("v", Version)
	e.Str("commit_hash", CommitHash)
	e.Str("build_time", BuildTime)
}
