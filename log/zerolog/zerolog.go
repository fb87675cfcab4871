// Package zerolog adapts a zerolog.Logger to the transientcache Logger
// interface.
package zerolog

import (
	"github.com/rs/zerolog"
	"github.com/unkn0wn-root/transientcache"
)

type Logger struct{ L zerolog.Logger }

var _ transientcache.Logger = Logger{}

func (z Logger) Debug(msg string, f transientcache.Fields) {
	z.L.Debug().Fields(map[string]any(f)).Msg(msg)
}
func (z Logger) Info(msg string, f transientcache.Fields) {
	z.L.Info().Fields(map[string]any(f)).Msg(msg)
}
func (z Logger) Warn(msg string, f transientcache.Fields) {
	z.L.Warn().Fields(map[string]any(f)).Msg(msg)
}
func (z Logger) Error(msg string, f transientcache.Fields) {
	z.L.Error().Fields(map[string]any(f)).Msg(msg)
}
