package network

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/weapon"
)

// LogSink is the presentation sink of a headless client. Cues are written to
// the log at trace level and counted.
type LogSink struct {
	log     zerolog.Logger
	handles atomic.Uint64
	effects atomic.Int64
	impacts atomic.Int64
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) next() weapon.FXHandle {
	return weapon.FXHandle(s.handles.Add(1))
}

func (s *LogSink) PlayEffect(cue string) weapon.FXHandle {
	s.effects.Add(1)
	s.log.Trace().Str("cue", cue).Msg("effect")
	return s.next()
}

func (s *LogSink) PlayAnimation(asset string, looped bool) {
	s.log.Trace().Str("asset", asset).Bool("looped", looped).Msg("weapon animation")
}

func (s *LogSink) SpawnAttachedParticle(asset, socket string) weapon.FXHandle {
	s.effects.Add(1)
	s.log.Trace().Str("asset", asset).Str("socket", socket).Msg("particle")
	return s.next()
}

func (s *LogSink) DeactivateParticle(h weapon.FXHandle) {
	s.log.Trace().Uint64("handle", uint64(h)).Msg("particle off")
}

func (s *LogSink) FadeOutSound(h weapon.FXHandle, duration float64) {
	s.log.Trace().Uint64("handle", uint64(h)).Float64("duration", duration).Msg("sound fade")
}

func (s *LogSink) SpawnImpact(asset string, point, _ gamemath.Vec2) {
	s.impacts.Add(1)
	s.log.Trace().Str("asset", asset).Float64("x", point.X).Float64("y", point.Y).Msg("impact")
}

func (s *LogSink) SetMeshVisible(visible bool) {}

// Effects returns how many effects and particles were started.
func (s *LogSink) Effects() int64 { return s.effects.Load() }

// Impacts returns how many impacts were spawned.
func (s *LogSink) Impacts() int64 { return s.impacts.Load() }
