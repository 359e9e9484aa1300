// Package anim tracks pawn animation clips on headless peers. There is no
// skeleton here: a clip is a name and a duration, and playback is a tween
// from 0 to 1 over that duration.
package anim

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animator plays named clips from a fixed table.
type Animator struct {
	clips   map[string]float64
	playing map[string]*playback
}

type playback struct {
	tween    *gween.Tween
	progress float64
}

// NewAnimator returns an animator over clips (name -> seconds). The table is
// not copied and must not change afterwards.
func NewAnimator(clips map[string]float64) *Animator {
	return &Animator{
		clips:   clips,
		playing: make(map[string]*playback),
	}
}

// Play starts clip from the beginning and returns its duration. Unknown clips
// return 0 and play nothing.
func (a *Animator) Play(clip string) float64 {
	d := a.clips[clip]
	if d <= 0 {
		return 0
	}
	a.playing[clip] = &playback{tween: gween.New(0, 1, float32(d), ease.Linear)}
	return d
}

// Stop ends clip if it is playing.
func (a *Animator) Stop(clip string) {
	delete(a.playing, clip)
}

func (a *Animator) Playing(clip string) bool {
	_, ok := a.playing[clip]
	return ok
}

// Progress returns how far clip has played in [0,1], or 0 when not playing.
func (a *Animator) Progress(clip string) float64 {
	if p, ok := a.playing[clip]; ok {
		return p.progress
	}
	return 0
}

// Update advances every playing clip by dt seconds and drops finished ones.
func (a *Animator) Update(dt float64) {
	for name, p := range a.playing {
		v, done := p.tween.Update(float32(dt))
		p.progress = float64(v)
		if done {
			delete(a.playing, name)
		}
	}
}
