package stats

import (
	"context"
	"sort"
)

type key struct {
	player string
	weapon string
}

// Recorder accumulates stat deltas between flushes. It is owned by the game
// loop and not safe for concurrent use.
type Recorder struct {
	pending map[key]*WeaponStat
}

func NewRecorder() *Recorder {
	return &Recorder{pending: make(map[key]*WeaponStat)}
}

func (r *Recorder) row(player, weapon string) *WeaponStat {
	k := key{player, weapon}
	s, ok := r.pending[k]
	if !ok {
		s = &WeaponStat{Player: player, Weapon: weapon}
		r.pending[k] = s
	}
	return s
}

func (r *Recorder) Shot(player, weapon string, hits int) {
	s := r.row(player, weapon)
	s.Shots++
	s.Hits += hits
}

func (r *Recorder) Reload(player, weapon string) {
	r.row(player, weapon).Reloads++
}

func (r *Recorder) Kill(player, weapon string) {
	r.row(player, weapon).Kills++
}

// Len returns the number of pending rows.
func (r *Recorder) Len() int {
	return len(r.pending)
}

// Drain returns the pending deltas sorted by player and weapon and resets the recorder.
func (r *Recorder) Drain() []WeaponStat {
	out := make([]WeaponStat, 0, len(r.pending))
	for _, s := range r.pending {
		out = append(out, *s)
	}
	clear(r.pending)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Weapon < out[j].Weapon
	})
	return out
}

// FlushTo drains the recorder into store. On failure the deltas are kept
// for the next flush.
func (r *Recorder) FlushTo(ctx context.Context, store *Store) error {
	deltas := r.Drain()
	if err := store.Add(ctx, deltas); err != nil {
		r.Merge(deltas)
		return err
	}
	return nil
}

// Merge adds drained deltas back, e.g. ones handed over by another goroutine.
func (r *Recorder) Merge(deltas []WeaponStat) {
	for _, d := range deltas {
		s := r.row(d.Player, d.Weapon)
		s.Shots += d.Shots
		s.Hits += d.Hits
		s.Reloads += d.Reloads
		s.Kills += d.Kills
	}
}
