// Package bot drives a client's pawn from replicated state: it picks the
// nearest live enemy, eases its aim onto it and fires in bursts.
package bot

import (
	"math"
	"math/rand"

	"github.com/leap-fish/necs/esync"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/automoto/gunsync/config"
	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/inventory"
	"github.com/automoto/gunsync/shared/netcomponents"
)

// View is what the bot can see of the match.
type View interface {
	Local() *inventory.Inventory
	Pawns() []esync.NetworkId
	Pawn(id esync.NetworkId) (netcomponents.NetPawnData, bool)
	Position(id esync.NetworkId) (gamemath.Vec2, bool)
}

// Controls are the inputs the bot can press.
type Controls interface {
	StartFire()
	StopFire()
	StartReload()
	Equip(step int) error
	Aim(origin, dir gamemath.Vec2) error
}

type State int

const (
	StateIdle State = iota
	StateAiming
	StateFiring
	StatePause
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAiming:
		return "aiming"
	case StateFiring:
		return "firing"
	case StatePause:
		return "pause"
	}
	return "unknown"
}

// Bot is one frame-stepped AI. It is not safe for concurrent use.
type Bot struct {
	self esync.NetworkId
	cfg  config.BotDifficultyConfig
	rng  *rand.Rand

	state       State
	frames      int
	target      esync.NetworkId
	angle       float64
	aimTween    *gween.Tween
	sinceSwitch int
	firing      bool
}

// New returns a bot for pawn self. The seed makes aim jitter reproducible.
func New(self esync.NetworkId, difficulty config.BotDifficulty, seed int64) *Bot {
	return NewWithConfig(self, config.Bot.Difficulties[difficulty], seed)
}

func NewWithConfig(self esync.NetworkId, cfg config.BotDifficultyConfig, seed int64) *Bot {
	return &Bot{
		self: self,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (b *Bot) State() State { return b.state }
func (b *Bot) Target() esync.NetworkId { return b.target }

// Update runs one frame.
func (b *Bot) Update(view View, in Controls) {
	inv := view.Local()
	me, ok := view.Pawn(b.self)
	if inv == nil || !ok || !me.Alive {
		b.stopFire(in)
		b.state = StateIdle
		b.target = 0
		return
	}
	origin, ok := view.Position(b.self)
	if !ok {
		return
	}

	b.manageWeapon(inv, in)

	target, at, found := b.nearestEnemy(view, origin)
	if !found {
		b.stopFire(in)
		b.state = StateIdle
		b.target = 0
		b.reloadWhenLow(inv, in)
		return
	}
	want := at.Sub(origin).Angle()

	if target != b.target || b.state == StateIdle {
		b.target = target
		b.stopFire(in)
		b.startAim(want, b.cfg.ReactionDelay)
	}

	switch b.state {
	case StateAiming:
		cur, done := b.aimTween.Update(1)
		b.angle = float64(cur)
		if done {
			b.state = StateFiring
			b.frames = 0
			b.firing = true
			in.StartFire()
		}
	case StateFiring:
		b.angle = want + b.jitter()
		b.frames++
		if b.frames >= b.cfg.BurstFrames {
			b.stopFire(in)
			b.state = StatePause
			b.frames = 0
		}
	case StatePause:
		b.angle = want
		b.frames++
		b.reloadWhenLow(inv, in)
		if b.frames >= b.cfg.PauseFrames {
			b.startAim(want, b.cfg.ReactionDelay/2)
		}
	}

	_ = in.Aim(origin, gamemath.FromAngle(b.angle))
}

// startAim eases from the current angle to want along the shorter arc.
func (b *Bot) startAim(want float64, frames int) {
	end := b.angle + math.Remainder(want+b.jitter()-b.angle, 2*math.Pi)
	if frames < 1 {
		frames = 1
	}
	b.aimTween = gween.New(float32(b.angle), float32(end), float32(frames), ease.OutQuad)
	b.state = StateAiming
	b.frames = 0
}

func (b *Bot) jitter() float64 {
	if b.cfg.AimJitter <= 0 {
		return 0
	}
	return (b.rng.Float64()*2 - 1) * b.cfg.AimJitter
}

func (b *Bot) stopFire(in Controls) {
	if b.firing {
		in.StopFire()
		b.firing = false
	}
}

// manageWeapon reloads an empty clip and cycles weapons on the configured period.
func (b *Bot) manageWeapon(inv *inventory.Inventory, in Controls) {
	w := inv.CurrentWeapon()
	if w == nil {
		return
	}
	if w.CurrentAmmoInClip() == 0 && w.CurrentAmmo() > 0 && !w.PendingReload() {
		in.StartReload()
	}

	if b.cfg.SwitchEvery <= 0 {
		return
	}
	b.sinceSwitch++
	if b.sinceSwitch >= b.cfg.SwitchEvery {
		b.sinceSwitch = 0
		_ = in.Equip(1)
	}
}

func (b *Bot) reloadWhenLow(inv *inventory.Inventory, in Controls) {
	w := inv.CurrentWeapon()
	if w == nil || w.PendingReload() || w.AmmoPerClip() == 0 {
		return
	}
	frac := float64(w.CurrentAmmoInClip()) / float64(w.AmmoPerClip())
	if frac < b.cfg.ReloadBelow && w.CurrentAmmo() > w.CurrentAmmoInClip() {
		in.StartReload()
	}
}

func (b *Bot) nearestEnemy(view View, origin gamemath.Vec2) (esync.NetworkId, gamemath.Vec2, bool) {
	var (
		best     esync.NetworkId
		bestAt   gamemath.Vec2
		bestDist = math.MaxFloat64
		found    bool
	)
	for _, id := range view.Pawns() {
		if id == b.self {
			continue
		}
		p, ok := view.Pawn(id)
		if !ok || !p.Alive {
			continue
		}
		at, ok := view.Position(id)
		if !ok {
			continue
		}
		d := at.Sub(origin).Len()
		if d < bestDist {
			best, bestAt, bestDist, found = id, at, d, true
		}
	}
	return best, bestAt, found
}
