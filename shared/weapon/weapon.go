// Package weapon implements the networked weapon state machine: the ammo
// ledger, fire-rate timing with catch-up, reload and equip choreography, and
// the client/server call and replication rules that keep replicas in step.
//
// A Weapon is single-threaded. It is driven by input calls, by callbacks of
// the Scheduler it was built with, and by inbound RPCs and replicated fields
// applied between ticks.
package weapon

import (
	"github.com/rs/zerolog"

	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/timer"
)

const (
	// equipFailsafe is the equip time when the pawn has no equip animation.
	equipFailsafe = 0.5
	// refireEpsilon is the shortest refire delay the scheduler accepts.
	refireEpsilon = 1e-8
	// reloadLead is how much earlier than the reload animation end the ammo is credited.
	reloadLead = 0.1
	// fireSoundFadeOut is the fade applied to a looped fire sound when a burst ends.
	fireSoundFadeOut = 0.1
)

// Deps are the collaborators of a weapon. Scheduler is required; the rest
// default to no-ops (Bridge defaults to Standalone).
type Deps struct {
	Scheduler *timer.Scheduler
	Bridge    Bridge
	Sink      Sink
	Tracer    Tracer
	Referee   Referee
	Logger    zerolog.Logger
}

// Weapon is one weapon actor.
type Weapon struct {
	id  uint
	cfg *Config

	holder  Holder
	sched   *timer.Scheduler
	bridge  Bridge
	sink    Sink
	tracer  Tracer
	referee Referee
	log     zerolog.Logger

	state        netconfig.WeaponState
	ammo         Ammo
	burstCounter int32

	wantsToFire   bool
	pendingReload bool
	pendingEquip  bool
	equipped      bool
	refiring      bool

	lastFireTime       float64
	hasFired           bool
	intervalAdjustment float64
	equipStartedTime   float64
	equipDuration      float64

	muzzleFX        FXHandle
	fireSound       FXHandle
	playingFireAnim bool
	meshVisible     bool
	destroyed       bool

	timerHandleFiring  timer.Handle
	timerStopReload    timer.Handle
	timerReloadWeapon  timer.Handle
	timerEquipFinished timer.Handle
}

// New spawns a weapon of type cfg. The ledger is seeded from InitialClips and
// the mesh starts detached.
func New(id uint, cfg *Config, deps Deps) *Weapon {
	w := &Weapon{
		id:      id,
		cfg:     cfg,
		sched:   deps.Scheduler,
		bridge:  deps.Bridge,
		sink:    deps.Sink,
		tracer:  deps.Tracer,
		referee: deps.Referee,
		log:     deps.Logger.With().Uint("weapon", id).Str("type", cfg.Name).Logger(),
		state:   netconfig.WeaponIdle,
		ammo:    SeedAmmo(cfg),
	}
	if w.sched == nil {
		w.sched = timer.NewScheduler()
	}
	if w.bridge == nil {
		w.bridge = Standalone{}
	}
	if w.sink == nil {
		w.sink = nopSink{}
	}
	w.DetachMesh()
	return w
}

func (w *Weapon) ID() uint { return w.id }
func (w *Weapon) Config() *Config { return w.cfg }
func (w *Weapon) State() netconfig.WeaponState { return w.state }
func (w *Weapon) Role() netconfig.Role { return w.bridge.Role() }
func (w *Weapon) Holder() Holder { return w.holder }
func (w *Weapon) AmmoType() netconfig.AmmoType { return w.cfg.AmmoType }
func (w *Weapon) CurrentAmmo() int { return w.ammo.Total }
func (w *Weapon) CurrentAmmoInClip() int { return w.ammo.InClip }
func (w *Weapon) AmmoPerClip() int { return w.cfg.AmmoPerClip }
func (w *Weapon) MaxAmmo() int { return w.cfg.MaxAmmo }
func (w *Weapon) BurstCounter() int32 { return w.burstCounter }
func (w *Weapon) PendingReload() bool { return w.pendingReload }
func (w *Weapon) WantsToFire() bool { return w.wantsToFire }
func (w *Weapon) IsEquipped() bool { return w.equipped }
func (w *Weapon) IsMeshVisible() bool { return w.meshVisible }
func (w *Weapon) LastFireTime() float64 { return w.lastFireTime }
func (w *Weapon) EquipStartedTime() float64 { return w.equipStartedTime }
func (w *Weapon) EquipDuration() float64 { return w.equipDuration }
func (w *Weapon) IsDestroyed() bool { return w.destroyed }

// IsAttachedToPawn reports whether the weapon is equipped or being equipped.
func (w *Weapon) IsAttachedToPawn() bool {
	return w.equipped || w.pendingEquip
}

func (w *Weapon) HasInfiniteAmmo() bool {
	return w.cfg.InfiniteAmmo || (w.holder != nil && w.holder.HasInfiniteAmmo())
}

func (w *Weapon) HasInfiniteClip() bool {
	return w.cfg.InfiniteClip || (w.holder != nil && w.holder.HasInfiniteClip())
}

// SetOwningComponent points the weapon at a new holder. A weapon still
// attached to its previous holder is unequipped from it first.
func (w *Weapon) SetOwningComponent(h Holder) {
	if w.holder == h {
		return
	}
	if w.holder != nil && w.IsAttachedToPawn() {
		w.OnUnequip()
	}
	w.holder = h
}

func (w *Weapon) OnEnterInventory(h Holder) {
	w.SetOwningComponent(h)
}

// OnLeaveInventory unequips the weapon if attached. Only the authority drops
// the holder reference; replicas wait for the holder to replicate.
func (w *Weapon) OnLeaveInventory() {
	if w.IsAttachedToPawn() {
		w.OnUnequip()
	}
	if w.isAuthority() {
		w.SetOwningComponent(nil)
	}
}

// ApplyReplicatedHolder applies a replicated holder reference on a replica.
func (w *Weapon) ApplyReplicatedHolder(h Holder) {
	if h != nil {
		w.OnEnterInventory(h)
		return
	}
	if w.IsAttachedToPawn() {
		w.OnUnequip()
	}
	w.holder = nil
}

func (w *Weapon) AttachMesh() {
	w.meshVisible = true
	w.sink.SetMeshVisible(true)
}

func (w *Weapon) DetachMesh() {
	w.meshVisible = false
	w.sink.SetMeshVisible(false)
}

// Destroy force-stops fire simulation and cancels every pending callback.
func (w *Weapon) Destroy() {
	if w.destroyed {
		return
	}
	w.StopSimulatingWeaponFire()
	w.clearTimer(&w.timerHandleFiring)
	w.clearTimer(&w.timerStopReload)
	w.clearTimer(&w.timerReloadWeapon)
	w.clearTimer(&w.timerEquipFinished)
	w.destroyed = true
	w.log.Debug().Msg("weapon destroyed")
}

func (w *Weapon) isAuthority() bool {
	return w.bridge.Role() == netconfig.RoleAuthority
}

func (w *Weapon) locallyControlled() bool {
	return w.holder != nil && w.holder.IsLocallyControlled()
}

// setTimer clears h before scheduling so a handle never has two pending callbacks.
func (w *Weapon) setTimer(h *timer.Handle, cb func(), delay float64) {
	w.sched.ClearTimer(*h)
	*h = w.sched.SetTimer(cb, delay, false)
}

func (w *Weapon) clearTimer(h *timer.Handle) {
	w.sched.ClearTimer(*h)
	*h = 0
}
