package weapon

import (
	"math"

	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/netconfig"
)

// StartFire sets the fire intent. Replicas forward it to the authority and
// apply it locally without waiting.
func (w *Weapon) StartFire() {
	if !w.isAuthority() {
		w.bridge.CallServer(netconfig.RPCServerStartFire)
	}
	if !w.wantsToFire {
		w.wantsToFire = true
		w.DetermineState()
	}
}

// StopFire clears the fire intent. Only a locally controlled replica forwards it.
func (w *Weapon) StopFire() {
	if !w.isAuthority() && w.locallyControlled() {
		w.bridge.CallServer(netconfig.RPCServerStopFire)
	}
	if w.wantsToFire {
		w.wantsToFire = false
		w.DetermineState()
	}
}

// HandleFiring runs one shot attempt and, while still firing, schedules the next.
func (w *Weapon) HandleFiring() {
	local := w.locallyControlled()

	switch {
	case (w.ammo.InClip > 0 || w.HasInfiniteClip() || w.HasInfiniteAmmo()) && w.CanFire():
		if !w.bridge.IsDedicatedServer() {
			w.SimulateWeaponFire()
		}
		if local {
			w.FireWeapon()
			w.UseAmmo()
			w.bumpBurstCounter()
		}
	case w.CanReload():
		w.StartReload(false)
	case local:
		// refiring still holds the previous attempt's value here
		if w.ammo.Total == 0 && !w.refiring {
			w.playSound(w.cfg.Cosmetics.OutOfAmmoSound)
		}
		// stop fire FX but stay in Firing
		if w.burstCounter > 0 {
			w.onBurstFinished()
		}
	default:
		w.onBurstFinished()
	}

	if local {
		if !w.isAuthority() {
			w.bridge.CallServer(netconfig.RPCServerHandleFiring)
		}

		if w.ammo.InClip <= 0 && w.CanReload() {
			w.StartReload(false)
		}

		w.refiring = w.state == netconfig.WeaponFiring && w.cfg.TimeBetweenShots > 0
		if w.refiring {
			delay := math.Max(w.cfg.TimeBetweenShots+w.intervalAdjustment, refireEpsilon)
			w.setTimer(&w.timerHandleFiring, w.HandleReFiring, delay)
			w.intervalAdjustment = 0
		}
	}

	w.lastFireTime = w.sched.Now()
	w.hasFired = true
}

// HandleReFiring is the refire timer callback. The time the timer ran late
// is subtracted from the next interval when catch-up is allowed.
func (w *Weapon) HandleReFiring() {
	slack := math.Max(0, (w.sched.Now()-w.lastFireTime)-w.cfg.TimeBetweenShots)
	if w.cfg.AllowCatchup {
		w.intervalAdjustment -= slack
	}
	w.HandleFiring()
}

// ServerHandleFiring executes a forwarded shot on the authority. CanFire is
// checked again here; the consumption below is the authoritative one. A shot
// that arrives after the weapon was holstered is dropped.
func (w *Weapon) ServerHandleFiring() {
	if !w.equipped {
		w.log.Debug().Msg("shot for holstered weapon dropped")
		return
	}
	shouldUpdateAmmo := w.ammo.InClip > 0 && w.CanFire()

	w.HandleFiring()

	if shouldUpdateAmmo {
		if !w.locallyControlled() {
			w.FireWeapon()
		}
		w.UseAmmo()
		w.bumpBurstCounter()
	}
}

// bumpBurstCounter counts a shot of the running burst. Outside Firing no
// burst is running and the counter stays at zero.
func (w *Weapon) bumpBurstCounter() {
	if w.state != netconfig.WeaponFiring {
		return
	}
	w.setBurstCounter(w.burstCounter + 1)
}

// FireWeapon traces the fire mode from the holder's aim. On the authority the
// shot goes to the referee; elsewhere hits only spawn impact effects.
func (w *Weapon) FireWeapon() {
	if w.holder == nil {
		return
	}
	origin, aim := w.holder.Aim()
	mode := w.cfg.FireMode
	dirs := mode.Directions(aim)

	shot := Shot{
		Instigator: w.holder.ActorID(),
		Origin:     origin,
		Traces:     len(dirs),
		Damage:     mode.Damage,
	}
	for _, dir := range dirs {
		hit, ok := w.WeaponTrace(origin, gamemath.RayEnd(origin, dir, mode.Range))
		if !ok {
			continue
		}
		shot.Hits = append(shot.Hits, hit)
		if !w.bridge.IsDedicatedServer() {
			w.spawnImpact(hit)
		}
	}

	if w.isAuthority() && w.referee != nil {
		w.referee.ApplyShot(w, shot)
	}
}

// WeaponTrace returns the nearest hit on the weapon channel, ignoring the holder's pawn.
func (w *Weapon) WeaponTrace(from, to gamemath.Vec2) (Hit, bool) {
	if w.tracer == nil {
		return Hit{}, false
	}
	var ignore ActorID
	if w.holder != nil {
		ignore = w.holder.ActorID()
	}
	return w.tracer.Trace(from, to, netconfig.ChannelWeapon, ignore)
}

func (w *Weapon) spawnImpact(hit Hit) {
	asset, ok := w.cfg.Cosmetics.ImpactFX[hit.Material]
	if !ok || asset == "" {
		return
	}
	w.sink.SpawnImpact(asset, hit.Point, hit.Normal)
}
