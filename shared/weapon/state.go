package weapon

import "github.com/automoto/gunsync/shared/netconfig"

// CanFire reports whether the holder permits firing and the weapon is idle
// or already firing with no reload pending.
func (w *Weapon) CanFire() bool {
	holderOK := w.holder != nil && w.holder.CanFire()
	return holderOK && w.stateOKToAct() && !w.pendingReload
}

// CanReload reports whether the holder permits reloading, the clip has room,
// spare rounds exist (or the clip is infinite) and the weapon is idle or firing.
func (w *Weapon) CanReload() bool {
	holderOK := w.holder == nil || w.holder.CanReload()
	gotAmmo := w.ammo.CanReload(w.cfg.AmmoPerClip, w.HasInfiniteClip())
	return holderOK && gotAmmo && w.stateOKToAct()
}

func (w *Weapon) stateOKToAct() bool {
	return w.state == netconfig.WeaponIdle || w.state == netconfig.WeaponFiring
}

// DetermineState re-evaluates the state from the intent flags. A pending
// reload that is no longer allowed keeps the current state.
func (w *Weapon) DetermineState() {
	next := netconfig.WeaponIdle

	if w.equipped {
		if w.pendingReload {
			if !w.CanReload() {
				next = w.state
			} else {
				next = netconfig.WeaponReloading
			}
		} else if w.wantsToFire && w.CanFire() {
			next = netconfig.WeaponFiring
		}
	} else if w.pendingEquip {
		next = netconfig.WeaponEquipping
	}

	w.setState(next)
}

func (w *Weapon) setState(next netconfig.WeaponState) {
	prev := w.state

	if prev == netconfig.WeaponFiring && next != netconfig.WeaponFiring {
		w.onBurstFinished()
	}

	w.state = next
	if prev != next {
		w.log.Debug().
			Stringer("from", prev).
			Stringer("to", next).
			Int("clip", w.ammo.InClip).
			Int("ammo", w.ammo.Total).
			Msg("state")
	}

	if prev != netconfig.WeaponFiring && next == netconfig.WeaponFiring {
		w.onBurstStarted()
	}
}

// onBurstStarted fires now, or after the remainder of TimeBetweenShots since
// the last shot.
func (w *Weapon) onBurstStarted() {
	now := w.sched.Now()
	tbs := w.cfg.TimeBetweenShots
	if w.hasFired && tbs > 0 && w.lastFireTime+tbs > now {
		w.setTimer(&w.timerHandleFiring, w.HandleFiring, w.lastFireTime+tbs-now)
		return
	}
	w.HandleFiring()
}

func (w *Weapon) onBurstFinished() {
	w.setBurstCounter(0)
	w.StopSimulatingWeaponFire()

	w.clearTimer(&w.timerHandleFiring)
	w.refiring = false
	w.intervalAdjustment = 0
}
