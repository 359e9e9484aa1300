package weapon

import (
	"math"

	"github.com/automoto/gunsync/shared/netconfig"
)

// StartReload begins a reload. A reload echoed by replication is honoured
// without the CanReload check and is never forwarded; an observer's copy
// enters Reloading whatever its ammo shows.
func (w *Weapon) StartReload(fromReplication bool) {
	if !fromReplication && !w.isAuthority() {
		w.bridge.CallServer(netconfig.RPCServerStartReload)
	}
	if !fromReplication && !w.CanReload() {
		return
	}

	w.setPendingReload(true)
	if fromReplication && w.equipped && !w.locallyControlled() {
		// an observer's ledger is only the spawn seed
		w.setState(netconfig.WeaponReloading)
	} else {
		w.DetermineState()
	}

	duration := w.playPawnAnimation(w.cfg.Cosmetics.PawnReloadAnim)
	if duration <= 0 {
		duration = w.cfg.NoAnimReloadDuration
	}

	// ammo timer first so it wins a tie with the stop timer
	if w.isAuthority() {
		w.setTimer(&w.timerReloadWeapon, w.ReloadWeapon, math.Max(reloadLead, duration-reloadLead))
	}
	w.setTimer(&w.timerStopReload, w.StopReload, duration)

	w.playWeaponAnimation(w.cfg.Cosmetics.WeaponReloadAnim, false)

	if w.locallyControlled() {
		w.playSound(w.cfg.Cosmetics.ReloadSound)
		w.holder.NotifyStartReload(w, duration)
	}
}

// StopReload ends a reload. It does nothing unless the weapon is Reloading.
func (w *Weapon) StopReload() {
	if w.state != netconfig.WeaponReloading {
		return
	}
	if !w.isAuthority() && w.locallyControlled() {
		w.bridge.CallServer(netconfig.RPCServerStopReload)
	}
	w.endReload()
}

// endReload clears the reload and its presentation whatever the state.
func (w *Weapon) endReload() {
	w.clearTimer(&w.timerStopReload)
	w.setPendingReload(false)
	w.DetermineState()
	w.stopPawnAnimation(w.cfg.Cosmetics.PawnReloadAnim)
}

// ReloadWeapon credits the clip. It runs on the authority only, slightly
// before the reload animation ends.
func (w *Weapon) ReloadWeapon() {
	moved := w.ammo.Reload(w.cfg.AmmoPerClip, w.HasInfiniteClip())
	if w.referee != nil && moved > 0 {
		w.referee.ReloadApplied(w, moved)
	}
	w.ammoChanged(w.locallyControlled())
}

// ClientStartReload asks the owning client to reload. An authority that
// controls the weapon itself reloads locally.
func (w *Weapon) ClientStartReload() {
	if w.isAuthority() && !w.locallyControlled() {
		w.bridge.CallClient(netconfig.RPCClientStartReload)
		return
	}
	w.StartReload(false)
}

// GiveAmmo adds rounds up to MaxAmmo and returns how many were added. An
// empty clip on the holder's current weapon triggers a reload.
func (w *Weapon) GiveAmmo(amount int) int {
	added := w.ammo.Give(amount, w.cfg.MaxAmmo)

	if w.ammo.InClip <= 0 && w.CanReload() && w.holder != nil && w.holder.CurrentWeapon() == w {
		w.ClientStartReload()
	}

	w.ammoChanged(true)
	return added
}

// UseAmmo consumes one round.
func (w *Weapon) UseAmmo() {
	w.ammo.Use(w.HasInfiniteAmmo(), w.HasInfiniteClip())
	w.ammoChanged(true)
}

// ammoChanged replicates the ledger from the authority and optionally tells the holder.
func (w *Weapon) ammoChanged(notifyHolder bool) {
	if w.isAuthority() {
		w.bridge.Replicate(netconfig.FieldCurrentAmmo, int32(w.ammo.Total))
		w.bridge.Replicate(netconfig.FieldCurrentAmmoInClip, int32(w.ammo.InClip))
	}
	if notifyHolder && w.holder != nil {
		w.holder.NotifyUpdateAmmo(w, w.ammo.InClip, w.ammo.Total)
	}
}

// MarkAmmoDirty re-sends the ledger to the owner, acknowledging forwarded
// shots that changed nothing.
func (w *Weapon) MarkAmmoDirty() {
	if w.isAuthority() {
		w.ammoChanged(false)
	}
}
