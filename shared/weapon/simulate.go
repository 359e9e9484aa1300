package weapon

import "github.com/automoto/gunsync/shared/netconfig"

// SimulateWeaponFire plays the fire feedback of one shot. Looped muzzle FX,
// fire animation and fire sound are started once per burst.
func (w *Weapon) SimulateWeaponFire() {
	if w.isAuthority() && w.state != netconfig.WeaponFiring {
		return
	}
	c := &w.cfg.Cosmetics

	if c.MuzzleFX != "" {
		if !c.LoopedMuzzleFX || w.muzzleFX == 0 {
			w.muzzleFX = w.sink.SpawnAttachedParticle(c.MuzzleFX, w.cfg.MuzzleAttachPoint)
		}
	}

	if !c.LoopedFireAnim || !w.playingFireAnim {
		w.playPawnAnimation(c.PawnFireAnim)
		w.playWeaponAnimation(c.WeaponFireAnim, false)

		if c.WeaponFireAnim != "" || c.PawnFireAnim != "" {
			w.playingFireAnim = true
		}
	}

	if c.LoopedFireSound {
		if w.fireSound == 0 {
			w.fireSound = w.playSound(c.FireLoopSound)
		}
	} else {
		w.playSound(c.FireSound)
	}

	if w.locallyControlled() {
		if c.FireCameraShake != "" {
			w.holder.PlayCameraShake(c.FireCameraShake, 1)
		}
		if c.FireForceFeedback != "" {
			w.holder.PlayForceFeedback(c.FireForceFeedback)
		}
	}
}

// StopSimulatingWeaponFire ends looped fire feedback and plays the fire-finish sound.
func (w *Weapon) StopSimulatingWeaponFire() {
	c := &w.cfg.Cosmetics

	if c.LoopedMuzzleFX && w.muzzleFX != 0 {
		w.sink.DeactivateParticle(w.muzzleFX)
		w.muzzleFX = 0
	}

	if c.LoopedFireAnim && w.playingFireAnim && w.holder != nil {
		w.holder.StopPawnAnimation(c.PawnFireAnim)
		w.playingFireAnim = false
	}

	if w.fireSound != 0 {
		w.sink.FadeOutSound(w.fireSound, fireSoundFadeOut)
		w.fireSound = 0

		w.playSound(c.FireFinishSound)
	}
}

func (w *Weapon) playSound(cue string) FXHandle {
	if cue == "" || w.holder == nil {
		return 0
	}
	return w.sink.PlayEffect(cue)
}

func (w *Weapon) playWeaponAnimation(asset string, looped bool) {
	if asset == "" {
		return
	}
	w.sink.PlayAnimation(asset, looped)
}

func (w *Weapon) playPawnAnimation(clip string) float64 {
	if clip == "" || w.holder == nil {
		return 0
	}
	return w.holder.PlayPawnAnimation(clip)
}

func (w *Weapon) stopPawnAnimation(clip string) {
	if clip == "" || w.holder == nil {
		return
	}
	w.holder.StopPawnAnimation(clip)
}
