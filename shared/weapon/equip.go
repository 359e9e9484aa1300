package weapon

// OnEquip attaches the weapon to its holder. With a previous weapon the pawn
// plays the equip animation first; otherwise equipping finishes at once.
func (w *Weapon) OnEquip(previous *Weapon) {
	if w.holder == nil {
		return
	}

	w.holder.AttachWeaponToPawn(w)

	w.pendingEquip = true
	w.DetermineState()

	if previous != nil {
		duration := w.playPawnAnimation(w.cfg.Cosmetics.PawnEquipAnim)
		if duration <= 0 {
			duration = equipFailsafe
		}
		w.equipStartedTime = w.sched.Now()
		w.equipDuration = duration

		w.setTimer(&w.timerEquipFinished, w.OnEquipFinished, duration)
	} else {
		w.equipStartedTime = w.sched.Now()
		w.equipDuration = 0
		w.OnEquipFinished()
	}

	if w.locallyControlled() {
		w.playSound(w.cfg.Cosmetics.EquipSound)
	}

	w.holder.NotifyEquip(w, w.equipDuration)
}

// OnEquipFinished marks the weapon equipped and reloads an empty clip.
func (w *Weapon) OnEquipFinished() {
	w.equipped = true
	w.pendingEquip = false
	w.timerEquipFinished = 0

	w.DetermineState()

	if w.holder == nil {
		return
	}
	w.holder.AttachWeaponToPawn(w)

	if w.locallyControlled() && w.ammo.InClip <= 0 && w.CanReload() {
		w.StartReload(false)
	}
}

// OnUnequip detaches the weapon, stops firing and cancels any pending reload
// or equip together with their timers.
func (w *Weapon) OnUnequip() {
	w.DetachMesh()

	w.equipped = false

	w.StopFire()

	if w.pendingReload {
		w.stopPawnAnimation(w.cfg.Cosmetics.PawnReloadAnim)
		w.setPendingReload(false)

		w.clearTimer(&w.timerStopReload)
		w.clearTimer(&w.timerReloadWeapon)
	}

	if w.pendingEquip {
		w.stopPawnAnimation(w.cfg.Cosmetics.PawnEquipAnim)
		w.pendingEquip = false

		w.clearTimer(&w.timerEquipFinished)
	}

	if w.holder != nil {
		w.holder.NotifyUnequip(w)
	}

	w.DetermineState()
}
