// Package inventory is the pawn-side owner of weapons. An Inventory is the
// weapon.Holder every weapon talks back to: it gates fire and reload on the
// pawn being alive, plays pawn animations, reports the aim, and buffers the
// weapon notifications as events that the owning loop drains once per tick.
package inventory

import (
	"github.com/automoto/gunsync/shared/anim"
	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/weapon"
)

// EventKind identifies a buffered notification.
type EventKind int

const (
	EventStartReload EventKind = iota
	EventUpdateAmmo
	EventEquip
	EventUnequip
	EventCameraShake
	EventForceFeedback
)

var eventKindNames = map[EventKind]string{
	EventStartReload:   "start_reload",
	EventUpdateAmmo:    "update_ammo",
	EventEquip:         "equip",
	EventUnequip:       "unequip",
	EventCameraShake:   "camera_shake",
	EventForceFeedback: "force_feedback",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is one notification from a held weapon.
type Event struct {
	Kind     EventKind
	Weapon   *weapon.Weapon
	Duration float64 // reload or equip time
	InClip   int
	Total    int
	Asset    string  // camera shake or force feedback asset
	Scale    float64 // camera shake scale
}

// Inventory holds the weapons of one pawn.
type Inventory struct {
	actor    weapon.ActorID
	local    bool
	alive    bool
	infAmmo  bool
	infClip  bool
	animator *anim.Animator

	weapons []*weapon.Weapon
	current *weapon.Weapon

	origin gamemath.Vec2
	aim    gamemath.Vec2

	events []Event
}

// Option configures an Inventory.
type Option func(*Inventory)

// LocallyControlled marks the pawn as driven by this process.
func LocallyControlled() Option {
	return func(inv *Inventory) { inv.local = true }
}

// InfiniteAmmo makes every held weapon skip ammo consumption.
func InfiniteAmmo() Option {
	return func(inv *Inventory) { inv.infAmmo = true }
}

// InfiniteClip makes every held weapon drain only its clip.
func InfiniteClip() Option {
	return func(inv *Inventory) { inv.infClip = true }
}

// New returns an empty inventory for a live pawn aiming right.
func New(actor weapon.ActorID, animator *anim.Animator, opts ...Option) *Inventory {
	if animator == nil {
		animator = anim.NewAnimator(nil)
	}
	inv := &Inventory{
		actor:    actor,
		alive:    true,
		animator: animator,
		aim:      gamemath.V(1, 0),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// AddWeapon takes ownership of w. The first weapon added is equipped.
func (inv *Inventory) AddWeapon(w *weapon.Weapon) {
	for _, held := range inv.weapons {
		if held == w {
			return
		}
	}
	inv.weapons = append(inv.weapons, w)
	w.OnEnterInventory(inv)
	if inv.current == nil {
		inv.EquipWeapon(w)
	}
}

// RemoveWeapon drops w. If it was the current weapon the next remaining one
// is equipped.
func (inv *Inventory) RemoveWeapon(w *weapon.Weapon) {
	idx := inv.indexOf(w)
	if idx < 0 {
		return
	}
	wasCurrent := inv.current == w
	if wasCurrent {
		inv.current = nil
	}
	w.OnLeaveInventory()
	inv.weapons = append(inv.weapons[:idx], inv.weapons[idx+1:]...)

	if wasCurrent && len(inv.weapons) > 0 {
		inv.EquipWeapon(inv.weapons[idx%len(inv.weapons)])
	}
}

// EquipWeapon switches to w, unequipping the current weapon first. The
// previous weapon is handed to w so the equip animation plays.
func (inv *Inventory) EquipWeapon(w *weapon.Weapon) {
	if w == nil || w == inv.current || inv.indexOf(w) < 0 {
		return
	}
	prev := inv.current
	if prev != nil {
		prev.OnUnequip()
	}
	inv.current = w
	w.OnEquip(prev)
}

func (inv *Inventory) NextWeapon() { inv.cycle(1) }
func (inv *Inventory) PrevWeapon() { inv.cycle(-1) }

func (inv *Inventory) cycle(step int) {
	n := len(inv.weapons)
	if n < 2 {
		return
	}
	idx := inv.indexOf(inv.current)
	next := ((idx+step)%n + n) % n
	inv.EquipWeapon(inv.weapons[next])
}

func (inv *Inventory) indexOf(w *weapon.Weapon) int {
	for i, held := range inv.weapons {
		if held == w {
			return i
		}
	}
	return -1
}

// Weapons returns the held weapons in pickup order.
func (inv *Inventory) Weapons() []*weapon.Weapon {
	return inv.weapons
}

// FindByAmmoType returns the first held weapon that uses t.
func (inv *Inventory) FindByAmmoType(t netconfig.AmmoType) *weapon.Weapon {
	for _, w := range inv.weapons {
		if w.AmmoType() == t {
			return w
		}
	}
	return nil
}

// StartFire pulls the trigger of the current weapon.
func (inv *Inventory) StartFire() {
	if inv.current != nil {
		inv.current.StartFire()
	}
}

func (inv *Inventory) StopFire() {
	if inv.current != nil {
		inv.current.StopFire()
	}
}

func (inv *Inventory) StartReload() {
	if inv.current != nil {
		inv.current.StartReload(false)
	}
}

// Kill stops the current weapon and blocks fire and reload until Revive.
func (inv *Inventory) Kill() {
	if !inv.alive {
		return
	}
	inv.StopFire()
	inv.alive = false
}

func (inv *Inventory) Revive() {
	inv.alive = true
}

func (inv *Inventory) Alive() bool { return inv.alive }

// SetAim sets the muzzle origin and aim direction used by the next shot.
func (inv *Inventory) SetAim(origin, dir gamemath.Vec2) {
	inv.origin = origin
	if dir.Len() > 0 {
		inv.aim = dir.Normalize()
	}
}

// SetLocallyControlled changes who drives the pawn, e.g. when a replica
// learns it belongs to the local player.
func (inv *Inventory) SetLocallyControlled(local bool) {
	inv.local = local
}

// Update advances pawn animations.
func (inv *Inventory) Update(dt float64) {
	inv.animator.Update(dt)
}

// DrainEvents returns and clears the buffered notifications.
func (inv *Inventory) DrainEvents() []Event {
	out := inv.events
	inv.events = nil
	return out
}

func (inv *Inventory) Animator() *anim.Animator { return inv.animator }

// weapon.Holder

func (inv *Inventory) ActorID() weapon.ActorID { return inv.actor }
func (inv *Inventory) CanFire() bool { return inv.alive }
func (inv *Inventory) CanReload() bool { return inv.alive }
func (inv *Inventory) HasInfiniteAmmo() bool { return inv.infAmmo }
func (inv *Inventory) HasInfiniteClip() bool { return inv.infClip }
func (inv *Inventory) IsLocallyControlled() bool { return inv.local }
func (inv *Inventory) CurrentWeapon() *weapon.Weapon { return inv.current }

func (inv *Inventory) PlayPawnAnimation(clip string) float64 {
	return inv.animator.Play(clip)
}

func (inv *Inventory) StopPawnAnimation(clip string) {
	inv.animator.Stop(clip)
}

func (inv *Inventory) AttachWeaponToPawn(w *weapon.Weapon) {
	w.AttachMesh()
}

func (inv *Inventory) PlayCameraShake(asset string, scale float64) {
	inv.events = append(inv.events, Event{Kind: EventCameraShake, Asset: asset, Scale: scale, Weapon: inv.current})
}

func (inv *Inventory) PlayForceFeedback(asset string) {
	inv.events = append(inv.events, Event{Kind: EventForceFeedback, Asset: asset, Weapon: inv.current})
}

func (inv *Inventory) Aim() (gamemath.Vec2, gamemath.Vec2) {
	return inv.origin, inv.aim
}

func (inv *Inventory) NotifyStartReload(w *weapon.Weapon, duration float64) {
	inv.events = append(inv.events, Event{Kind: EventStartReload, Weapon: w, Duration: duration})
}

func (inv *Inventory) NotifyUpdateAmmo(w *weapon.Weapon, inClip, total int) {
	inv.events = append(inv.events, Event{Kind: EventUpdateAmmo, Weapon: w, InClip: inClip, Total: total})
}

func (inv *Inventory) NotifyEquip(w *weapon.Weapon, duration float64) {
	inv.events = append(inv.events, Event{Kind: EventEquip, Weapon: w, Duration: duration})
}

func (inv *Inventory) NotifyUnequip(w *weapon.Weapon) {
	inv.events = append(inv.events, Event{Kind: EventUnequip, Weapon: w})
}
