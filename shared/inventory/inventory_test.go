package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automoto/gunsync/shared/anim"
	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/timer"
	"github.com/automoto/gunsync/shared/weapon"
)

func testConfig(name string, ammo netconfig.AmmoType) *weapon.Config {
	return &weapon.Config{
		Name:                 name,
		AmmoPerClip:          10,
		MaxAmmo:              40,
		InitialClips:         2,
		AmmoType:             ammo,
		TimeBetweenShots:     0.2,
		NoAnimReloadDuration: 1,
		FireMode:             weapon.FireMode{Kind: weapon.FireHitscan, Range: 100, Damage: 5},
		Cosmetics: weapon.Cosmetics{
			PawnEquipAnim:  "equip",
			PawnReloadAnim: "reload",
		},
	}
}

func setup(t *testing.T) (*Inventory, *timer.Scheduler, *weapon.Weapon, *weapon.Weapon) {
	t.Helper()
	sched := timer.NewScheduler()
	animator := anim.NewAnimator(map[string]float64{"equip": 0.4, "reload": 1.2})
	inv := New(5, animator, LocallyControlled())

	rifle := weapon.New(1, testConfig("rifle", netconfig.AmmoBullet), weapon.Deps{Scheduler: sched})
	shotgun := weapon.New(2, testConfig("shotgun", netconfig.AmmoShell), weapon.Deps{Scheduler: sched})
	inv.AddWeapon(rifle)
	inv.AddWeapon(shotgun)
	return inv, sched, rifle, shotgun
}

func TestAddWeapon_FirstIsEquippedAtOnce(t *testing.T) {
	inv, _, rifle, shotgun := setup(t)

	assert.Same(t, rifle, inv.CurrentWeapon())
	assert.True(t, rifle.IsEquipped())
	assert.True(t, rifle.IsMeshVisible())
	assert.False(t, shotgun.IsAttachedToPawn())
	assert.Same(t, inv, shotgun.Holder())

	inv.AddWeapon(rifle)
	assert.Len(t, inv.Weapons(), 2)
}

func TestEquipWeapon_PlaysEquipAnimation(t *testing.T) {
	inv, sched, rifle, shotgun := setup(t)
	inv.DrainEvents()

	inv.NextWeapon()

	assert.Same(t, shotgun, inv.CurrentWeapon())
	assert.False(t, rifle.IsAttachedToPawn())
	assert.Equal(t, netconfig.WeaponEquipping, shotgun.State())
	assert.True(t, inv.Animator().Playing("equip"))

	events := inv.DrainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventUnequip, events[0].Kind)
	assert.Same(t, rifle, events[0].Weapon)
	assert.Equal(t, EventEquip, events[1].Kind)
	assert.InDelta(t, 0.4, events[1].Duration, 1e-9)

	sched.Advance(0.4)
	assert.True(t, shotgun.IsEquipped())
}

func TestCycle_WrapsAround(t *testing.T) {
	inv, _, rifle, shotgun := setup(t)

	inv.PrevWeapon()
	assert.Same(t, shotgun, inv.CurrentWeapon())
	inv.PrevWeapon()
	assert.Same(t, rifle, inv.CurrentWeapon())
}

func TestRemoveWeapon_EquipsNext(t *testing.T) {
	inv, _, rifle, shotgun := setup(t)

	inv.RemoveWeapon(rifle)

	assert.Nil(t, rifle.Holder())
	assert.Same(t, shotgun, inv.CurrentWeapon())
	assert.True(t, shotgun.IsEquipped())
	assert.Len(t, inv.Weapons(), 1)
}

func TestFindByAmmoType(t *testing.T) {
	inv, _, _, shotgun := setup(t)

	assert.Same(t, shotgun, inv.FindByAmmoType(netconfig.AmmoShell))
	assert.Nil(t, inv.FindByAmmoType(netconfig.AmmoRocket))
}

func TestKill_BlocksFireAndReload(t *testing.T) {
	inv, sched, rifle, _ := setup(t)
	inv.StartFire()
	require.Equal(t, netconfig.WeaponFiring, rifle.State())

	inv.Kill()
	assert.Equal(t, netconfig.WeaponIdle, rifle.State())
	assert.False(t, inv.CanFire())

	inv.StartFire()
	assert.Equal(t, netconfig.WeaponIdle, rifle.State())

	inv.Revive()
	sched.Advance(1)
	inv.StopFire()
	inv.StartFire()
	assert.Equal(t, netconfig.WeaponFiring, rifle.State())
}

func TestReload_UsesPawnAnimationAndNotifies(t *testing.T) {
	inv, sched, rifle, _ := setup(t)
	inv.StartFire()
	inv.StopFire()
	inv.DrainEvents()

	inv.StartReload()

	events := inv.DrainEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, EventStartReload, events[0].Kind)
	assert.InDelta(t, 1.2, events[0].Duration, 1e-9)

	sched.Advance(1.1)
	inv.Update(1.1)
	assert.Equal(t, 10, rifle.CurrentAmmoInClip())

	var ammo *Event
	for _, e := range inv.DrainEvents() {
		if e.Kind == EventUpdateAmmo {
			ammo = &e
		}
	}
	require.NotNil(t, ammo)
	assert.Equal(t, 10, ammo.InClip)
	assert.Equal(t, 19, ammo.Total)
}

func TestSetAim_NormalizesDirection(t *testing.T) {
	inv := New(1, nil)
	inv.SetAim(gamemath.V(3, 4), gamemath.V(0, 5))

	origin, dir := inv.Aim()
	assert.Equal(t, gamemath.V(3, 4), origin)
	assert.InDelta(t, 1, dir.Y, 1e-9)

	inv.SetAim(origin, gamemath.Vec2{})
	_, dir = inv.Aim()
	assert.InDelta(t, 1, dir.Y, 1e-9)
}

func TestInfiniteFlags(t *testing.T) {
	inv := New(1, nil, InfiniteAmmo(), InfiniteClip())
	assert.True(t, inv.HasInfiniteAmmo())
	assert.True(t, inv.HasInfiniteClip())
	assert.False(t, inv.IsLocallyControlled())
	assert.Equal(t, "update_ammo", EventUpdateAmmo.String())
}
