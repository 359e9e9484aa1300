package weapon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/timer"
)

func TestNew_SeedsAmmoFromInitialClips(t *testing.T) {
	cfg := rifleConfig()
	w := New(1, cfg, Deps{})

	assert.Equal(t, 30, w.CurrentAmmoInClip())
	assert.Equal(t, 90, w.CurrentAmmo())
	assert.Equal(t, netconfig.WeaponIdle, w.State())
	assert.False(t, w.IsMeshVisible())
	assert.Equal(t, netconfig.RoleAuthority, w.Role())
}

func TestNew_NoInitialClipsStartsEmpty(t *testing.T) {
	cfg := rifleConfig()
	cfg.InitialClips = 0
	w := New(1, cfg, Deps{})

	assert.Zero(t, w.CurrentAmmo())
	assert.Zero(t, w.CurrentAmmoInClip())
}

func TestEquip_WithoutPreviousFinishesImmediately(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	assert.True(t, r.w.IsEquipped())
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.True(t, r.s.visible)
	assert.Equal(t, []float64{0}, r.h.equipNotices)
}

func TestEquip_WithPreviousPlaysEquipAnimation(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.OnUnequip()
	r.h.anims["equip"] = 0.7

	other := New(8, rifleConfig(), Deps{Scheduler: r.sched})
	r.w.OnEquip(other)

	assert.Equal(t, netconfig.WeaponEquipping, r.w.State())
	assert.InDelta(t, 0.7, r.w.EquipDuration(), 1e-9)
	assert.InDelta(t, 0.7, r.h.equipNotices[len(r.h.equipNotices)-1], 1e-9)

	r.sched.AdvanceTo(0.69)
	assert.False(t, r.w.IsEquipped())

	r.sched.AdvanceTo(0.7)
	assert.True(t, r.w.IsEquipped())
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
}

func TestEquip_FailsafeDurationWithoutAnimation(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.OnUnequip()

	r.w.OnEquip(New(8, rifleConfig(), Deps{Scheduler: r.sched}))
	assert.InDelta(t, equipFailsafe, r.w.EquipDuration(), 1e-9)

	r.sched.Advance(equipFailsafe)
	assert.True(t, r.w.IsEquipped())
}

func TestUnequip_DuringEquipCancelsTimer(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.OnUnequip()
	r.w.OnEquip(New(8, rifleConfig(), Deps{Scheduler: r.sched}))
	require.Equal(t, netconfig.WeaponEquipping, r.w.State())

	r.w.OnUnequip()
	assert.Equal(t, 0, r.sched.Pending())
	assert.Contains(t, r.h.stopped, "equip")
	assert.False(t, r.s.visible)

	r.sched.Advance(5)
	assert.False(t, r.w.IsEquipped())
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
}

func TestFire_ConsumesAmmoAndStartsBurst(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	r.w.StartFire()

	assert.Equal(t, netconfig.WeaponFiring, r.w.State())
	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
	assert.Equal(t, 89, r.w.CurrentAmmo())
	assert.Equal(t, int32(1), r.w.BurstCounter())
	assert.Equal(t, 1, r.s.count("rifle_fire"))
	assert.Equal(t, 1, r.h.shakes)
	require.Len(t, r.ref.shots, 1)
	assert.Equal(t, ActorID(1), r.ref.shots[0].Instigator)
}

func TestFire_RefireWithinTimeBetweenShotsIsDeferred(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	r.w.StartFire()
	require.Equal(t, 29, r.w.CurrentAmmoInClip())

	r.sched.AdvanceTo(0.02)
	r.w.StopFire()
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.Zero(t, r.w.BurstCounter())

	r.sched.AdvanceTo(0.05)
	r.w.StartFire()
	assert.Equal(t, netconfig.WeaponFiring, r.w.State())
	assert.Equal(t, 29, r.w.CurrentAmmoInClip(), "second shot must wait for the interval")

	r.sched.AdvanceTo(0.0999)
	assert.Equal(t, 29, r.w.CurrentAmmoInClip())

	r.sched.AdvanceTo(0.1)
	assert.Equal(t, 28, r.w.CurrentAmmoInClip())
}

func TestFire_FirstShotAtTimeZeroStillRateLimits(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	r.w.StartFire()
	r.w.StopFire()
	r.w.StartFire()

	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
}

func TestFire_StartFireTwiceDoesNotDoubleSchedule(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	r.w.StartFire()
	pending := r.sched.Pending()
	r.w.StartFire()

	assert.Equal(t, 1, pending)
	assert.Equal(t, pending, r.sched.Pending())
	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
}

func TestFire_AutomaticRate(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	r.w.StartFire()
	r.sched.AdvanceTo(0.95)

	assert.Equal(t, 20, r.w.CurrentAmmoInClip())
	assert.Equal(t, netconfig.WeaponFiring, r.w.State())
}

func TestFire_NoRateLimitFiresOncePerBurst(t *testing.T) {
	cfg := rifleConfig()
	cfg.TimeBetweenShots = 0
	r := newRig(t, cfg, netconfig.RoleAuthority)

	r.w.StartFire()
	r.sched.Advance(1)

	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
	assert.Zero(t, r.sched.Pending())
}

func TestFire_CatchupKeepsLongRunRate(t *testing.T) {
	shots := func(catchup bool) int {
		cfg := rifleConfig()
		cfg.AmmoPerClip, cfg.MaxAmmo, cfg.InitialClips = 100, 100, 1
		cfg.AllowCatchup = catchup
		r := newRig(t, cfg, netconfig.RoleAuthority, timer.WithFrameClock())

		r.w.StartFire()
		for i := 1; i <= 99; i++ {
			r.sched.AdvanceTo(float64(i) * 0.03)
		}
		return 100 - r.w.CurrentAmmoInClip()
	}

	without := shots(false)
	with := shots(true)

	assert.Equal(t, 25, without, "every interval rounds up to 0.12s")
	assert.GreaterOrEqual(t, with, 28)
	assert.Greater(t, with, without)
}

func TestFire_HolderRefusesFire(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.h.canFire = false

	r.w.StartFire()

	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.Equal(t, 30, r.w.CurrentAmmoInClip())
}

func TestFire_LastRoundStartsReload(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{Total: 20, InClip: 1}

	r.w.StartFire()

	assert.Equal(t, 0, r.w.CurrentAmmoInClip())
	assert.Equal(t, netconfig.WeaponReloading, r.w.State())
	assert.Zero(t, r.w.BurstCounter())
	assert.Equal(t, []float64{1.0}, r.h.reloadNotices)
}

func TestFire_EmptyClipRedirectsToReload(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{Total: 10, InClip: 0}

	r.w.StartFire()

	assert.Equal(t, netconfig.WeaponReloading, r.w.State())
	assert.Equal(t, 10, r.w.CurrentAmmo())
}

func TestFire_OutOfAmmoCuePlaysOncePerTriggerPull(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{}

	r.w.StartFire()
	r.sched.Advance(0.55)

	assert.Equal(t, 1, r.s.count("dry_fire"))
	assert.Equal(t, netconfig.WeaponFiring, r.w.State())
	assert.Zero(t, r.w.BurstCounter())

	r.w.StopFire()
	r.w.StartFire()
	r.sched.Advance(0.1)
	assert.Equal(t, 2, r.s.count("dry_fire"))
}

func TestFire_SpreadTracesEveryPellet(t *testing.T) {
	cfg := rifleConfig()
	cfg.FireMode = FireMode{Kind: FireSpread, Range: 200, Damage: 4, Pellets: 5, Spread: 0.4}
	r := newRig(t, cfg, netconfig.RoleAuthority)
	r.tracer.hit = Hit{Actor: 9, Material: "flesh", Point: gamemath.V(50, 0)}

	r.w.StartFire()

	assert.Equal(t, 5, r.tracer.calls)
	require.Len(t, r.ref.shots, 1)
	assert.Equal(t, 5, r.ref.shots[0].Traces)
	assert.Len(t, r.ref.shots[0].Hits, 5)
	assert.Equal(t, 4, r.ref.shots[0].Damage)
}

func TestFire_ReplicaSpawnsImpactsWithoutReferee(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAutonomousProxy)
	r.tracer.hit = Hit{Material: "concrete", Point: gamemath.V(80, 0)}

	r.w.StartFire()

	assert.Equal(t, []string{"spark"}, r.s.impacts)
	assert.Empty(t, r.ref.shots)
}

func TestReload_CreditsClipBeforeAnimationEnds(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{Total: 10, InClip: 0}
	require.True(t, r.w.CanReload())

	r.w.StartReload(false)
	assert.Equal(t, netconfig.WeaponReloading, r.w.State())
	assert.True(t, r.w.PendingReload())

	r.sched.AdvanceTo(0.85)
	assert.Equal(t, 0, r.w.CurrentAmmoInClip())

	r.sched.AdvanceTo(0.9)
	assert.Equal(t, 10, r.w.CurrentAmmoInClip())
	assert.Equal(t, netconfig.WeaponReloading, r.w.State())
	assert.Equal(t, []int{10}, r.ref.reloads)

	r.sched.AdvanceTo(1.0)
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.False(t, r.w.PendingReload())
	assert.Contains(t, r.h.stopped, "reload")
}

func TestReload_UsesAnimationDuration(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.h.anims["reload"] = 2.0
	r.w.ammo = Ammo{Total: 60, InClip: 12}

	r.w.StartReload(false)
	r.sched.AdvanceTo(1.85)
	assert.Equal(t, 12, r.w.CurrentAmmoInClip())

	r.sched.AdvanceTo(1.9)
	assert.Equal(t, 30, r.w.CurrentAmmoInClip())
	assert.Equal(t, 60, r.w.CurrentAmmo())
}

func TestReload_ShortAnimationCreditsAmmoFirst(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.h.anims["reload"] = 0.1
	r.w.ammo = Ammo{Total: 40, InClip: 0}

	r.w.StartReload(false)
	r.sched.AdvanceTo(0.1)

	require.Equal(t, []int{30}, r.ref.reloads)
	assert.Equal(t, 30, r.w.CurrentAmmoInClip())
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
}

func TestReload_InfiniteClipTopsUpWithoutReserve(t *testing.T) {
	cfg := rifleConfig()
	cfg.InfiniteClip = true
	r := newRig(t, cfg, netconfig.RoleAuthority)
	r.w.ammo = Ammo{Total: 5, InClip: 5}

	r.w.ReloadWeapon()

	assert.Equal(t, 30, r.w.CurrentAmmoInClip())
	assert.GreaterOrEqual(t, r.w.CurrentAmmo(), 30)
}

func TestReload_RefusedWhenClipFull(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	r.w.StartReload(false)

	assert.False(t, r.w.PendingReload())
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.Zero(t, r.sched.Pending())
}

func TestReload_StopReloadWhenNotReloadingIsNoop(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAutonomousProxy)

	r.w.StopReload()
	r.w.StopReload()

	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.Empty(t, r.b.server)
	assert.Empty(t, r.h.stopped)
}

func TestReload_PendingButDisallowedKeepsState(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{Total: 10, InClip: 0}
	r.w.StartReload(false)
	require.Equal(t, netconfig.WeaponReloading, r.w.State())

	r.h.canReload = false
	r.w.DetermineState()
	assert.Equal(t, netconfig.WeaponReloading, r.w.State())

	// a pending reload on an idle weapon that cannot reload stays idle
	r2 := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r2.w.pendingReload = true
	r2.w.DetermineState()
	assert.Equal(t, netconfig.WeaponIdle, r2.w.State())
}

func TestUnequip_WhileReloadingCancelsBothTimers(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{Total: 10, InClip: 0}
	r.w.StartReload(false)
	r.sched.Advance(0.5)

	r.w.OnUnequip()
	assert.Zero(t, r.sched.Pending())
	assert.False(t, r.w.PendingReload())
	assert.Equal(t, 1, r.h.unequips)

	r.sched.Advance(5)
	assert.Equal(t, 0, r.w.CurrentAmmoInClip())

	r.h.local = false
	r.w.OnEquip(nil)
	assert.Equal(t, 0, r.w.CurrentAmmoInClip(), "interrupted reload must not apply on re-equip")
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
}

func TestUnequip_ReequipStartsFreshReload(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{Total: 10, InClip: 0}
	r.w.StartReload(false)
	r.sched.Advance(0.5)
	r.w.OnUnequip()

	r.w.OnEquip(nil)
	assert.Equal(t, netconfig.WeaponReloading, r.w.State())

	r.sched.AdvanceTo(1.3)
	assert.Equal(t, 0, r.w.CurrentAmmoInClip())

	r.sched.AdvanceTo(1.5)
	assert.Equal(t, 10, r.w.CurrentAmmoInClip())
}

func TestUnequip_StopsFiring(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.StartFire()

	r.w.OnUnequip()

	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.False(t, r.w.WantsToFire())
	assert.Zero(t, r.w.BurstCounter())
	assert.Zero(t, r.sched.Pending())
}

func TestGiveAmmo_ClampsToMax(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{Total: 80, InClip: 30}

	added := r.w.GiveAmmo(25)

	assert.Equal(t, 10, added)
	assert.Equal(t, 90, r.w.CurrentAmmo())
	assert.Equal(t, [2]int{30, 90}, r.h.ammoNotices[len(r.h.ammoNotices)-1])
}

func TestGiveAmmo_EmptyClipReloadsLocally(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.ammo = Ammo{}

	r.w.GiveAmmo(20)

	assert.Equal(t, netconfig.WeaponReloading, r.w.State())
	assert.Empty(t, r.b.client)
}

func TestGiveAmmo_EmptyClipAsksRemoteOwner(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.h.local = false
	r.w.ammo = Ammo{}

	r.w.GiveAmmo(20)

	assert.Equal(t, []netconfig.RPC{netconfig.RPCClientStartReload}, r.b.client)
	v, ok := r.b.last(netconfig.FieldCurrentAmmo)
	require.True(t, ok)
	assert.Equal(t, int32(20), v)
}

func TestGiveAmmo_NotCurrentWeaponDoesNotReload(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.h.current = nil
	r.w.ammo = Ammo{}

	r.w.GiveAmmo(20)

	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
}

func TestUseAmmo_InfiniteFlags(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	r.h.infAmmo = true
	r.w.UseAmmo()
	assert.Equal(t, 30, r.w.CurrentAmmoInClip())
	assert.Equal(t, 90, r.w.CurrentAmmo())

	r.h.infAmmo = false
	r.h.infClip = true
	r.w.UseAmmo()
	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
	assert.Equal(t, 90, r.w.CurrentAmmo())
}

func TestReplica_ForwardsInputsAndPredicts(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAutonomousProxy)

	r.w.StartFire()
	r.w.StopFire()

	assert.Equal(t, []netconfig.RPC{
		netconfig.RPCServerStartFire,
		netconfig.RPCServerHandleFiring,
		netconfig.RPCServerStopFire,
	}, r.b.server)
	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
	assert.Empty(t, r.b.patches)
}

func TestReplica_ForwardsReload(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAutonomousProxy)
	r.w.ammo = Ammo{Total: 50, InClip: 4}

	r.w.StartReload(false)
	r.sched.Advance(1)

	assert.Equal(t, []netconfig.RPC{
		netconfig.RPCServerStartReload,
		netconfig.RPCServerStopReload,
	}, r.b.server)
	assert.Equal(t, 4, r.w.CurrentAmmoInClip(), "only the authority credits ammo")
}

func TestReplica_SimulatedProxyDoesNotForwardStopFire(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleSimulatedProxy)
	r.h.local = false

	r.w.StopFire()
	assert.Empty(t, r.b.server)
}

func TestAuthority_ServerHandleFiringConsumesAndReplicates(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.b.dedicated = true
	r.h.local = false
	r.tracer.hit = Hit{Actor: 4, Material: "flesh"}

	r.w.HandleServerRPC(netconfig.RPCServerStartFire)
	assert.Equal(t, netconfig.WeaponFiring, r.w.State())
	assert.Equal(t, 30, r.w.CurrentAmmoInClip(), "remote burst start consumes nothing")

	r.w.HandleServerRPC(netconfig.RPCServerHandleFiring)
	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
	assert.Equal(t, int32(1), r.w.BurstCounter())
	require.Len(t, r.ref.shots, 1)
	assert.Len(t, r.ref.shots[0].Hits, 1)
	assert.Empty(t, r.s.effects, "dedicated server plays no fire feedback")

	v, _ := r.b.last(netconfig.FieldBurstCounter)
	assert.Equal(t, int32(1), v)
	v, _ = r.b.last(netconfig.FieldCurrentAmmoInClip)
	assert.Equal(t, int32(29), v)

	r.w.HandleServerRPC(netconfig.RPCServerStopFire)
	v, _ = r.b.last(netconfig.FieldBurstCounter)
	assert.Equal(t, int32(0), v)
}

func TestAuthority_ServerHandleFiringRevalidates(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.h.local = false
	r.h.canFire = false

	r.w.HandleServerRPC(netconfig.RPCServerHandleFiring)

	assert.Equal(t, 30, r.w.CurrentAmmoInClip())
	assert.Zero(t, r.w.BurstCounter())
	assert.Empty(t, r.ref.shots)
}

func TestAuthority_ShotAfterHolsterIsDropped(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.b.dedicated = true
	r.h.local = false

	r.w.HandleServerRPC(netconfig.RPCServerStartFire)
	r.w.HandleServerRPC(netconfig.RPCServerHandleFiring)
	require.Equal(t, int32(1), r.w.BurstCounter())

	// the switch lands before the client's next shots
	r.w.OnUnequip()
	r.w.HandleServerRPC(netconfig.RPCServerHandleFiring)
	r.w.HandleServerRPC(netconfig.RPCServerHandleFiring)
	r.sched.Advance(2)

	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
	assert.Zero(t, r.w.BurstCounter())
	assert.Len(t, r.ref.shots, 1)
	v, _ := r.b.last(netconfig.FieldBurstCounter)
	assert.Equal(t, int32(0), v)
}

func TestAuthority_ShotWhileIdleLeavesNoBurst(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.b.dedicated = true
	r.h.local = false

	r.w.HandleServerRPC(netconfig.RPCServerHandleFiring)

	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.Equal(t, 29, r.w.CurrentAmmoInClip())
	assert.Zero(t, r.w.BurstCounter())
	_, sent := r.b.last(netconfig.FieldBurstCounter)
	assert.False(t, sent)
}

func TestAuthority_ReloadReplicatesPendingReload(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.h.local = false
	r.w.ammo = Ammo{Total: 45, InClip: 15}

	r.w.HandleServerRPC(netconfig.RPCServerStartReload)
	v, _ := r.b.last(netconfig.FieldPendingReload)
	assert.Equal(t, int32(1), v)

	r.sched.Advance(1)
	v, _ = r.b.last(netconfig.FieldPendingReload)
	assert.Equal(t, int32(0), v)
	v, _ = r.b.last(netconfig.FieldCurrentAmmoInClip)
	assert.Equal(t, int32(30), v)
}

func TestReplica_IgnoresServerCalls(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAutonomousProxy)

	r.w.HandleServerRPC(netconfig.RPCServerStartFire)
	assert.False(t, r.w.WantsToFire())
}

func TestApplyReplicated_BurstCounterDrivesFireFeedback(t *testing.T) {
	cfg := rifleConfig()
	cfg.Cosmetics.LoopedFireSound = true
	cfg.Cosmetics.FireLoopSound = "rifle_loop"
	cfg.Cosmetics.FireFinishSound = "rifle_tail"
	r := newRig(t, cfg, netconfig.RoleSimulatedProxy)
	r.h.local = false

	r.w.ApplyReplicated(netconfig.FieldBurstCounter, 1)
	r.w.ApplyReplicated(netconfig.FieldBurstCounter, 2)
	r.w.ApplyReplicated(netconfig.FieldBurstCounter, 2)

	assert.Equal(t, 1, r.s.count("rifle_loop"))
	assert.Len(t, r.s.particles, 2)
	assert.Zero(t, r.h.shakes)

	r.w.ApplyReplicated(netconfig.FieldBurstCounter, 0)
	assert.Len(t, r.s.faded, 1)
	assert.Equal(t, 1, r.s.count("rifle_tail"))
}

func TestApplyReplicated_PendingReloadPlaysPresentationOnly(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleSimulatedProxy)
	r.h.local = false
	// an observer's ledger keeps the spawn seed: the clip looks full
	require.False(t, r.w.CanReload())

	r.w.ApplyReplicated(netconfig.FieldPendingReload, 1)
	assert.Equal(t, netconfig.WeaponReloading, r.w.State())
	assert.Contains(t, r.h.played, "reload")
	assert.Empty(t, r.b.server)

	r.sched.Advance(5)
	assert.Equal(t, 30, r.w.CurrentAmmoInClip(), "replicas never credit ammo")
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())

	r.w.ApplyReplicated(netconfig.FieldPendingReload, 1)
	assert.Equal(t, netconfig.WeaponReloading, r.w.State())
	r.w.ApplyReplicated(netconfig.FieldPendingReload, 0)
	assert.False(t, r.w.PendingReload())
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.Contains(t, r.h.stopped, "reload")
	assert.Zero(t, r.sched.Pending(), "the stop timer is cleared")
}

func TestApplyReplicated_PendingReloadClearedWhileHolstered(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleSimulatedProxy)
	r.h.local = false
	r.w.OnUnequip()

	r.w.ApplyReplicated(netconfig.FieldPendingReload, 1)
	assert.Equal(t, netconfig.WeaponIdle, r.w.State())
	assert.Equal(t, 1, r.sched.Pending())

	r.w.ApplyReplicated(netconfig.FieldPendingReload, 0)
	assert.Contains(t, r.h.stopped, "reload")
	assert.Zero(t, r.sched.Pending())
}

func TestApplyReplicated_AmmoNotifiesOwner(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAutonomousProxy)

	r.w.ApplyReplicated(netconfig.FieldCurrentAmmo, 70)
	r.w.ApplyReplicated(netconfig.FieldCurrentAmmoInClip, 12)

	assert.Equal(t, 70, r.w.CurrentAmmo())
	assert.Equal(t, 12, r.w.CurrentAmmoInClip())
	assert.Equal(t, [2]int{12, 70}, r.h.ammoNotices[len(r.h.ammoNotices)-1])
}

func TestApplyReplicated_IgnoredOnAuthority(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)

	r.w.ApplyReplicated(netconfig.FieldCurrentAmmo, 3)
	assert.Equal(t, 90, r.w.CurrentAmmo())
}

func TestClientRPC_StartReload(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAutonomousProxy)
	r.w.ammo = Ammo{Total: 30, InClip: 0}

	r.w.HandleClientRPC(netconfig.RPCClientStartReload)

	assert.Equal(t, netconfig.WeaponReloading, r.w.State())
	assert.Equal(t, []netconfig.RPC{netconfig.RPCServerStartReload}, r.b.server)
}

func TestOwnership_ReassignUnequipsFromPrevious(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	next := newFakeHolder()

	r.w.SetOwningComponent(next)

	assert.Equal(t, 1, r.h.unequips)
	assert.False(t, r.w.IsEquipped())
	assert.Same(t, next, r.w.Holder())
}

func TestOwnership_LeaveInventory(t *testing.T) {
	r := newRig(t, rifleConfig(), netconfig.RoleAuthority)
	r.w.OnLeaveInventory()
	assert.Nil(t, r.w.Holder())
	assert.False(t, r.w.IsAttachedToPawn())

	rep := newRig(t, rifleConfig(), netconfig.RoleAutonomousProxy)
	rep.w.OnLeaveInventory()
	assert.NotNil(t, rep.w.Holder(), "replicas keep the holder until it replicates")

	rep.w.ApplyReplicatedHolder(nil)
	assert.Nil(t, rep.w.Holder())
}

func TestDestroy_StopsFeedbackAndTimers(t *testing.T) {
	cfg := rifleConfig()
	cfg.Cosmetics.LoopedFireSound = true
	cfg.Cosmetics.FireLoopSound = "rifle_loop"
	r := newRig(t, cfg, netconfig.RoleAuthority)
	r.w.StartFire()
	require.NotZero(t, r.sched.Pending())

	r.w.Destroy()

	assert.Zero(t, r.sched.Pending())
	assert.Len(t, r.s.faded, 1)
	assert.True(t, r.w.IsDestroyed())

	r.w.HandleServerRPC(netconfig.RPCServerStopFire)
	assert.True(t, r.w.WantsToFire())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, rifleConfig().Validate())

	cfg := rifleConfig()
	cfg.NoAnimReloadDuration = 0
	assert.ErrorIs(t, cfg.Validate(), ErrReloadDuration)

	cfg = rifleConfig()
	cfg.InitialClips = 4
	assert.ErrorIs(t, cfg.Validate(), ErrInitialAmmo)

	cfg = rifleConfig()
	cfg.AmmoPerClip = -1
	assert.ErrorIs(t, cfg.Validate(), ErrNegativeAmmo)

	cfg = rifleConfig()
	cfg.FireMode = FireMode{Kind: FireSpread, Range: 100}
	assert.ErrorIs(t, cfg.Validate(), ErrFireMode)
}
