package weapon

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/timer"
)

type fakeHolder struct {
	id        ActorID
	canFire   bool
	canReload bool
	infAmmo   bool
	infClip   bool
	local     bool
	current   *Weapon
	anims     map[string]float64
	origin    gamemath.Vec2
	aim       gamemath.Vec2

	played        []string
	stopped       []string
	attached      int
	shakes        int
	feedback      int
	reloadNotices []float64
	ammoNotices   [][2]int
	equipNotices  []float64
	unequips      int
}

func newFakeHolder() *fakeHolder {
	return &fakeHolder{
		id:        1,
		canFire:   true,
		canReload: true,
		local:     true,
		anims:     map[string]float64{},
		aim:       gamemath.V(1, 0),
	}
}

func (h *fakeHolder) ActorID() ActorID { return h.id }
func (h *fakeHolder) CanFire() bool { return h.canFire }
func (h *fakeHolder) CanReload() bool { return h.canReload }
func (h *fakeHolder) HasInfiniteAmmo() bool { return h.infAmmo }
func (h *fakeHolder) HasInfiniteClip() bool { return h.infClip }
func (h *fakeHolder) IsLocallyControlled() bool { return h.local }
func (h *fakeHolder) CurrentWeapon() *Weapon { return h.current }

func (h *fakeHolder) PlayPawnAnimation(clip string) float64 {
	h.played = append(h.played, clip)
	return h.anims[clip]
}

func (h *fakeHolder) StopPawnAnimation(clip string) { h.stopped = append(h.stopped, clip) }

func (h *fakeHolder) AttachWeaponToPawn(w *Weapon) {
	h.attached++
	w.AttachMesh()
}

func (h *fakeHolder) PlayCameraShake(string, float64) { h.shakes++ }
func (h *fakeHolder) PlayForceFeedback(string) { h.feedback++ }

func (h *fakeHolder) Aim() (gamemath.Vec2, gamemath.Vec2) { return h.origin, h.aim }

func (h *fakeHolder) NotifyStartReload(_ *Weapon, d float64) {
	h.reloadNotices = append(h.reloadNotices, d)
}

func (h *fakeHolder) NotifyUpdateAmmo(_ *Weapon, inClip, total int) {
	h.ammoNotices = append(h.ammoNotices, [2]int{inClip, total})
}

func (h *fakeHolder) NotifyEquip(_ *Weapon, d float64) {
	h.equipNotices = append(h.equipNotices, d)
}

func (h *fakeHolder) NotifyUnequip(*Weapon) { h.unequips++ }

type fieldValue struct {
	field netconfig.Field
	value int32
}

type recBridge struct {
	role      netconfig.Role
	dedicated bool
	server    []netconfig.RPC
	client    []netconfig.RPC
	patches   []fieldValue
}

func (b *recBridge) Role() netconfig.Role { return b.role }
func (b *recBridge) IsDedicatedServer() bool { return b.dedicated }
func (b *recBridge) CallServer(rpc netconfig.RPC) { b.server = append(b.server, rpc) }
func (b *recBridge) CallClient(rpc netconfig.RPC) { b.client = append(b.client, rpc) }

func (b *recBridge) Replicate(f netconfig.Field, v int32) {
	b.patches = append(b.patches, fieldValue{f, v})
}

// last returns the most recent replicated value of f.
func (b *recBridge) last(f netconfig.Field) (int32, bool) {
	for i := len(b.patches) - 1; i >= 0; i-- {
		if b.patches[i].field == f {
			return b.patches[i].value, true
		}
	}
	return 0, false
}

type recSink struct {
	next        FXHandle
	effects     []string
	particles   []string
	deactivated []FXHandle
	faded       []FXHandle
	anims       []string
	impacts     []string
	visible     bool
}

func (s *recSink) handle() FXHandle {
	s.next++
	return s.next
}

func (s *recSink) PlayEffect(cue string) FXHandle {
	s.effects = append(s.effects, cue)
	return s.handle()
}

func (s *recSink) PlayAnimation(asset string, _ bool) { s.anims = append(s.anims, asset) }

func (s *recSink) SpawnAttachedParticle(asset, _ string) FXHandle {
	s.particles = append(s.particles, asset)
	return s.handle()
}

func (s *recSink) DeactivateParticle(h FXHandle) { s.deactivated = append(s.deactivated, h) }
func (s *recSink) FadeOutSound(h FXHandle, _ float64) { s.faded = append(s.faded, h) }
func (s *recSink) SetMeshVisible(v bool) { s.visible = v }

func (s *recSink) SpawnImpact(asset string, _, _ gamemath.Vec2) {
	s.impacts = append(s.impacts, asset)
}

func (s *recSink) count(cue string) int {
	n := 0
	for _, e := range s.effects {
		if e == cue {
			n++
		}
	}
	return n
}

type recReferee struct {
	shots   []Shot
	reloads []int
}

func (r *recReferee) ApplyShot(_ *Weapon, shot Shot) { r.shots = append(r.shots, shot) }
func (r *recReferee) ReloadApplied(_ *Weapon, n int) { r.reloads = append(r.reloads, n) }

type fakeTracer struct {
	hit   Hit
	calls int
}

func (f *fakeTracer) Trace(_, _ gamemath.Vec2, _ netconfig.TraceChannel, _ ActorID) (Hit, bool) {
	f.calls++
	return f.hit, f.hit.Actor != 0 || f.hit.Material != ""
}

func rifleConfig() *Config {
	return &Config{
		Name:                 "rifle",
		AmmoPerClip:          30,
		MaxAmmo:              90,
		InitialClips:         3,
		AmmoType:             netconfig.AmmoBullet,
		TimeBetweenShots:     0.1,
		NoAnimReloadDuration: 1.0,
		MuzzleAttachPoint:    "muzzle",
		AllowCatchup:         true,
		FireMode:             FireMode{Kind: FireHitscan, Range: 500, Damage: 10},
		Cosmetics: Cosmetics{
			MuzzleFX:        "muzzle_flash",
			FireSound:       "rifle_fire",
			OutOfAmmoSound:  "dry_fire",
			ReloadSound:     "rifle_reload",
			PawnReloadAnim:  "reload",
			PawnEquipAnim:   "equip",
			PawnFireAnim:    "fire",
			FireCameraShake: "shake_small",
			ImpactFX:        map[string]string{"concrete": "spark"},
		},
	}
}

type rig struct {
	w      *Weapon
	h      *fakeHolder
	b      *recBridge
	s      *recSink
	ref    *recReferee
	tracer *fakeTracer
	sched  *timer.Scheduler
}

// newRig builds an equipped weapon held by a locally controlled holder.
func newRig(t *testing.T, cfg *Config, role netconfig.Role, opts ...timer.Option) *rig {
	t.Helper()
	r := &rig{
		h:      newFakeHolder(),
		b:      &recBridge{role: role},
		s:      &recSink{},
		ref:    &recReferee{},
		tracer: &fakeTracer{},
		sched:  timer.NewScheduler(opts...),
	}
	r.w = New(7, cfg, Deps{
		Scheduler: r.sched,
		Bridge:    r.b,
		Sink:      r.s,
		Tracer:    r.tracer,
		Referee:   r.ref,
		Logger:    zerolog.Nop(),
	})
	r.h.current = r.w
	r.w.OnEnterInventory(r.h)
	r.w.OnEquip(nil)
	return r
}
