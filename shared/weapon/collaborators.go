package weapon

import (
	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/netconfig"
)

// ActorID identifies a pawn in the trace world. Zero is no actor.
type ActorID uint

// Holder is the inventory component that owns a weapon. A weapon keeps a
// weak reference to at most one holder.
type Holder interface {
	ActorID() ActorID
	CanFire() bool
	CanReload() bool
	HasInfiniteAmmo() bool
	HasInfiniteClip() bool
	IsLocallyControlled() bool
	CurrentWeapon() *Weapon

	// PlayPawnAnimation returns the clip duration in seconds, or 0 when the
	// pawn has no such clip.
	PlayPawnAnimation(clip string) float64
	StopPawnAnimation(clip string)
	AttachWeaponToPawn(w *Weapon)
	PlayCameraShake(asset string, scale float64)
	PlayForceFeedback(asset string)

	// Aim returns the muzzle origin and aim direction.
	Aim() (origin, dir gamemath.Vec2)

	NotifyStartReload(w *Weapon, duration float64)
	NotifyUpdateAmmo(w *Weapon, inClip, total int)
	NotifyEquip(w *Weapon, duration float64)
	NotifyUnequip(w *Weapon)
}

// FXHandle identifies a playing effect or sound. Zero is none.
type FXHandle uint64

//go:generate go run go.uber.org/mock/mockgen -destination=./mocks/sink_mock.go -package=mocks . Sink

// Sink receives presentation requests. Implementations render, play audio,
// or record; the state machine never reads anything back except handles.
type Sink interface {
	PlayEffect(cue string) FXHandle
	PlayAnimation(asset string, looped bool)
	SpawnAttachedParticle(asset, socket string) FXHandle
	DeactivateParticle(h FXHandle)
	FadeOutSound(h FXHandle, duration float64)
	SpawnImpact(asset string, point, normal gamemath.Vec2)
	SetMeshVisible(visible bool)
}

// Hit is the nearest blocking hit of a trace.
type Hit struct {
	Point    gamemath.Vec2
	Normal   gamemath.Vec2
	Actor    ActorID
	Material string
	Distance float64
}

// Tracer finds the nearest hit along a segment, ignoring one actor.
type Tracer interface {
	Trace(from, to gamemath.Vec2, channel netconfig.TraceChannel, ignore ActorID) (Hit, bool)
}

// Shot is one authoritative discharge: every trace of the fire mode and what
// it hit.
type Shot struct {
	Instigator ActorID
	Origin     gamemath.Vec2
	Traces     int
	Hits       []Hit
	Damage     int // per hit
}

// Referee receives authoritative combat outcomes. Only the authority calls it.
type Referee interface {
	ApplyShot(w *Weapon, shot Shot)
	ReloadApplied(w *Weapon, rounds int)
}

// Bridge routes a weapon's network traffic. A Role below RoleAuthority means
// every state-changing input is also forwarded with CallServer.
type Bridge interface {
	Role() netconfig.Role
	IsDedicatedServer() bool
	CallServer(rpc netconfig.RPC)
	CallClient(rpc netconfig.RPC)
	Replicate(field netconfig.Field, value int32)
}

// Standalone is the Bridge of a weapon with no remote peers.
type Standalone struct{}

func (Standalone) Role() netconfig.Role { return netconfig.RoleAuthority }
func (Standalone) IsDedicatedServer() bool { return false }
func (Standalone) CallServer(netconfig.RPC) {}
func (Standalone) CallClient(netconfig.RPC) {}
func (Standalone) Replicate(netconfig.Field, int32) {}

type nopSink struct{}

func (nopSink) PlayEffect(string) FXHandle { return 0 }
func (nopSink) PlayAnimation(string, bool) {}
func (nopSink) SpawnAttachedParticle(string, string) FXHandle { return 0 }
func (nopSink) DeactivateParticle(FXHandle) {}
func (nopSink) FadeOutSound(FXHandle, float64) {}
func (nopSink) SpawnImpact(string, gamemath.Vec2, gamemath.Vec2) {}
func (nopSink) SetMeshVisible(bool) {}
