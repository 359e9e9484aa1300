// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on rendering or any
// transport library so the dedicated server binary stays headless.
package netconfig

// WeaponState identifies the current state of a weapon's state machine.
type WeaponState int

const (
	WeaponIdle WeaponState = iota
	WeaponFiring
	WeaponReloading
	WeaponEquipping
)

var weaponStateNames = map[WeaponState]string{
	WeaponIdle:      "idle",
	WeaponFiring:    "firing",
	WeaponReloading: "reloading",
	WeaponEquipping: "equipping",
}

func (s WeaponState) String() string {
	if name, ok := weaponStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// AmmoType groups weapons that draw from the same pickups.
type AmmoType int

const (
	AmmoNone AmmoType = iota
	AmmoBullet
	AmmoShell
	AmmoRocket
)

var ammoTypeNames = map[AmmoType]string{
	AmmoNone:   "none",
	AmmoBullet: "bullet",
	AmmoShell:  "shell",
	AmmoRocket: "rocket",
}

func (a AmmoType) String() string {
	if name, ok := ammoTypeNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAmmoType maps a config string back to an AmmoType. Unknown names map to AmmoNone.
func ParseAmmoType(name string) AmmoType {
	for t, n := range ammoTypeNames {
		if n == name {
			return t
		}
	}
	return AmmoNone
}

// Role is the network role of a replicated instance on the local process.
// Ordered so that role < RoleAuthority means "not the source of truth".
type Role int

const (
	RoleNone Role = iota
	RoleSimulatedProxy
	RoleAutonomousProxy
	RoleAuthority
)

func (r Role) String() string {
	switch r {
	case RoleSimulatedProxy:
		return "simulated"
	case RoleAutonomousProxy:
		return "autonomous"
	case RoleAuthority:
		return "authority"
	default:
		return "none"
	}
}

// RPC identifies a remote call between a weapon replica and its authority.
type RPC uint8

const (
	RPCNone RPC = iota

	// Client -> server
	RPCServerStartFire
	RPCServerStopFire
	RPCServerStartReload
	RPCServerStopReload
	RPCServerHandleFiring

	// Server -> owning client
	RPCClientStartReload
)

var rpcNames = map[RPC]string{
	RPCServerStartFire:    "ServerStartFire",
	RPCServerStopFire:     "ServerStopFire",
	RPCServerStartReload:  "ServerStartReload",
	RPCServerStopReload:   "ServerStopReload",
	RPCServerHandleFiring: "ServerHandleFiring",
	RPCClientStartReload:  "ClientStartReload",
}

func (r RPC) String() string {
	if name, ok := rpcNames[r]; ok {
		return name
	}
	return "none"
}

// IsServerBound reports whether the call travels from a client to the authority.
func (r RPC) IsServerBound() bool {
	return r >= RPCServerStartFire && r <= RPCServerHandleFiring
}

// Field identifies a replicated weapon property.
type Field uint8

const (
	FieldNone Field = iota
	FieldCurrentAmmo
	FieldCurrentAmmoInClip
	FieldBurstCounter
	FieldPendingReload
)

var fieldNames = map[Field]string{
	FieldCurrentAmmo:       "CurrentAmmo",
	FieldCurrentAmmoInClip: "CurrentAmmoInClip",
	FieldBurstCounter:      "BurstCounter",
	FieldPendingReload:     "PendingReload",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "none"
}

// Scope restricts which connections receive a replicated field.
type Scope uint8

const (
	ScopeAll       Scope = iota
	ScopeOwnerOnly       // only the owning connection
	ScopeSkipOwner       // everyone except the owning connection
)

// Scope returns which connections receive f: ammo goes to the owner only,
// fire and reload state to everyone but the owner.
func (f Field) Scope() Scope {
	switch f {
	case FieldCurrentAmmo, FieldCurrentAmmoInClip:
		return ScopeOwnerOnly
	case FieldBurstCounter, FieldPendingReload:
		return ScopeSkipOwner
	default:
		return ScopeAll
	}
}

// TraceChannel selects which collision objects block a trace.
type TraceChannel int

const (
	ChannelWeapon     TraceChannel = iota // solids and pawns
	ChannelVisibility                     // solids only
)

// ActionID represents a logical weapon action driven by the input layer.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionFire
	ActionReload
	ActionNextWeapon
	ActionPrevWeapon
	ActionCount // Must be last - used for array sizing
)
