package messages

import "github.com/automoto/gunsync/shared/netconfig"

// WeaponRPC is a remote call on one weapon. Client to server it carries a
// server call; server to client it carries ClientStartReload. Seq numbers the
// sender's HandleFiring calls per weapon and is 0 on every other call.
type WeaponRPC struct {
	Weapon uint // weapon NetworkId
	Call   netconfig.RPC
	Seq    uint32
}

// WeaponPatch is one replicated weapon field. Ack is the last HandleFiring
// sequence the authority processed for the weapon and is only set on ammo
// fields sent to the owner.
type WeaponPatch struct {
	Weapon uint
	Field  netconfig.Field
	Value  int32
	Ack    uint32
}

// WeaponBatch is everything the server has for one client in one tick.
// Patches are applied before Calls.
type WeaponBatch struct {
	Tick    uint64
	Patches []WeaponPatch
	Calls   []WeaponRPC
}
