package replication

import (
	"github.com/automoto/gunsync/shared/messages"
	"github.com/automoto/gunsync/shared/netconfig"
)

// ServerBridge is the bridge of an authority weapon. Replicated fields and
// client calls go to the outbox.
type ServerBridge struct {
	outbox    *Outbox
	weapon    uint
	dedicated bool
}

func NewServerBridge(outbox *Outbox, weapon uint, dedicated bool) *ServerBridge {
	return &ServerBridge{outbox: outbox, weapon: weapon, dedicated: dedicated}
}

func (b *ServerBridge) Role() netconfig.Role { return netconfig.RoleAuthority }
func (b *ServerBridge) IsDedicatedServer() bool { return b.dedicated }

// CallServer is never needed on the authority.
func (b *ServerBridge) CallServer(netconfig.RPC) {}

func (b *ServerBridge) CallClient(rpc netconfig.RPC) {
	b.outbox.Call(b.weapon, rpc)
}

func (b *ServerBridge) Replicate(field netconfig.Field, value int32) {
	b.outbox.Put(b.weapon, field, value)
}

// ClientBridge is the bridge of a weapon replica. Only a replica in the
// autonomous role forwards calls; HandleFiring calls are numbered so the
// authority can acknowledge them.
type ClientBridge struct {
	weapon uint
	role   netconfig.Role
	send   func(messages.WeaponRPC)
	seq    uint32
	onFire func(seq uint32)
}

func NewClientBridge(weapon uint, role netconfig.Role, send func(messages.WeaponRPC)) *ClientBridge {
	return &ClientBridge{weapon: weapon, role: role, send: send}
}

// SetRole changes the replica's role, e.g. when its holder replicates.
func (b *ClientBridge) SetRole(role netconfig.Role) {
	b.role = role
}

// OnFire registers fn to run after each numbered HandleFiring call.
func (b *ClientBridge) OnFire(fn func(seq uint32)) {
	b.onFire = fn
}

// Seq returns the last HandleFiring sequence sent.
func (b *ClientBridge) Seq() uint32 { return b.seq }

func (b *ClientBridge) Role() netconfig.Role { return b.role }
func (b *ClientBridge) IsDedicatedServer() bool { return false }

func (b *ClientBridge) CallServer(rpc netconfig.RPC) {
	if b.role != netconfig.RoleAutonomousProxy || b.send == nil {
		return
	}
	msg := messages.WeaponRPC{Weapon: b.weapon, Call: rpc}
	if rpc == netconfig.RPCServerHandleFiring {
		b.seq++
		msg.Seq = b.seq
		if b.onFire != nil {
			b.onFire(b.seq)
		}
	}
	b.send(msg)
}

func (b *ClientBridge) CallClient(netconfig.RPC) {}
func (b *ClientBridge) Replicate(netconfig.Field, int32) {}
