// Package replication carries weapon state between the authority and its
// clients. The authority side collects field patches and client calls in an
// Outbox and splits them per connection by field scope; the client side
// routes received batches to its weapon replicas through a Dispatcher.
package replication

import (
	"errors"
	"fmt"

	"github.com/automoto/gunsync/shared/messages"
	"github.com/automoto/gunsync/shared/netconfig"
)

var (
	ErrUnknownWeapon  = errors.New("unknown weapon")
	ErrNotOwner       = errors.New("sender does not own weapon")
	ErrUnexpectedCall = errors.New("not a server call")
)

type patchKey struct {
	weapon uint
	field  netconfig.Field
}

// Outbox collects the replicated output of authority weapons during a tick.
// A field written several times in one tick is sent once with its last
// value. It is not safe for concurrent use.
type Outbox struct {
	owners map[uint]string
	acks   map[uint]uint32

	index   map[patchKey]int
	patches []messages.WeaponPatch
	calls   []messages.WeaponRPC
	tick    uint64
}

func NewOutbox() *Outbox {
	return &Outbox{
		owners: make(map[uint]string),
		acks:   make(map[uint]uint32),
		index:  make(map[patchKey]int),
	}
}

// SetOwner records which connection owns a weapon. An empty owner means no
// remote connection owns it, so owner-only fields go nowhere.
func (o *Outbox) SetOwner(weapon uint, owner string) {
	if owner == "" {
		delete(o.owners, weapon)
		return
	}
	o.owners[weapon] = owner
}

func (o *Outbox) Owner(weapon uint) string {
	return o.owners[weapon]
}

// Forget drops everything known about a weapon, including unsent patches.
func (o *Outbox) Forget(weapon uint) {
	delete(o.owners, weapon)
	delete(o.acks, weapon)

	kept := o.patches[:0]
	clear(o.index)
	for _, p := range o.patches {
		if p.Weapon == weapon {
			continue
		}
		o.index[patchKey{p.Weapon, p.Field}] = len(kept)
		kept = append(kept, p)
	}
	o.patches = kept

	calls := o.calls[:0]
	for _, c := range o.calls {
		if c.Weapon != weapon {
			calls = append(calls, c)
		}
	}
	o.calls = calls
}

// Ack records the last HandleFiring sequence processed for a weapon. It
// never moves backwards.
func (o *Outbox) Ack(weapon uint, seq uint32) {
	if seq > o.acks[weapon] {
		o.acks[weapon] = seq
	}
}

func (o *Outbox) LastAck(weapon uint) uint32 {
	return o.acks[weapon]
}

// Put queues a field value.
func (o *Outbox) Put(weapon uint, field netconfig.Field, value int32) {
	k := patchKey{weapon, field}
	if i, ok := o.index[k]; ok {
		o.patches[i].Value = value
		return
	}
	o.index[k] = len(o.patches)
	o.patches = append(o.patches, messages.WeaponPatch{Weapon: weapon, Field: field, Value: value})
}

// Call queues a call for the weapon's owning connection.
func (o *Outbox) Call(weapon uint, rpc netconfig.RPC) {
	o.calls = append(o.calls, messages.WeaponRPC{Weapon: weapon, Call: rpc})
}

// Pending returns the number of queued patches and calls.
func (o *Outbox) Pending() int {
	return len(o.patches) + len(o.calls)
}

// Flush splits the queue into one batch per recipient and clears it.
// Recipients with nothing to receive are left out of the result.
func (o *Outbox) Flush(recipients []string) map[string]messages.WeaponBatch {
	o.tick++
	out := make(map[string]messages.WeaponBatch, len(recipients))

	for _, r := range recipients {
		batch := messages.WeaponBatch{Tick: o.tick}
		for _, p := range o.patches {
			owner := o.owners[p.Weapon]
			switch p.Field.Scope() {
			case netconfig.ScopeOwnerOnly:
				if r != owner {
					continue
				}
				p.Ack = o.acks[p.Weapon]
			case netconfig.ScopeSkipOwner:
				if r == owner {
					continue
				}
			}
			batch.Patches = append(batch.Patches, p)
		}
		for _, c := range o.calls {
			if o.owners[c.Weapon] == r {
				batch.Calls = append(batch.Calls, c)
			}
		}
		if len(batch.Patches) > 0 || len(batch.Calls) > 0 {
			out[r] = batch
		}
	}

	o.patches = o.patches[:0]
	o.calls = o.calls[:0]
	clear(o.index)
	return out
}

// ServerReceiver is the authority weapon an inbound call is delivered to.
type ServerReceiver interface {
	HandleServerRPC(rpc netconfig.RPC)
	MarkAmmoDirty()
}

// Deliver validates a call from sender and applies it to w. A HandleFiring
// call advances the weapon's ack and re-sends its ammo so the owner can drop
// the shots the authority has now seen.
func (o *Outbox) Deliver(sender string, rpc messages.WeaponRPC, w ServerReceiver) error {
	if w == nil {
		return fmt.Errorf("weapon %d: %w", rpc.Weapon, ErrUnknownWeapon)
	}
	if !rpc.Call.IsServerBound() {
		return fmt.Errorf("weapon %d %s: %w", rpc.Weapon, rpc.Call, ErrUnexpectedCall)
	}
	if owner := o.owners[rpc.Weapon]; owner == "" || owner != sender {
		return fmt.Errorf("weapon %d %s from %s: %w", rpc.Weapon, rpc.Call, sender, ErrNotOwner)
	}

	w.HandleServerRPC(rpc.Call)

	if rpc.Call == netconfig.RPCServerHandleFiring {
		o.Ack(rpc.Weapon, rpc.Seq)
		w.MarkAmmoDirty()
	}
	return nil
}
