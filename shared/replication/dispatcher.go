package replication

import (
	"github.com/rs/zerolog"

	"github.com/automoto/gunsync/shared/messages"
	"github.com/automoto/gunsync/shared/netconfig"
)

// Receiver is a weapon replica.
type Receiver interface {
	ApplyReplicated(field netconfig.Field, value int32)
	HandleClientRPC(rpc netconfig.RPC)
}

// Reconciler rewrites an owner-only patch before it is applied, so a
// predicting owner keeps the shots the authority has not acknowledged yet.
type Reconciler interface {
	Reconcile(p messages.WeaponPatch) int32
}

// Dispatcher routes received batches to weapon replicas by weapon id.
type Dispatcher struct {
	receivers   map[uint]Receiver
	reconcilers map[uint]Reconciler
	log         zerolog.Logger
	dropped     int
}

func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		receivers:   make(map[uint]Receiver),
		reconcilers: make(map[uint]Reconciler),
		log:         log,
	}
}

func (d *Dispatcher) Register(weapon uint, r Receiver) {
	d.receivers[weapon] = r
}

func (d *Dispatcher) SetReconciler(weapon uint, rc Reconciler) {
	if rc == nil {
		delete(d.reconcilers, weapon)
		return
	}
	d.reconcilers[weapon] = rc
}

func (d *Dispatcher) Unregister(weapon uint) {
	delete(d.receivers, weapon)
	delete(d.reconcilers, weapon)
}

// Dropped returns how many patches and calls named an unknown weapon.
func (d *Dispatcher) Dropped() int { return d.dropped }

// Apply applies patches in order, then calls. Entries for weapons that are
// not registered (not spawned yet, or already gone) are dropped.
func (d *Dispatcher) Apply(b messages.WeaponBatch) {
	for _, p := range b.Patches {
		r, ok := d.receivers[p.Weapon]
		if !ok {
			d.drop(p.Weapon, p.Field.String())
			continue
		}
		value := p.Value
		if rc, ok := d.reconcilers[p.Weapon]; ok && p.Field.Scope() == netconfig.ScopeOwnerOnly {
			value = rc.Reconcile(p)
		}
		r.ApplyReplicated(p.Field, value)
	}
	for _, c := range b.Calls {
		r, ok := d.receivers[c.Weapon]
		if !ok {
			d.drop(c.Weapon, c.Call.String())
			continue
		}
		r.HandleClientRPC(c.Call)
	}
}

func (d *Dispatcher) drop(weapon uint, what string) {
	d.dropped++
	d.log.Debug().Uint("weapon", weapon).Str("entry", what).Msg("dropped entry for unknown weapon")
}
