package network

import (
	"sort"

	"github.com/leap-fish/necs/esync"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"

	"github.com/automoto/gunsync/shared/anim"
	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/inventory"
	"github.com/automoto/gunsync/shared/messages"
	"github.com/automoto/gunsync/shared/netcomponents"
	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/replication"
	"github.com/automoto/gunsync/shared/timer"
	"github.com/automoto/gunsync/shared/weapon"
)

// EntityState is one decoded snapshot entity.
type EntityState struct {
	ID         esync.NetworkId
	Components []any
}

// WorldOptions are the collaborators of a World.
type WorldOptions struct {
	Local      esync.NetworkId // the local player's pawn
	Catalog    map[string]*weapon.Config
	Animations map[string]float64 // pawn clip durations
	Send       func(msg any) error
	Sink       weapon.Sink
	Tracer     weapon.Tracer
	Logger     zerolog.Logger
}

type pawnReplica struct {
	id    esync.NetworkId
	inv   *inventory.Inventory
	local bool
}

type weaponReplica struct {
	w      *weapon.Weapon
	bridge *replication.ClientBridge
	pred   *AmmoPrediction
	holder esync.NetworkId
	slot   int
}

// World is a client's replica of the match. Snapshots create and remove
// pawns and weapons; weapon batches drive the weapon state machines. The
// local pawn's weapons run as autonomous proxies with ammo prediction,
// everyone else's as simulated proxies.
type World struct {
	world      donburi.World
	sched      *timer.Scheduler
	dispatcher *replication.Dispatcher
	opts       WorldOptions
	log        zerolog.Logger

	pawns   map[esync.NetworkId]*pawnReplica
	weapons map[esync.NetworkId]*weaponReplica
	present map[esync.NetworkId]bool
	aimSent messages.AimInput
}

func NewWorld(opts WorldOptions) *World {
	if opts.Send == nil {
		opts.Send = func(any) error { return nil }
	}
	return &World{
		world:      donburi.NewWorld(),
		sched:      timer.NewScheduler(timer.WithFrameClock()),
		dispatcher: replication.NewDispatcher(opts.Logger),
		opts:       opts,
		log:        opts.Logger,
		pawns:      make(map[esync.NetworkId]*pawnReplica),
		weapons:    make(map[esync.NetworkId]*weaponReplica),
		present:    make(map[esync.NetworkId]bool),
	}
}

// ApplySnapshot decodes a server snapshot and applies it.
func (w *World) ApplySnapshot(snapshot esync.WorldSnapshot) {
	states := make([]EntityState, 0, len(snapshot))
	for _, ent := range snapshot {
		var compData []any
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				continue
			}
			compData = append(compData, instance)
		}
		states = append(states, EntityState{ID: ent.Id, Components: compData})
	}
	w.Apply(states)
}

// Apply mirrors the entity states into the local world. Entities missing from
// states are removed together with their replicas.
func (w *World) Apply(states []EntityState) {
	clear(w.present)

	for _, ent := range states {
		w.present[ent.ID] = true

		entity := esync.FindByNetworkId(w.world, ent.ID)
		if !w.world.Valid(entity) {
			ctypes := componentTypesFromInstances(ent.Components)
			entity = w.world.Create(ctypes...)

			entry := w.world.Entry(entity)
			entry.AddComponent(esync.NetworkIdComponent)
			esync.NetworkIdComponent.SetValue(entry, ent.ID)
		}

		entry := w.world.Entry(entity)
		for _, data := range ent.Components {
			applyComponentToEntry(entry, data)
		}
	}

	var stale []*donburi.Entry
	esync.NetworkEntityQuery.Each(w.world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		if !w.present[*id] {
			stale = append(stale, entry)
		}
	})
	for _, entry := range stale {
		id := *esync.GetNetworkId(entry)
		w.removeWeapon(id)
		w.removePawn(id)
		entry.Remove()
	}

	w.syncPawns()
	w.syncWeapons()
	w.syncPawnState()
}

func (w *World) syncPawns() {
	netcomponents.NetPawn.Each(w.world, func(entry *donburi.Entry) {
		id := *esync.GetNetworkId(entry)
		if _, ok := w.pawns[id]; ok {
			return
		}
		local := id == w.opts.Local
		var opts []inventory.Option
		if local {
			opts = append(opts, inventory.LocallyControlled())
		}
		p := &pawnReplica{
			id:    id,
			inv:   inventory.New(weapon.ActorID(id), anim.NewAnimator(w.opts.Animations), opts...),
			local: local,
		}
		w.pawns[id] = p
		w.log.Debug().Uint("pawn", uint(id)).Bool("local", local).Msg("pawn replicated")
	})
}

// syncWeapons creates replicas for new weapons in slot order so each
// inventory keeps the server's pickup order.
func (w *World) syncWeapons() {
	type pending struct {
		id   esync.NetworkId
		data netcomponents.NetWeaponData
	}
	var fresh []pending
	netcomponents.NetWeapon.Each(w.world, func(entry *donburi.Entry) {
		id := *esync.GetNetworkId(entry)
		if _, ok := w.weapons[id]; ok {
			return
		}
		fresh = append(fresh, pending{id: id, data: *netcomponents.NetWeapon.Get(entry)})
	})
	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].data.Holder != fresh[j].data.Holder {
			return fresh[i].data.Holder < fresh[j].data.Holder
		}
		return fresh[i].data.Slot < fresh[j].data.Slot
	})

	for _, f := range fresh {
		cfg, ok := w.opts.Catalog[f.data.Type]
		if !ok {
			w.log.Warn().Str("type", f.data.Type).Msg("unknown weapon type in snapshot")
			continue
		}
		holder := esync.NetworkId(f.data.Holder)
		w.addWeapon(f.id, cfg, holder, f.data.Slot)
	}
}

func (w *World) addWeapon(id esync.NetworkId, cfg *weapon.Config, holder esync.NetworkId, slot int) {
	role := netconfig.RoleSimulatedProxy
	owner := w.pawns[holder]
	if owner != nil && owner.local {
		role = netconfig.RoleAutonomousProxy
	}

	bridge := replication.NewClientBridge(uint(id), role, func(rpc messages.WeaponRPC) {
		if err := w.opts.Send(rpc); err != nil {
			w.log.Debug().Err(err).Stringer("rpc", rpc.Call).Msg("failed to send weapon call")
		}
	})
	wpn := weapon.New(uint(id), cfg, weapon.Deps{
		Scheduler: w.sched,
		Bridge:    bridge,
		Sink:      w.opts.Sink,
		Tracer:    w.opts.Tracer,
		Logger:    w.log,
	})
	r := &weaponReplica{w: wpn, bridge: bridge, holder: holder, slot: slot}
	w.weapons[id] = r
	w.dispatcher.Register(uint(id), wpn)

	if role == netconfig.RoleAutonomousProxy {
		r.pred = NewAmmoPrediction(wpn)
		w.dispatcher.SetReconciler(uint(id), r.pred)
		bridge.OnFire(r.pred.Store)
	}
	if owner != nil {
		owner.inv.AddWeapon(wpn)
	}
}

// syncPawnState applies replicated pawn state to the inventories: life,
// the current weapon, and the aim of remote pawns.
func (w *World) syncPawnState() {
	netcomponents.NetPawn.Each(w.world, func(entry *donburi.Entry) {
		p := w.pawns[*esync.GetNetworkId(entry)]
		if p == nil {
			return
		}
		data := netcomponents.NetPawn.Get(entry)

		if data.Alive && !p.inv.Alive() {
			p.inv.Revive()
		} else if !data.Alive && p.inv.Alive() {
			p.inv.Kill()
		}

		if r, ok := w.weapons[esync.NetworkId(data.CurrentWeapon)]; ok && p.inv.CurrentWeapon() != r.w {
			p.inv.EquipWeapon(r.w)
		}

		if p.local || !entry.HasComponent(netcomponents.NetPosition) || !entry.HasComponent(netcomponents.NetAim) {
			return
		}
		pos := netcomponents.NetPosition.Get(entry)
		aim := netcomponents.NetAim.Get(entry)
		p.inv.SetAim(gamemath.V(pos.X, pos.Y), gamemath.V(aim.DirX, aim.DirY))
	})
}

func (w *World) removeWeapon(id esync.NetworkId) {
	r, ok := w.weapons[id]
	if !ok {
		return
	}
	if p := w.pawns[r.holder]; p != nil {
		p.inv.RemoveWeapon(r.w)
	}
	r.w.Destroy()
	w.dispatcher.Unregister(uint(id))
	delete(w.weapons, id)
}

func (w *World) removePawn(id esync.NetworkId) {
	p, ok := w.pawns[id]
	if !ok {
		return
	}
	for wid, r := range w.weapons {
		if r.holder == id {
			w.removeWeapon(wid)
		}
	}
	p.inv.Kill()
	delete(w.pawns, id)
}

// ApplyBatch routes one weapon batch to the replicas.
func (w *World) ApplyBatch(b messages.WeaponBatch) {
	w.dispatcher.Apply(b)
}

// Update advances the replica timers and pawn animations by dt seconds and
// returns the notifications of the local pawn's weapons.
func (w *World) Update(dt float64) []inventory.Event {
	w.sched.Advance(dt)

	var events []inventory.Event
	for _, p := range w.pawns {
		p.inv.Update(dt)
		drained := p.inv.DrainEvents()
		if p.local {
			events = append(events, drained...)
		}
	}
	return events
}

// Local returns the local pawn's inventory, or nil before its snapshot arrived.
func (w *World) Local() *inventory.Inventory {
	if p := w.pawns[w.opts.Local]; p != nil {
		return p.inv
	}
	return nil
}

// StartFire pulls the local trigger.
func (w *World) StartFire() {
	if inv := w.Local(); inv != nil {
		inv.StartFire()
	}
}

func (w *World) StopFire() {
	if inv := w.Local(); inv != nil {
		inv.StopFire()
	}
}

func (w *World) StartReload() {
	if inv := w.Local(); inv != nil {
		inv.StartReload()
	}
}

// Equip asks the server to cycle the local pawn's weapon. The switch happens
// when the pawn's CurrentWeapon comes back in a snapshot.
func (w *World) Equip(step int) error {
	return w.opts.Send(messages.EquipRequest{Step: step})
}

// Aim points the local pawn and tells the server when the aim changed.
func (w *World) Aim(origin, dir gamemath.Vec2) error {
	inv := w.Local()
	if inv == nil {
		return nil
	}
	inv.SetAim(origin, dir)
	_, d := inv.Aim()

	msg := messages.AimInput{X: origin.X, Y: origin.Y, DirX: d.X, DirY: d.Y}
	if msg == w.aimSent {
		return nil
	}
	w.aimSent = msg
	return w.opts.Send(msg)
}

// Weapon returns the replica of weapon id, or nil.
func (w *World) Weapon(id esync.NetworkId) *weapon.Weapon {
	if r, ok := w.weapons[id]; ok {
		return r.w
	}
	return nil
}

// Prediction returns the ammo prediction of an owned weapon, or nil.
func (w *World) Prediction(id esync.NetworkId) *AmmoPrediction {
	if r, ok := w.weapons[id]; ok {
		return r.pred
	}
	return nil
}

// Pawn returns the replicated state of pawn id.
func (w *World) Pawn(id esync.NetworkId) (netcomponents.NetPawnData, bool) {
	entity := esync.FindByNetworkId(w.world, id)
	if !w.world.Valid(entity) {
		return netcomponents.NetPawnData{}, false
	}
	entry := w.world.Entry(entity)
	if !entry.HasComponent(netcomponents.NetPawn) {
		return netcomponents.NetPawnData{}, false
	}
	return *netcomponents.NetPawn.Get(entry), true
}

// Pawns returns the ids of every replicated pawn.
func (w *World) Pawns() []esync.NetworkId {
	ids := make([]esync.NetworkId, 0, len(w.pawns))
	for id := range w.pawns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Position returns the replicated center of pawn id.
func (w *World) Position(id esync.NetworkId) (gamemath.Vec2, bool) {
	entity := esync.FindByNetworkId(w.world, id)
	if !w.world.Valid(entity) {
		return gamemath.Vec2{}, false
	}
	entry := w.world.Entry(entity)
	if !entry.HasComponent(netcomponents.NetPosition) {
		return gamemath.Vec2{}, false
	}
	pos := netcomponents.NetPosition.Get(entry)
	return gamemath.V(pos.X, pos.Y), true
}

// Dropped counts batch entries for weapons this world does not know.
func (w *World) Dropped() int {
	return w.dispatcher.Dropped()
}

func componentTypesFromInstances(components []any) []donburi.IComponentType {
	var ctypes []donburi.IComponentType
	for _, data := range components {
		switch data.(type) {
		case netcomponents.NetPositionData:
			ctypes = append(ctypes, netcomponents.NetPosition)
		case netcomponents.NetAimData:
			ctypes = append(ctypes, netcomponents.NetAim)
		case netcomponents.NetPawnData:
			ctypes = append(ctypes, netcomponents.NetPawn)
		case netcomponents.NetWeaponData:
			ctypes = append(ctypes, netcomponents.NetWeapon)
		case netcomponents.NetGameStateData:
			ctypes = append(ctypes, netcomponents.NetGameState)
		}
	}
	return ctypes
}

func applyComponentToEntry(entry *donburi.Entry, data any) {
	switch v := data.(type) {
	case netcomponents.NetPositionData:
		if !entry.HasComponent(netcomponents.NetPosition) {
			entry.AddComponent(netcomponents.NetPosition)
		}
		netcomponents.NetPosition.SetValue(entry, v)
	case netcomponents.NetAimData:
		if !entry.HasComponent(netcomponents.NetAim) {
			entry.AddComponent(netcomponents.NetAim)
		}
		netcomponents.NetAim.SetValue(entry, v)
	case netcomponents.NetPawnData:
		if !entry.HasComponent(netcomponents.NetPawn) {
			entry.AddComponent(netcomponents.NetPawn)
		}
		netcomponents.NetPawn.SetValue(entry, v)
	case netcomponents.NetWeaponData:
		if !entry.HasComponent(netcomponents.NetWeapon) {
			entry.AddComponent(netcomponents.NetWeapon)
		}
		netcomponents.NetWeapon.SetValue(entry, v)
	case netcomponents.NetGameStateData:
		if !entry.HasComponent(netcomponents.NetGameState) {
			entry.AddComponent(netcomponents.NetGameState)
		}
		netcomponents.NetGameState.SetValue(entry, v)
	}
}
