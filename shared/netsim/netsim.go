// Package netsim runs one authority and several clients in a single process,
// joined by links that delay every message by a fixed number of ticks. Each
// peer has its own scheduler, inventories and weapon replicas, and messages
// go through the same Outbox and Dispatcher the networked binaries use, so
// tests can check that replicas converge under latency.
package netsim

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/automoto/gunsync/shared/inventory"
	"github.com/automoto/gunsync/shared/messages"
	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/replication"
	"github.com/automoto/gunsync/shared/timer"
	"github.com/automoto/gunsync/shared/weapon"
)

// Predictor reconciles owner ammo patches and records each predicted shot.
type Predictor interface {
	replication.Reconciler
	Store(seq uint32)
}

// Options configures a Sim.
type Options struct {
	Clients   int
	Delay     int     // one-way link delay in ticks
	TickRate  float64 // seconds per tick
	Predictor func(w *weapon.Weapon) Predictor
	Logger    zerolog.Logger
}

type rpcInFlight struct {
	due  uint64
	from string
	rpc  messages.WeaponRPC
}

type batchInFlight struct {
	due   uint64
	batch messages.WeaponBatch
}

// Server is the authority peer. Weapon ids equal pawn ids; client i owns pawn i+1.
type Server struct {
	Sched   *timer.Scheduler
	Outbox  *replication.Outbox
	Pawns   map[weapon.ActorID]*inventory.Inventory
	Weapons map[uint]*weapon.Weapon

	inbox    []rpcInFlight
	rejected int
}

// Rejected counts calls the outbox refused.
func (s *Server) Rejected() int { return s.rejected }

// Client is one remote peer with a replica of every pawn.
type Client struct {
	Name       string
	Pawn       weapon.ActorID
	Sched      *timer.Scheduler
	Dispatcher *replication.Dispatcher
	Pawns      map[weapon.ActorID]*inventory.Inventory
	Weapons    map[uint]*weapon.Weapon
	Bridge     *replication.ClientBridge
	Predictor  Predictor

	inbox []batchInFlight
}

// Own returns the client's inventory for its own pawn.
func (c *Client) Own() *inventory.Inventory { return c.Pawns[c.Pawn] }

// OwnWeapon returns the client's replica of its own weapon.
func (c *Client) OwnWeapon() *weapon.Weapon { return c.Weapons[uint(c.Pawn)] }

// Sim is the whole in-process network.
type Sim struct {
	Server  *Server
	Clients []*Client

	opts Options
	tick uint64
}

// New builds a sim where every pawn holds one weapon of type cfg.
func New(cfg *weapon.Config, opts Options) *Sim {
	if opts.TickRate <= 0 {
		opts.TickRate = 1.0 / 60.0
	}
	sim := &Sim{opts: opts}

	srv := &Server{
		Sched:   timer.NewScheduler(),
		Outbox:  replication.NewOutbox(),
		Pawns:   make(map[weapon.ActorID]*inventory.Inventory),
		Weapons: make(map[uint]*weapon.Weapon),
	}
	for i := 0; i < opts.Clients; i++ {
		pawn := weapon.ActorID(i + 1)
		id := uint(pawn)
		w := weapon.New(id, cfg, weapon.Deps{
			Scheduler: srv.Sched,
			Bridge:    replication.NewServerBridge(srv.Outbox, id, true),
			Logger:    opts.Logger.With().Str("peer", "server").Logger(),
		})
		srv.Outbox.SetOwner(id, clientName(i))
		inv := inventory.New(pawn, nil)
		inv.AddWeapon(w)
		srv.Pawns[pawn] = inv
		srv.Weapons[id] = w
	}
	sim.Server = srv

	for i := 0; i < opts.Clients; i++ {
		sim.Clients = append(sim.Clients, sim.newClient(cfg, i))
	}

	// spawning queued the seeded ledger; that is not traffic
	srv.Outbox.Flush(nil)
	return sim
}

func clientName(i int) string {
	return fmt.Sprintf("client-%d", i)
}

func (sim *Sim) newClient(cfg *weapon.Config, i int) *Client {
	c := &Client{
		Name:       clientName(i),
		Pawn:       weapon.ActorID(i + 1),
		Sched:      timer.NewScheduler(),
		Dispatcher: replication.NewDispatcher(sim.opts.Logger),
		Pawns:      make(map[weapon.ActorID]*inventory.Inventory),
		Weapons:    make(map[uint]*weapon.Weapon),
	}
	log := sim.opts.Logger.With().Str("peer", c.Name).Logger()

	for p := 0; p < sim.opts.Clients; p++ {
		pawn := weapon.ActorID(p + 1)
		id := uint(pawn)
		own := pawn == c.Pawn

		role := netconfig.RoleSimulatedProxy
		var invOpts []inventory.Option
		if own {
			role = netconfig.RoleAutonomousProxy
			invOpts = append(invOpts, inventory.LocallyControlled())
		}
		bridge := replication.NewClientBridge(id, role, func(rpc messages.WeaponRPC) {
			sim.Server.inbox = append(sim.Server.inbox, rpcInFlight{
				due:  sim.tick + uint64(sim.opts.Delay),
				from: c.Name,
				rpc:  rpc,
			})
		})
		w := weapon.New(id, cfg, weapon.Deps{
			Scheduler: c.Sched,
			Bridge:    bridge,
			Logger:    log,
		})
		inv := inventory.New(pawn, nil, invOpts...)
		inv.AddWeapon(w)

		c.Pawns[pawn] = inv
		c.Weapons[id] = w
		c.Dispatcher.Register(id, w)

		if own {
			c.Bridge = bridge
			if sim.opts.Predictor != nil {
				c.Predictor = sim.opts.Predictor(w)
				c.Dispatcher.SetReconciler(id, c.Predictor)
				bridge.OnFire(c.Predictor.Store)
			}
		}
	}
	return c
}

// SendAs queues a raw call from client i, bypassing its replicas.
func (sim *Sim) SendAs(i int, rpc messages.WeaponRPC) {
	sim.Server.inbox = append(sim.Server.inbox, rpcInFlight{
		due:  sim.tick + uint64(sim.opts.Delay),
		from: clientName(i),
		rpc:  rpc,
	})
}

// Now returns the current tick.
func (sim *Sim) Now() uint64 { return sim.tick }

// Tick advances every peer by one tick: the server applies the calls that
// arrived, runs its timers and flushes its outbox onto the links, then each
// client applies the batches that arrived and runs its timers.
func (sim *Sim) Tick() {
	sim.tick++
	dt := sim.opts.TickRate

	srv := sim.Server
	kept := srv.inbox[:0]
	for _, m := range srv.inbox {
		if m.due > sim.tick {
			kept = append(kept, m)
			continue
		}
		if err := srv.Outbox.Deliver(m.from, m.rpc, srv.weapon(m.rpc.Weapon)); err != nil {
			srv.rejected++
			sim.opts.Logger.Warn().Err(err).Str("peer", m.from).Msg("rejected call")
		}
	}
	srv.inbox = kept
	srv.Sched.Advance(dt)

	names := make([]string, len(sim.Clients))
	for i, c := range sim.Clients {
		names[i] = c.Name
	}
	for name, batch := range srv.Outbox.Flush(names) {
		c := sim.client(name)
		c.inbox = append(c.inbox, batchInFlight{due: sim.tick + uint64(sim.opts.Delay), batch: batch})
	}

	for _, c := range sim.Clients {
		pending := c.inbox[:0]
		for _, b := range c.inbox {
			if b.due > sim.tick {
				pending = append(pending, b)
				continue
			}
			c.Dispatcher.Apply(b.batch)
		}
		c.inbox = pending
		c.Sched.Advance(dt)
	}
}

// Run advances n ticks.
func (sim *Sim) Run(n int) {
	for range n {
		sim.Tick()
	}
}

// RunSeconds advances by at least d seconds of game time.
func (sim *Sim) RunSeconds(d float64) {
	n := int(d/sim.opts.TickRate + 0.5)
	sim.Run(n)
}

// Settle runs until nothing is in flight and no timer is pending, or until
// limit ticks have passed. It reports whether the network went quiet.
func (sim *Sim) Settle(limit int) bool {
	for range limit {
		if sim.quiet() {
			return true
		}
		sim.Tick()
	}
	return sim.quiet()
}

func (sim *Sim) quiet() bool {
	if len(sim.Server.inbox) > 0 || sim.Server.Outbox.Pending() > 0 || sim.Server.Sched.Pending() > 0 {
		return false
	}
	for _, c := range sim.Clients {
		if len(c.inbox) > 0 || c.Sched.Pending() > 0 {
			return false
		}
	}
	return true
}

func (sim *Sim) client(name string) *Client {
	for _, c := range sim.Clients {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// weapon returns nil (not a typed nil) for unknown ids so Deliver can tell.
func (s *Server) weapon(id uint) replication.ServerReceiver {
	w, ok := s.Weapons[id]
	if !ok {
		return nil
	}
	return w
}
