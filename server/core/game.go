package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"

	"github.com/automoto/gunsync/config"
	"github.com/automoto/gunsync/server/stats"
	"github.com/automoto/gunsync/shared/anim"
	"github.com/automoto/gunsync/shared/collision"
	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/inventory"
	"github.com/automoto/gunsync/shared/messages"
	"github.com/automoto/gunsync/shared/netcomponents"
	"github.com/automoto/gunsync/shared/replication"
	"github.com/automoto/gunsync/shared/timer"
	"github.com/automoto/gunsync/shared/weapon"
)

// Peer is a connected client as the game sees it.
type Peer interface {
	Id() string
	SendMessage(msg any) error
}

var (
	ErrVersionMismatch = errors.New("version mismatch")
	ErrServerFull      = errors.New("server full")
	ErrAlreadyJoined   = errors.New("already joined")
	ErrNotJoined       = errors.New("not joined")
	ErrUnknownType     = errors.New("unknown weapon type")
)

type player struct {
	peer    Peer
	name    string
	token   string
	id      weapon.ActorID
	pawn    donburi.Entity
	inv     *inventory.Inventory
	weapons map[uint]donburi.Entity
	health  int
	kills   int
	deaths  int
	respawn timer.Handle
}

// departed keeps the score of a player who left, keyed by reconnect token.
type departed struct {
	name   string
	kills  int
	deaths int
}

// PlayerInfo is a read-only view of one joined player.
type PlayerInfo struct {
	ID     weapon.ActorID
	Name   string
	Token  string
	Health int
	Alive  bool
	Kills  int
	Deaths int
	Weapon uint // current weapon id, 0 when unarmed
}

// Game is the authoritative simulation: pawns, their weapons, combat and the
// weapon outbox. It is driven by a single goroutine and does no I/O except
// through Peer.
type Game struct {
	cfg      config.ServerConfig
	catalog  map[string]*weapon.Config
	world    donburi.World
	sched    *timer.Scheduler
	outbox   *replication.Outbox
	level    *ServerLevel
	recorder *stats.Recorder
	metrics  *Metrics
	log      zerolog.Logger

	players  map[string]*player // by peer id
	pawns    map[weapon.ActorID]*player
	weapons  map[uint]*weapon.Weapon
	departed map[string]departed
	state    donburi.Entity
	elapsed  float64
	joins    int
}

// GameOption configures a Game.
type GameOption func(*Game)

func WithLogger(log zerolog.Logger) GameOption {
	return func(g *Game) { g.log = log }
}

func WithMetrics(m *Metrics) GameOption {
	return func(g *Game) { g.metrics = m }
}

// WithCatalog replaces the weapon catalog, which defaults to config.Weapons.
func WithCatalog(catalog map[string]*weapon.Config) GameOption {
	return func(g *Game) { g.catalog = catalog }
}

// NewGame creates an empty match on level.
func NewGame(cfg config.ServerConfig, level *ServerLevel, opts ...GameOption) (*Game, error) {
	world := donburi.NewWorld()

	g := &Game{
		cfg:      cfg,
		catalog:  config.Weapons,
		world:    world,
		sched:    timer.NewScheduler(),
		outbox:   replication.NewOutbox(),
		level:    level,
		recorder: stats.NewRecorder(),
		log:      zerolog.Nop(),
		players:  make(map[string]*player),
		pawns:    make(map[weapon.ActorID]*player),
		weapons:  make(map[uint]*weapon.Weapon),
		departed: make(map[string]departed),
	}
	for _, opt := range opts {
		opt(g)
	}

	// Set up the world for esync
	srvsync.UseEsync(world)

	g.state = world.Create(netcomponents.NetGameState)
	netcomponents.NetGameState.Set(world.Entry(g.state), &netcomponents.NetGameStateData{
		Scores: make(map[uint]int),
	})
	if err := srvsync.NetworkSync(world, &g.state, netcomponents.NetGameState); err != nil {
		return nil, fmt.Errorf("sync game state: %w", err)
	}
	return g, nil
}

// Join spawns a pawn with the configured loadout for peer. A rejected join
// is answered with JoinRejected and returned as an error.
func (g *Game) Join(peer Peer, req messages.JoinRequest) error {
	if _, ok := g.players[peer.Id()]; ok {
		return fmt.Errorf("join %s: %w", peer.Id(), ErrAlreadyJoined)
	}
	if g.cfg.Version != "" && req.Version != g.cfg.Version {
		return g.reject(peer, fmt.Errorf("client %q, server %q: %w", req.Version, g.cfg.Version, ErrVersionMismatch))
	}
	if g.cfg.MaxPlayers > 0 && len(g.players) >= g.cfg.MaxPlayers {
		return g.reject(peer, fmt.Errorf("%d players: %w", len(g.players), ErrServerFull))
	}

	g.joins++
	p := &player{
		peer:    peer,
		name:    req.PlayerName,
		token:   req.ReconnectToken,
		weapons: make(map[uint]donburi.Entity),
		health:  g.cfg.PawnHealth,
	}
	if prev, ok := g.departed[p.token]; ok && p.token != "" {
		delete(g.departed, p.token)
		p.name, p.kills, p.deaths = prev.name, prev.kills, prev.deaths
	} else {
		p.token = uuid.NewString()
	}
	if p.name == "" {
		p.name = fmt.Sprintf("player-%d", g.joins)
	}

	spawn := g.level.FreeSpawn(g.joins - 1)
	center := pawnCenter(spawn)

	p.pawn = g.world.Create(netcomponents.NetPosition, netcomponents.NetAim, netcomponents.NetPawn)
	entry := g.world.Entry(p.pawn)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: center.X, Y: center.Y})
	netcomponents.NetAim.Set(entry, &netcomponents.NetAimData{DirX: 1})
	netcomponents.NetPawn.Set(entry, &netcomponents.NetPawnData{
		Name:   p.name,
		Health: p.health,
		Alive:  true,
		Kills:  p.kills,
		Deaths: p.deaths,
	})

	// Mark entity for network sync with interpolation for position
	err := srvsync.NetworkSync(g.world, &p.pawn,
		srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetAim),
		netcomponents.NetPawn,
	)
	if err != nil {
		g.world.Remove(p.pawn)
		return fmt.Errorf("sync pawn: %w", err)
	}
	nid := esync.GetNetworkId(entry)
	if nid == nil {
		g.world.Remove(p.pawn)
		return fmt.Errorf("pawn for %s has no network id", peer.Id())
	}
	p.id = weapon.ActorID(*nid)

	p.inv = inventory.New(p.id, anim.NewAnimator(config.PawnAnimations))
	p.inv.SetAim(center, gamemath.V(1, 0))
	g.level.World.AddActor(p.id, spawn.X, spawn.Y)

	g.players[peer.Id()] = p
	g.pawns[p.id] = p

	for slot, name := range g.cfg.Loadout {
		if _, err := g.giveWeapon(p, name, slot); err != nil {
			g.log.Error().Err(err).Str("player", p.name).Msg("loadout weapon skipped")
		}
	}
	g.syncPawn(p)

	if err := peer.SendMessage(messages.JoinAccepted{
		NetworkID:      *nid,
		ReconnectToken: p.token,
		ServerName:     g.cfg.Name,
		TickRate:       g.cfg.TickRate,
		Level:          g.level.Name,
	}); err != nil {
		g.log.Warn().Err(err).Str("peer", peer.Id()).Msg("failed to send join accepted")
	}

	g.metrics.playerJoined()
	g.log.Info().
		Str("peer", peer.Id()).
		Str("player", p.name).
		Uint("pawn", uint(p.id)).
		Int("weapons", len(p.weapons)).
		Msg("player joined")
	return nil
}

func (g *Game) reject(peer Peer, reason error) error {
	if err := peer.SendMessage(messages.JoinRejected{Reason: reason.Error()}); err != nil {
		g.log.Warn().Err(err).Str("peer", peer.Id()).Msg("failed to send join rejected")
	}
	g.log.Info().Err(reason).Str("peer", peer.Id()).Msg("join rejected")
	return fmt.Errorf("join %s: %w", peer.Id(), reason)
}

// giveWeapon spawns a weapon of the named type into p's inventory.
func (g *Game) giveWeapon(p *player, typeName string, slot int) (*weapon.Weapon, error) {
	cfg, ok := g.catalog[typeName]
	if !ok {
		return nil, fmt.Errorf("%q: %w", typeName, ErrUnknownType)
	}

	entity := g.world.Create(netcomponents.NetWeapon)
	entry := g.world.Entry(entity)
	netcomponents.NetWeapon.Set(entry, &netcomponents.NetWeaponData{
		Type:   typeName,
		Holder: uint(p.id),
		Slot:   slot,
	})
	if err := srvsync.NetworkSync(g.world, &entity, netcomponents.NetWeapon); err != nil {
		g.world.Remove(entity)
		return nil, fmt.Errorf("sync weapon: %w", err)
	}
	nid := esync.GetNetworkId(entry)
	if nid == nil {
		g.world.Remove(entity)
		return nil, fmt.Errorf("weapon %q has no network id", typeName)
	}
	id := uint(*nid)

	w := weapon.New(id, cfg, weapon.Deps{
		Scheduler: g.sched,
		Bridge:    replication.NewServerBridge(g.outbox, id, true),
		Tracer:    g.level.World,
		Referee:   g,
		Logger:    g.log,
	})
	g.outbox.SetOwner(id, p.peer.Id())
	g.weapons[id] = w
	p.weapons[id] = entity
	p.inv.AddWeapon(w)
	return w, nil
}

// Leave removes the peer's pawn and weapons. The score is kept for a
// reconnect with the same token.
func (g *Game) Leave(peerID string) {
	p, ok := g.players[peerID]
	if !ok {
		return
	}
	g.sched.ClearTimer(p.respawn)

	p.inv.Kill()
	for _, w := range append([]*weapon.Weapon(nil), p.inv.Weapons()...) {
		p.inv.RemoveWeapon(w)
		g.removeWeapon(p, w)
	}

	g.level.World.RemoveActor(p.id)
	if g.world.Valid(p.pawn) {
		g.world.Remove(p.pawn)
	}
	delete(g.players, peerID)
	delete(g.pawns, p.id)
	g.departed[p.token] = departed{name: p.name, kills: p.kills, deaths: p.deaths}

	scores := netcomponents.NetGameState.Get(g.world.Entry(g.state)).Scores
	delete(scores, uint(p.id))

	g.metrics.playerLeft()
	g.log.Info().Str("peer", peerID).Str("player", p.name).Msg("player left")
}

func (g *Game) removeWeapon(p *player, w *weapon.Weapon) {
	id := w.ID()
	w.Destroy()
	g.outbox.Forget(id)
	delete(g.weapons, id)
	if entity, ok := p.weapons[id]; ok {
		if g.world.Valid(entity) {
			g.world.Remove(entity)
		}
		delete(p.weapons, id)
	}
}

// HandleRPC delivers a weapon call from peerID to the authority weapon.
func (g *Game) HandleRPC(peerID string, rpc messages.WeaponRPC) error {
	var recv replication.ServerReceiver
	if w, ok := g.weapons[rpc.Weapon]; ok {
		recv = w
	}
	if err := g.outbox.Deliver(peerID, rpc, recv); err != nil {
		g.metrics.rejectedCall(rejectReason(err))
		g.log.Warn().Err(err).Str("peer", peerID).Msg("rejected weapon call")
		return err
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, replication.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, replication.ErrUnknownWeapon):
		return "unknown_weapon"
	case errors.Is(err, replication.ErrUnexpectedCall):
		return "unexpected_call"
	}
	return "other"
}

// HandleAim moves the peer's pawn to the reported muzzle origin and sets
// its aim. Dead pawns ignore it.
func (g *Game) HandleAim(peerID string, in messages.AimInput) error {
	p, ok := g.players[peerID]
	if !ok {
		return fmt.Errorf("aim from %s: %w", peerID, ErrNotJoined)
	}
	if !p.inv.Alive() {
		return nil
	}

	corner := g.level.Clamp(gamemath.V(in.X-collision.PawnWidth/2, in.Y-collision.PawnHeight/2))
	center := pawnCenter(corner)
	g.level.World.MoveActor(p.id, corner.X, corner.Y)
	p.inv.SetAim(center, gamemath.V(in.DirX, in.DirY))

	_, dir := p.inv.Aim()
	entry := g.world.Entry(p.pawn)
	pos := netcomponents.NetPosition.Get(entry)
	pos.X, pos.Y = center.X, center.Y
	aim := netcomponents.NetAim.Get(entry)
	aim.DirX, aim.DirY = dir.X, dir.Y
	return nil
}

// HandleEquip switches the peer's current weapon. The change reaches every
// client through the pawn's CurrentWeapon.
func (g *Game) HandleEquip(peerID string, req messages.EquipRequest) error {
	p, ok := g.players[peerID]
	if !ok {
		return fmt.Errorf("equip from %s: %w", peerID, ErrNotJoined)
	}
	switch {
	case req.Weapon != 0:
		w, ok := g.weapons[req.Weapon]
		if !ok || w.Holder() != weapon.Holder(p.inv) {
			return fmt.Errorf("equip weapon %d: %w", req.Weapon, replication.ErrNotOwner)
		}
		p.inv.EquipWeapon(w)
	case req.Step > 0:
		p.inv.NextWeapon()
	case req.Step < 0:
		p.inv.PrevWeapon()
	}
	g.syncPawn(p)
	return nil
}

// Tick advances the match by dt seconds and sends every client its weapon batch.
func (g *Game) Tick(dt float64) {
	start := time.Now()
	g.elapsed += dt
	g.sched.Advance(dt)

	for _, p := range g.players {
		p.inv.Update(dt)
		for _, ev := range p.inv.DrainEvents() {
			if ev.Kind == inventory.EventStartReload {
				g.log.Debug().Str("player", p.name).Uint("weapon", ev.Weapon.ID()).Msg("reload started")
			}
		}
		g.syncPawn(p)
	}
	g.flush()
	g.syncGameState()

	g.metrics.tick(time.Since(start))
}

func (g *Game) flush() {
	if g.outbox.Pending() == 0 {
		return
	}
	recipients := make([]string, 0, len(g.players))
	for id := range g.players {
		recipients = append(recipients, id)
	}
	for id, batch := range g.outbox.Flush(recipients) {
		p := g.players[id]
		if err := p.peer.SendMessage(batch); err != nil {
			g.log.Debug().Err(err).Str("peer", id).Msg("failed to send weapon batch")
			continue
		}
		g.metrics.patchesSent(len(batch.Patches))
	}
}

func (g *Game) syncPawn(p *player) {
	d := netcomponents.NetPawn.Get(g.world.Entry(p.pawn))
	d.Health = p.health
	d.Alive = p.inv.Alive()
	d.Kills = p.kills
	d.Deaths = p.deaths
	d.CurrentWeapon = 0
	if w := p.inv.CurrentWeapon(); w != nil {
		d.CurrentWeapon = w.ID()
	}
}

func (g *Game) syncGameState() {
	d := netcomponents.NetGameState.Get(g.world.Entry(g.state))
	d.Elapsed = g.elapsed
	d.Players = len(g.players)
	for _, p := range g.players {
		d.Scores[uint(p.id)] = p.kills
	}
	if len(g.players) < 2 {
		d.MatchState = netcomponents.MatchStateWaiting
	} else {
		d.MatchState = netcomponents.MatchStatePlaying
	}
}

func (g *Game) broadcast(msg any) {
	for id, p := range g.players {
		if err := p.peer.SendMessage(msg); err != nil {
			g.log.Debug().Err(err).Str("peer", id).Msg("failed to broadcast")
		}
	}
}

func pawnCenter(corner gamemath.Vec2) gamemath.Vec2 {
	return corner.Add(gamemath.V(collision.PawnWidth/2, collision.PawnHeight/2))
}

// Player returns a view of the player on peerID.
func (g *Game) Player(peerID string) (PlayerInfo, bool) {
	p, ok := g.players[peerID]
	if !ok {
		return PlayerInfo{}, false
	}
	info := PlayerInfo{
		ID:     p.id,
		Name:   p.name,
		Token:  p.token,
		Health: p.health,
		Alive:  p.inv.Alive(),
		Kills:  p.kills,
		Deaths: p.deaths,
	}
	if w := p.inv.CurrentWeapon(); w != nil {
		info.Weapon = w.ID()
	}
	return info, true
}

// Weapon returns the authority weapon with id, or nil.
func (g *Game) Weapon(id uint) *weapon.Weapon {
	return g.weapons[id]
}

// PlayerCount returns the number of joined players.
func (g *Game) PlayerCount() int {
	return len(g.players)
}

// Stats returns the recorder of stat deltas since the last drain.
func (g *Game) Stats() *stats.Recorder {
	return g.recorder
}

// Elapsed returns the match time in seconds.
func (g *Game) Elapsed() float64 {
	return g.elapsed
}
