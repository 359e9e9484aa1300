package core

import (
	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/messages"
	"github.com/automoto/gunsync/shared/netcomponents"
	"github.com/automoto/gunsync/shared/weapon"
)

// ApplyShot damages every live pawn the shot hit. It is the weapon.Referee
// of every authority weapon.
func (g *Game) ApplyShot(w *weapon.Weapon, shot weapon.Shot) {
	shooter := g.pawns[shot.Instigator]
	if shooter == nil {
		return
	}

	hits := 0
	for _, hit := range shot.Hits {
		if hit.Actor == 0 {
			continue
		}
		target := g.pawns[hit.Actor]
		if target == nil || !target.inv.Alive() {
			continue
		}
		hits++
		g.damage(shooter, target, w, shot.Damage, hit.Point)
	}

	g.recorder.Shot(shooter.name, w.Config().Name, hits)
	g.metrics.shot(w.Config().Name, hits)
}

// ReloadApplied records a finished reload.
func (g *Game) ReloadApplied(w *weapon.Weapon, rounds int) {
	if w.Holder() == nil {
		return
	}
	p := g.pawns[w.Holder().ActorID()]
	if p == nil {
		return
	}
	g.recorder.Reload(p.name, w.Config().Name)
	g.log.Debug().Str("player", p.name).Uint("weapon", w.ID()).Int("rounds", rounds).Msg("reloaded")
}

func (g *Game) damage(shooter, target *player, w *weapon.Weapon, amount int, at gamemath.Vec2) {
	target.health -= amount
	g.broadcast(messages.HitEvent{
		AttackerID: uint(shooter.id),
		TargetID:   uint(target.id),
		Weapon:     w.ID(),
		Damage:     amount,
		X:          at.X,
		Y:          at.Y,
	})
	if target.health <= 0 {
		g.kill(target, shooter, w)
	}
}

// kill takes victim out of the trace world until it respawns. The killer's
// weapon of the same ammo type is topped up.
func (g *Game) kill(victim, killer *player, w *weapon.Weapon) {
	victim.health = 0
	victim.deaths++
	victim.inv.Kill()
	g.level.World.RemoveActor(victim.id)

	var killerID uint
	if killer != nil && killer != victim {
		killerID = uint(killer.id)
		killer.kills++
		g.recorder.Kill(killer.name, w.Config().Name)
		if g.cfg.AmmoOnKill > 0 {
			if same := killer.inv.FindByAmmoType(w.AmmoType()); same != nil {
				same.GiveAmmo(g.cfg.AmmoOnKill)
			}
		}
		g.syncPawn(killer)
	}
	g.syncPawn(victim)

	g.broadcast(messages.DeathEvent{
		VictimID: uint(victim.id),
		KillerID: killerID,
		Weapon:   w.ID(),
	})
	g.log.Info().Str("victim", victim.name).Uint("killer", killerID).Str("weapon", w.Config().Name).Msg("pawn killed")

	if g.cfg.RespawnDelay <= 0 {
		g.respawn(victim)
		return
	}
	victim.respawn = g.sched.SetTimer(func() { g.respawn(victim) }, g.cfg.RespawnDelay, false)
}

// respawn places p on a free spawn point with full health and a full ledger.
func (g *Game) respawn(p *player) {
	p.respawn = 0
	if _, ok := g.pawns[p.id]; !ok {
		return
	}

	spawn := g.level.FreeSpawn(int(p.id))
	center := pawnCenter(spawn)
	g.level.World.AddActor(p.id, spawn.X, spawn.Y)
	p.inv.SetAim(center, gamemath.V(1, 0))
	p.health = g.cfg.PawnHealth
	p.inv.Revive()
	for _, w := range p.inv.Weapons() {
		w.GiveAmmo(w.MaxAmmo())
	}

	entry := g.world.Entry(p.pawn)
	pos := netcomponents.NetPosition.Get(entry)
	pos.X, pos.Y = center.X, center.Y
	aim := netcomponents.NetAim.Get(entry)
	aim.DirX, aim.DirY = 1, 0
	g.syncPawn(p)

	g.broadcast(messages.RespawnEvent{NetworkID: uint(p.id), X: center.X, Y: center.Y})
	g.log.Info().Str("player", p.name).Msg("pawn respawned")
}
