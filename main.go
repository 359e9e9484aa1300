// Command gunsync runs a headless bot client: it joins a server, mirrors the
// match and plays with predicted weapons.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/leap-fish/necs/esync"
	"github.com/rs/zerolog"

	"github.com/automoto/gunsync/assets"
	"github.com/automoto/gunsync/bot"
	"github.com/automoto/gunsync/config"
	"github.com/automoto/gunsync/network"
	"github.com/automoto/gunsync/shared/collision"
	"github.com/automoto/gunsync/shared/leveldata"
	"github.com/automoto/gunsync/shared/logging"
	"github.com/automoto/gunsync/shared/protocol"
	"github.com/automoto/gunsync/shared/weapon"
)

const statusInterval = 5 * time.Second

func main() {
	configDir := flag.String("config", ".", "Directory searched for "+config.FileName)
	addr := flag.String("addr", "", "Server address host:port (overrides config)")
	name := flag.String("name", "", "Player name (overrides config)")
	difficulty := flag.String("difficulty", "", "Bot difficulty: easy, normal, hard (overrides config)")
	version := flag.String("version", "", "Client version sent on join")
	seed := flag.Int64("seed", 1, "Seed for bot aim jitter")
	logLevel := flag.String("log", "info", "Log level: trace, debug, info, warn, error")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		bootLog := logging.New("client")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	cfg := &config.Client
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Address = *addr
		case "name":
			cfg.PlayerName = *name
		case "difficulty":
			cfg.Difficulty = config.ParseBotDifficulty(*difficulty)
		}
	})

	logging.Setup(*logLevel, nil)
	log := logging.New("client")

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatal().Err(err).Msg("failed to register components")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *cfg, *version, *seed, log); err != nil {
		log.Error().Err(err).Msg("client stopped")
		os.Exit(1)
	}
	log.Info().Msg("client stopped")
}

func run(ctx context.Context, cfg config.ClientConfig, version string, seed int64, log zerolog.Logger) error {
	client := network.NewClient(logging.New("net"))
	client.Connect(cfg.Address, version, cfg.PlayerName, "")
	defer client.Disconnect()

	log.Info().
		Str("address", cfg.Address).
		Str("name", cfg.PlayerName).
		Stringer("difficulty", cfg.Difficulty).
		Msg("connecting")

	frameRate := cfg.FrameRate
	if frameRate <= 0 {
		frameRate = 60
	}
	dt := 1.0 / float64(frameRate)
	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	var (
		world      *network.World
		sink       *network.LogSink
		brain      *bot.Bot
		lastStatus time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		switch client.State() {
		case network.StateError:
			return client.LastError()
		case network.StateDisconnected:
			if world != nil {
				log.Info().Msg("server closed the connection")
				return nil
			}
			continue
		case network.StateJoinedGame:
		default:
			continue
		}

		if world == nil {
			sink = network.NewLogSink(logging.New("fx"))
			world = network.NewWorld(network.WorldOptions{
				Local:      client.NetworkID(),
				Catalog:    config.Weapons,
				Animations: config.PawnAnimations,
				Send:       client.SendMessage,
				Sink:       sink,
				Tracer:     loadTracer(client.Level(), log),
				Logger:     logging.New("world"),
			})
			brain = bot.New(client.NetworkID(), cfg.Difficulty, seed)
			lastStatus = time.Now()
		}

		if snap := client.LatestSnapshot(); snap != nil {
			world.ApplySnapshot(*snap)
		}
		for _, batch := range client.DrainWeaponBatches() {
			world.ApplyBatch(batch)
		}
		logEvents(client, log)

		brain.Update(world, world)
		for _, evt := range world.Update(dt) {
			if evt.Weapon != nil {
				log.Debug().Stringer("event", evt.Kind).Uint("weapon", evt.Weapon.ID()).Msg("weapon event")
			}
		}

		if time.Since(lastStatus) >= statusInterval {
			lastStatus = time.Now()
			logStatus(world, client, sink, brain, log)
		}
	}
}

// loadTracer builds a trace world of the server's level so local shots spawn
// impacts where they hit. Without it shots only play muzzle effects.
func loadTracer(level string, log zerolog.Logger) weapon.Tracer {
	data, err := leveldata.LoadCollisionData(assets.Levels(), path.Join("levels", level+".tmx"))
	if err != nil {
		log.Warn().Err(err).Str("level", level).Msg("no local trace world")
		return nil
	}
	return collision.NewWorld(data)
}

func logEvents(client *network.Client, log zerolog.Logger) {
	local := uint(client.NetworkID())
	for _, hit := range client.DrainHitEvents() {
		if hit.TargetID == local || hit.AttackerID == local {
			log.Debug().Uint("attacker", hit.AttackerID).Uint("target", hit.TargetID).Int("damage", hit.Damage).Msg("hit")
		}
	}
	for _, death := range client.DrainDeathEvents() {
		log.Info().Uint("victim", death.VictimID).Uint("killer", death.KillerID).Msg("kill")
	}
	for _, rs := range client.DrainRespawnEvents() {
		if rs.NetworkID == local {
			log.Info().Float64("x", rs.X).Float64("y", rs.Y).Msg("respawned")
		}
	}
}

func logStatus(world *network.World, client *network.Client, sink *network.LogSink, brain *bot.Bot, log zerolog.Logger) {
	ev := log.Info().Stringer("bot", brain.State())
	if me, ok := world.Pawn(client.NetworkID()); ok {
		ev = ev.Int("health", me.Health).Int("kills", me.Kills).Int("deaths", me.Deaths)
	}
	if inv := world.Local(); inv != nil {
		if w := inv.CurrentWeapon(); w != nil {
			ev = ev.Str("weapon", w.Config().Name).Int("clip", w.CurrentAmmoInClip()).Int("ammo", w.CurrentAmmo())
			if pred := world.Prediction(esync.NetworkId(w.ID())); pred != nil {
				ev = ev.Int("mispredicted", pred.Mispredictions())
			}
		}
	}
	ev.Int64("effects", sink.Effects()).Int("dropped", world.Dropped()).Msg("status")
}
