package core

import (
	"context"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/rs/zerolog"
)

type GameLoop struct {
	server        *Server
	tickRate      int
	flushInterval float64
	sinceFlush    float64
	log           zerolog.Logger
}

func NewGameLoop(server *Server, tickRate int, flushInterval float64, log zerolog.Logger) *GameLoop {
	return &GameLoop{
		server:        server,
		tickRate:      tickRate,
		flushInterval: flushInterval,
		log:           log,
	}
}

func (g *GameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	g.log.Info().Msgf("game loop started at %d ticks/second", g.tickRate)

	for {
		select {
		case <-ctx.Done():
			g.log.Info().Msg("game loop stopped")
			return nil
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *GameLoop) tick() {
	dt := 1.0 / float64(g.tickRate)

	g.server.ProcessCommands()
	g.server.game.Tick(dt)

	if err := srvsync.DoSync(); err != nil {
		g.log.Warn().Err(err).Msg("sync error")
	}

	g.sinceFlush += dt
	if g.flushInterval > 0 && g.sinceFlush >= g.flushInterval {
		g.sinceFlush = 0
		g.server.handOffStats()
	}
}
