package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/automoto/gunsync/server/stats"
	"github.com/automoto/gunsync/shared/messages"
)

// Server connects a Game to the websocket transport. Router callbacks run on
// necs goroutines and only queue commands; the game loop runs them at the
// start of each tick.
type Server struct {
	game      *Game
	loop      *GameLoop
	transport *transports.WsServerTransport
	store     *stats.Store
	statsCh   chan []stats.WeaponStat
	unflushed *stats.Recorder // owned by the stats writer
	log       zerolog.Logger

	mu       sync.Mutex
	commands []func()
	players  atomic.Int32
}

// NewServer creates a server around game. store may be nil to keep no stats.
func NewServer(game *Game, tickRate int, flushInterval float64, store *stats.Store, log zerolog.Logger) *Server {
	s := &Server{
		game:      game,
		store:     store,
		statsCh:   make(chan []stats.WeaponStat, 4),
		unflushed: stats.NewRecorder(),
		log:       log,
	}
	s.loop = NewGameLoop(s, tickRate, flushInterval, log)

	// Register router callbacks
	s.setupRouterCallbacks()

	return s
}

// Run serves on port until ctx is done, then writes the remaining stats.
func (s *Server) Run(ctx context.Context, port uint) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.loop.Run(ctx)
	})
	g.Go(func() error {
		return s.writeStats(ctx)
	})
	g.Go(func() error {
		// Create and start WebSocket transport
		s.transport = transports.NewWsServerTransport(port, "", nil)
		errCh := make(chan error, 1)
		go func() { errCh <- s.transport.Start() }()
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("transport: %w", err)
			}
			<-ctx.Done()
			return nil
		case <-ctx.Done():
			return nil
		}
	})

	err := g.Wait()
	if ferr := s.finalFlush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.log.Info().Str("peer", client.Id()).Msg("client connected")
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			s.log.Info().Err(err).Str("peer", client.Id()).Msg("client disconnected")
		} else {
			s.log.Info().Str("peer", client.Id()).Msg("client disconnected")
		}
		id := client.Id()
		s.enqueue(func() { s.game.Leave(id) })
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.enqueue(func() {
			if err := s.game.Join(client, req); err != nil {
				s.log.Warn().Err(err).Str("peer", client.Id()).Msg("join failed")
			}
		})
	})

	router.On(func(client *router.NetworkClient, rpc messages.WeaponRPC) {
		id := client.Id()
		s.enqueue(func() { _ = s.game.HandleRPC(id, rpc) })
	})

	router.On(func(client *router.NetworkClient, aim messages.AimInput) {
		id := client.Id()
		s.enqueue(func() {
			if err := s.game.HandleAim(id, aim); err != nil {
				s.log.Warn().Err(err).Str("peer", id).Msg("aim refused")
			}
		})
	})

	router.On(func(client *router.NetworkClient, req messages.EquipRequest) {
		id := client.Id()
		s.enqueue(func() {
			if err := s.game.HandleEquip(id, req); err != nil {
				s.log.Warn().Err(err).Str("peer", id).Msg("equip refused")
			}
		})
	})

	// Handle errors
	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.Warn().Err(err).Msg("client error")
	})
}

func (s *Server) enqueue(cmd func()) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
}

// ProcessCommands runs the queued network commands in arrival order.
func (s *Server) ProcessCommands() {
	s.mu.Lock()
	cmds := s.commands
	s.commands = nil
	s.mu.Unlock()

	for _, cmd := range cmds {
		cmd()
	}
	s.players.Store(int32(s.game.PlayerCount()))
}

// handOffStats passes the recorded deltas to the stats writer. When the
// writer is busy they stay in the recorder for the next hand-off.
func (s *Server) handOffStats() {
	if s.store == nil {
		s.game.Stats().Drain()
		return
	}
	deltas := s.game.Stats().Drain()
	if len(deltas) == 0 {
		return
	}
	select {
	case s.statsCh <- deltas:
	default:
		s.game.Stats().Merge(deltas)
	}
}

func (s *Server) writeStats(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case deltas := <-s.statsCh:
			s.unflushed.Merge(deltas)
			if err := s.unflushed.FlushTo(ctx, s.store); err != nil {
				s.log.Error().Err(err).Int("rows", s.unflushed.Len()).Msg("stats flush failed")
			}
		}
	}
}

// finalFlush writes everything not yet stored. It runs after the loop and
// the writer have stopped.
func (s *Server) finalFlush() error {
	if s.store == nil {
		return nil
	}
drain:
	for {
		select {
		case deltas := <-s.statsCh:
			s.unflushed.Merge(deltas)
		default:
			break drain
		}
	}
	s.unflushed.Merge(s.game.Stats().Drain())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.unflushed.FlushTo(ctx, s.store); err != nil {
		return fmt.Errorf("final stats flush: %w", err)
	}
	return nil
}

// Game returns the simulation the server drives.
func (s *Server) Game() *Game {
	return s.game
}

// PlayerCount returns the number of joined players as of the last tick.
func (s *Server) PlayerCount() int {
	return int(s.players.Load())
}
