package core

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/rs/zerolog"

	"github.com/automoto/gunsync/shared/collision"
	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/leveldata"
)

// ServerLevel holds the server's trace world and spawn data for a level.
type ServerLevel struct {
	Name        string
	World       *collision.World
	SpawnPoints []leveldata.SpawnPoint
	MapWidth    int
	MapHeight   int
}

// NewServerLevel builds a trace world from parsed collision data.
func NewServerLevel(name string, data *leveldata.CollisionData, log zerolog.Logger) *ServerLevel {
	log.Info().
		Str("level", name).
		Int("solids", len(data.SolidRects)).
		Int("spawns", len(data.SpawnPoints)).
		Msgf("loaded level %dx%d", data.MapWidth, data.MapHeight)

	return &ServerLevel{
		Name:        name,
		World:       collision.NewWorld(data),
		SpawnPoints: data.SpawnPoints,
		MapWidth:    data.MapWidth,
		MapHeight:   data.MapHeight,
	}
}

// LoadServerLevel loads levels/<name>.tmx from fsys.
func LoadServerLevel(fsys fs.FS, name string, log zerolog.Logger) (*ServerLevel, error) {
	data, err := leveldata.LoadCollisionData(fsys, path.Join("levels", name+".tmx"))
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", name, err)
	}
	return NewServerLevel(name, data, log), nil
}

// LoadAllServerLevels loads all .tmx levels under levels/ in fsys, returning
// a map of ServerLevel keyed by stem name plus a sorted name list.
func LoadAllServerLevels(fsys fs.FS, log zerolog.Logger) (map[string]*ServerLevel, []string, error) {
	collisionMap, names, err := leveldata.LoadAllLevels(fsys, "levels")
	if err != nil {
		return nil, nil, fmt.Errorf("load all levels: %w", err)
	}

	levels := make(map[string]*ServerLevel, len(names))
	for _, name := range names {
		levels[name] = NewServerLevel(name, collisionMap[name], log)
	}

	return levels, names, nil
}

// FreeSpawn returns the top-left corner of the first spawn point, starting at
// start and wrapping, whose pawn box overlaps nothing. It falls back to the
// start point when every spawn is blocked.
func (l *ServerLevel) FreeSpawn(start int) gamemath.Vec2 {
	n := len(l.SpawnPoints)
	if n == 0 {
		return gamemath.V(float64(l.MapWidth)/2, float64(l.MapHeight)/2)
	}
	start = ((start % n) + n) % n
	for i := 0; i < n; i++ {
		sp := l.SpawnPoints[(start+i)%n]
		if l.World.Free(sp.X, sp.Y, collision.PawnWidth, collision.PawnHeight) {
			return gamemath.V(sp.X, sp.Y)
		}
	}
	sp := l.SpawnPoints[start]
	return gamemath.V(sp.X, sp.Y)
}

// Clamp keeps a pawn's top-left corner inside the map.
func (l *ServerLevel) Clamp(p gamemath.Vec2) gamemath.Vec2 {
	return gamemath.V(
		gamemath.ClampFloat(p.X, 0, float64(l.MapWidth)-collision.PawnWidth),
		gamemath.ClampFloat(p.Y, 0, float64(l.MapHeight)-collision.PawnHeight),
	)
}
