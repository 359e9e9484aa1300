// Package collision is the trace world weapons shoot into. Level solids and
// pawn hitboxes live in a resolv space; the space narrows a trace down to the
// objects in the cells it crosses and the segment is then clipped against
// each candidate's box.
package collision

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/leveldata"
	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/weapon"
)

// Resolv tags.
const (
	TagSolid = "solid"
	TagPawn  = "pawn"
)

// Pawn hitbox size in world units.
const (
	PawnWidth  = 16.0
	PawnHeight = 40.0
)

const cellSize = 16

// World is a resolv space of solids and pawns. It is not safe for concurrent
// use.
type World struct {
	space  *resolv.Space
	actors map[weapon.ActorID]*resolv.Object
	width  float64
	height float64
}

type actorData struct {
	id       weapon.ActorID
	material string
}

// NewWorld builds a world from level collision data.
func NewWorld(data *leveldata.CollisionData) *World {
	w := &World{
		space:  resolv.NewSpace(data.MapWidth, data.MapHeight, cellSize, cellSize),
		actors: make(map[weapon.ActorID]*resolv.Object),
		width:  float64(data.MapWidth),
		height: float64(data.MapHeight),
	}
	for _, r := range data.SolidRects {
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, TagSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		obj.Data = r.Material
		w.space.Add(obj)
	}
	return w
}

// AddActor places a pawn hitbox with its top-left corner at (x, y).
func (w *World) AddActor(id weapon.ActorID, x, y float64) {
	if _, ok := w.actors[id]; ok {
		w.MoveActor(id, x, y)
		return
	}
	obj := resolv.NewObject(x, y, PawnWidth, PawnHeight, TagPawn)
	obj.SetShape(resolv.NewRectangle(0, 0, PawnWidth, PawnHeight))
	obj.Data = actorData{id: id, material: "flesh"}
	w.space.Add(obj)
	w.actors[id] = obj
}

func (w *World) MoveActor(id weapon.ActorID, x, y float64) {
	obj, ok := w.actors[id]
	if !ok {
		return
	}
	obj.X, obj.Y = x, y
	obj.Update()
}

func (w *World) RemoveActor(id weapon.ActorID) {
	obj, ok := w.actors[id]
	if !ok {
		return
	}
	w.space.Remove(obj)
	delete(w.actors, id)
}

// ActorCenter returns the centre of a pawn hitbox.
func (w *World) ActorCenter(id weapon.ActorID) (gamemath.Vec2, bool) {
	obj, ok := w.actors[id]
	if !ok {
		return gamemath.Vec2{}, false
	}
	return gamemath.V(obj.X+obj.W/2, obj.Y+obj.H/2), true
}

// Free reports whether a box overlaps no solid and no pawn.
func (w *World) Free(x, y, width, height float64) bool {
	probe := resolv.NewObject(x, y, width, height)
	w.space.Add(probe)
	defer w.space.Remove(probe)

	check := probe.Check(0, 0, TagSolid, TagPawn)
	if check == nil {
		return true
	}
	for _, obj := range check.ObjectsByTags(TagSolid, TagPawn) {
		if overlaps(x, y, width, height, obj) {
			return false
		}
	}
	return true
}

// Trace returns the nearest hit between from and to. The weapon channel is
// blocked by solids and pawns, the visibility channel by solids only. The
// ignore actor is skipped.
func (w *World) Trace(from, to gamemath.Vec2, channel netconfig.TraceChannel, ignore weapon.ActorID) (weapon.Hit, bool) {
	tags := []string{TagSolid}
	if channel == netconfig.ChannelWeapon {
		tags = append(tags, TagPawn)
	}

	minX, maxX := math.Min(from.X, to.X), math.Max(from.X, to.X)
	minY, maxY := math.Min(from.Y, to.Y), math.Max(from.Y, to.Y)
	probe := resolv.NewObject(minX, minY, math.Max(maxX-minX, 1), math.Max(maxY-minY, 1))
	w.space.Add(probe)
	check := probe.Check(0, 0, tags...)
	w.space.Remove(probe)
	if check == nil {
		return weapon.Hit{}, false
	}

	var (
		best  weapon.Hit
		found bool
		bestT = math.Inf(1)
	)
	seg := to.Sub(from)
	for _, obj := range check.ObjectsByTags(tags...) {
		var hit weapon.Hit
		switch d := obj.Data.(type) {
		case actorData:
			if d.id == ignore {
				continue
			}
			hit.Actor = d.id
			hit.Material = d.material
		case string:
			hit.Material = d
		}

		t, normal, ok := clipSegment(from, seg, obj.X, obj.Y, obj.W, obj.H)
		if !ok || t >= bestT {
			continue
		}
		bestT = t
		hit.Point = from.Add(seg.Scale(t))
		hit.Normal = normal
		hit.Distance = seg.Len() * t
		best = hit
		found = true
	}
	return best, found
}

// clipSegment intersects from+t*seg (t in [0,1]) with an axis-aligned box
// and returns the entry parameter and the face normal. A segment starting
// inside the box hits at t=0 with a normal facing back along the segment.
func clipSegment(from, seg gamemath.Vec2, x, y, width, height float64) (float64, gamemath.Vec2, bool) {
	tMin, tMax := 0.0, 1.0
	var normal gamemath.Vec2

	axes := [2]struct {
		o, d, lo, hi float64
		n            gamemath.Vec2
	}{
		{from.X, seg.X, x, x + width, gamemath.V(1, 0)},
		{from.Y, seg.Y, y, y + height, gamemath.V(0, 1)},
	}
	for _, a := range axes {
		if a.d == 0 {
			if a.o < a.lo || a.o > a.hi {
				return 0, gamemath.Vec2{}, false
			}
			continue
		}
		t1 := (a.lo - a.o) / a.d
		t2 := (a.hi - a.o) / a.d
		n := a.n.Scale(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = a.n
		}
		if t1 > tMin {
			tMin = t1
			normal = n
		}
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, gamemath.Vec2{}, false
		}
	}
	if normal == (gamemath.Vec2{}) {
		normal = seg.Normalize().Scale(-1)
	}
	return tMin, normal, true
}

func overlaps(x, y, width, height float64, obj *resolv.Object) bool {
	return x < obj.X+obj.W && x+width > obj.X && y < obj.Y+obj.H && y+height > obj.Y
}

// Size returns the world width and height.
func (w *World) Size() (float64, float64) {
	return w.width, w.height
}
