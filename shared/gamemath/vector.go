package gamemath

import "math"

// Vec2 is a 2D vector in world units (pixels, y down).
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Normalize returns the unit vector, or the zero vector for zero length input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rotate rotates v by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// RayEnd returns the point range units from origin along dir.
func RayEnd(origin, dir Vec2, rangeUnits float64) Vec2 {
	return origin.Add(dir.Normalize().Scale(rangeUnits))
}

// PelletFan spreads count directions evenly across a cone of spread radians
// centred on dir. The pattern is deterministic so a predicting client and the
// authority trace the same pellets.
func PelletFan(dir Vec2, count int, spread float64) []Vec2 {
	if count <= 0 {
		return nil
	}
	base := dir.Normalize()
	if count == 1 || spread == 0 {
		out := make([]Vec2, count)
		for i := range out {
			out[i] = base
		}
		return out
	}
	out := make([]Vec2, count)
	step := spread / float64(count-1)
	start := -spread / 2
	for i := range out {
		out[i] = base.Rotate(start + step*float64(i))
	}
	return out
}

// Angle returns the direction of v in radians, y down.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// FromAngle returns the unit vector at angle radians.
func FromAngle(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{cos, sin}
}

// ClampFloat clamps v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
