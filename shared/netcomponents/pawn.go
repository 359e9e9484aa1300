package netcomponents

import (
	"math"

	"github.com/yohamta/donburi"
)

// NetPositionData is a pawn's center in level coordinates.
type NetPositionData struct {
	X, Y float64
}

var NetPosition = donburi.NewComponentType[NetPositionData]()

// LerpNetPosition interpolates between two positions
func LerpNetPosition(from, to NetPositionData, t float64) *NetPositionData {
	return &NetPositionData{
		X: from.X + (to.X-from.X)*t,
		Y: from.Y + (to.Y-from.Y)*t,
	}
}

// NetAimData is the normalized direction a pawn is aiming in.
type NetAimData struct {
	DirX, DirY float64
}

var NetAim = donburi.NewComponentType[NetAimData]()

// LerpNetAim rotates along the shorter arc so a turn through ±π does not
// sweep the long way round.
func LerpNetAim(from, to NetAimData, t float64) *NetAimData {
	a := math.Atan2(from.DirY, from.DirX)
	b := math.Atan2(to.DirY, to.DirX)
	d := math.Remainder(b-a, 2*math.Pi)
	angle := a + d*t
	return &NetAimData{DirX: math.Cos(angle), DirY: math.Sin(angle)}
}

type NetPawnData struct {
	Name          string
	Health        int
	Alive         bool
	CurrentWeapon uint // weapon NetworkId, 0 when unarmed
	Kills         int
	Deaths        int
	IsLocal       bool // Client-side only, not synced
}

var NetPawn = donburi.NewComponentType[NetPawnData]()
