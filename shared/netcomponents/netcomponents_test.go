package netcomponents

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerpNetPosition(t *testing.T) {
	got := LerpNetPosition(NetPositionData{X: 0, Y: 10}, NetPositionData{X: 10, Y: 20}, 0.5)
	assert.Equal(t, NetPositionData{X: 5, Y: 15}, *got)
}

func TestLerpNetAim_ShortArc(t *testing.T) {
	// just above and just below the negative x axis
	from := NetAimData{DirX: math.Cos(math.Pi - 0.1), DirY: math.Sin(math.Pi - 0.1)}
	to := NetAimData{DirX: math.Cos(-math.Pi + 0.1), DirY: math.Sin(-math.Pi + 0.1)}

	mid := LerpNetAim(from, to, 0.5)
	assert.InDelta(t, -1.0, mid.DirX, 1e-9)
	assert.InDelta(t, 0.0, mid.DirY, 1e-9)

	end := LerpNetAim(from, to, 1)
	assert.InDelta(t, to.DirX, end.DirX, 1e-9)
	assert.InDelta(t, to.DirY, end.DirY, 1e-9)
}

func TestNetGameState_Leader(t *testing.T) {
	id, score := NetGameStateData{}.Leader()
	assert.Zero(t, id)
	assert.Zero(t, score)

	id, score = NetGameStateData{Scores: map[uint]int{4: 2, 3: 2, 9: 1}}.Leader()
	assert.Equal(t, uint(3), id)
	assert.Equal(t, 2, score)
}
