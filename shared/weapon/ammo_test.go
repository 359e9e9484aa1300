package weapon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestAmmo_GiveClamps(t *testing.T) {
	a := Ammo{Total: 85, InClip: 30}

	assert.Equal(t, 5, a.Give(20, 90))
	assert.Equal(t, 90, a.Total)
	assert.Equal(t, 0, a.Give(20, 90))
	assert.Equal(t, 0, a.Give(-3, 90))
	assert.Equal(t, 90, a.Total)
}

func TestAmmo_UseNeverGoesNegative(t *testing.T) {
	a := Ammo{}
	a.Use(false, false)
	assert.Equal(t, Ammo{}, a)

	a.Use(false, true)
	assert.Equal(t, Ammo{}, a)
}

func TestAmmo_ReloadPartialReserve(t *testing.T) {
	a := Ammo{Total: 12, InClip: 4}

	assert.True(t, a.CanReload(30, false))
	assert.Equal(t, 8, a.Reload(30, false))
	assert.Equal(t, Ammo{Total: 12, InClip: 12}, a)
	assert.False(t, a.CanReload(30, false))
}

func TestAmmo_SeedIgnoresNegativeClips(t *testing.T) {
	cfg := rifleConfig()
	cfg.InitialClips = -2
	assert.Equal(t, Ammo{}, SeedAmmo(cfg))
}

// Giving rounds, reloading and then firing the same number of rounds leaves
// the total where it started.
func TestAmmo_GiveReloadUseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		perClip := rapid.IntRange(1, 50).Draw(t, "perClip")
		maxAmmo := rapid.IntRange(perClip, 300).Draw(t, "maxAmmo")
		start := rapid.IntRange(0, maxAmmo-perClip).Draw(t, "start")
		x := rapid.IntRange(0, perClip).Draw(t, "x")

		a := Ammo{Total: start}
		added := a.Give(x, maxAmmo)
		if added != x {
			t.Fatalf("gave %d, added %d", x, added)
		}
		moved := a.Reload(perClip, false)
		if moved != min(perClip, start+x) {
			t.Fatalf("moved %d rounds into the clip", moved)
		}
		for range x {
			a.Use(false, false)
		}
		if a.Total != start {
			t.Fatalf("total %d, want %d", a.Total, start)
		}
	})
}

// Any sequence of ledger operations keeps 0 <= InClip <= perClip,
// InClip <= Total and Total <= max(maxAmmo, perClip).
func TestAmmo_InvariantsHoldUnderRandomOps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		perClip := rapid.IntRange(1, 40).Draw(t, "perClip")
		clips := rapid.IntRange(0, 4).Draw(t, "clips")
		maxAmmo := perClip * rapid.IntRange(max(clips, 1), 6).Draw(t, "maxClips")
		infClip := rapid.Bool().Draw(t, "infClip")

		a := SeedAmmo(&Config{AmmoPerClip: perClip, MaxAmmo: maxAmmo, InitialClips: clips})

		ops := rapid.SliceOfN(rapid.IntRange(0, 2), 1, 200).Draw(t, "ops")
		for i, op := range ops {
			switch op {
			case 0:
				a.Use(false, infClip)
			case 1:
				if a.CanReload(perClip, infClip) {
					a.Reload(perClip, infClip)
				}
			case 2:
				a.Give(rapid.IntRange(0, 2*perClip).Draw(t, "give"), maxAmmo)
			}

			if a.InClip < 0 || a.InClip > perClip {
				t.Fatalf("op %d: clip %d out of [0,%d]", i, a.InClip, perClip)
			}
			if !infClip && a.InClip > a.Total {
				t.Fatalf("op %d: clip %d exceeds total %d", i, a.InClip, a.Total)
			}
			if a.Total < 0 || a.Total > max(maxAmmo, perClip) {
				t.Fatalf("op %d: total %d out of range", i, a.Total)
			}
		}
	})
}
