package weapon

import (
	"errors"
	"fmt"

	"github.com/automoto/gunsync/shared/gamemath"
	"github.com/automoto/gunsync/shared/netconfig"
)

// FireModeKind selects the firing strategy of a weapon type.
type FireModeKind int

const (
	FireHitscan FireModeKind = iota // one trace along the aim
	FireSpread                      // Pellets traces fanned across Spread radians
)

func (k FireModeKind) String() string {
	switch k {
	case FireHitscan:
		return "hitscan"
	case FireSpread:
		return "spread"
	default:
		return "unknown"
	}
}

// FireMode is the firing strategy of a weapon type. Pellets and Spread are
// only read when Kind is FireSpread.
type FireMode struct {
	Kind    FireModeKind
	Range   float64
	Damage  int // per trace
	Pellets int
	Spread  float64 // radians, full cone
}

// Directions returns one normalized direction per trace for a shot along aim.
func (m FireMode) Directions(aim gamemath.Vec2) []gamemath.Vec2 {
	if m.Kind == FireSpread {
		return gamemath.PelletFan(aim, m.Pellets, m.Spread)
	}
	return []gamemath.Vec2{aim.Normalize()}
}

// Cosmetics names the presentation assets of a weapon type. Empty names are skipped.
type Cosmetics struct {
	MuzzleFX       string
	LoopedMuzzleFX bool

	FireSound       string
	FireLoopSound   string
	FireFinishSound string
	LoopedFireSound bool
	OutOfAmmoSound  string
	ReloadSound     string
	EquipSound      string

	WeaponFireAnim   string
	WeaponReloadAnim string
	PawnFireAnim     string
	PawnReloadAnim   string
	PawnEquipAnim    string
	LoopedFireAnim   bool

	FireCameraShake   string
	FireForceFeedback string

	// ImpactFX maps a physical material to its impact effect.
	ImpactFX map[string]string
}

// Config holds the tunables of a weapon type. One Config is shared read-only
// by every weapon of that type.
type Config struct {
	Name                 string
	AmmoPerClip          int
	MaxAmmo              int
	InitialClips         int
	AmmoType             netconfig.AmmoType
	TimeBetweenShots     float64 // seconds, 0 = no rate limit
	NoAnimReloadDuration float64 // seconds, used when the pawn has no reload animation
	MuzzleAttachPoint    string
	InfiniteAmmo         bool
	InfiniteClip         bool
	AllowCatchup         bool // shorten the next refire to absorb timer slack

	FireMode  FireMode
	Cosmetics Cosmetics
}

var (
	ErrNegativeAmmo     = errors.New("ammo counts must not be negative")
	ErrReloadDuration   = errors.New("no-anim reload duration must be positive")
	ErrTimeBetweenShots = errors.New("time between shots must not be negative")
	ErrInitialAmmo      = errors.New("initial ammo exceeds max ammo")
	ErrFireMode         = errors.New("invalid fire mode")
)

// Validate checks the bounds every weapon instance relies on.
func (c *Config) Validate() error {
	if c.AmmoPerClip < 0 || c.MaxAmmo < 0 || c.InitialClips < 0 {
		return fmt.Errorf("%s: %w", c.Name, ErrNegativeAmmo)
	}
	if c.NoAnimReloadDuration <= 0 {
		return fmt.Errorf("%s: %w", c.Name, ErrReloadDuration)
	}
	if c.TimeBetweenShots < 0 {
		return fmt.Errorf("%s: %w", c.Name, ErrTimeBetweenShots)
	}
	if c.InitialClips > 0 && c.AmmoPerClip*c.InitialClips > c.MaxAmmo {
		return fmt.Errorf("%s: %d clips of %d over max %d: %w",
			c.Name, c.InitialClips, c.AmmoPerClip, c.MaxAmmo, ErrInitialAmmo)
	}
	if c.FireMode.Range <= 0 {
		return fmt.Errorf("%s: range %.1f: %w", c.Name, c.FireMode.Range, ErrFireMode)
	}
	if c.FireMode.Kind == FireSpread && c.FireMode.Pellets < 1 {
		return fmt.Errorf("%s: spread needs pellets: %w", c.Name, ErrFireMode)
	}
	return nil
}
