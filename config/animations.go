package config

// PawnAnimations maps a pawn animation clip to its duration in seconds.
// Weapons fall back to their configured durations for clips missing here.
var PawnAnimations = map[string]float64{
	"pawn_equip": 0.45,

	"pawn_fire_rifle":   0.1,
	"pawn_fire_shotgun": 0.35,
	"pawn_fire_pistol":  0.15,
	"pawn_fire_minigun": 0.5, // looped while the burst lasts

	"pawn_reload_rifle":   1.9,
	"pawn_reload_shotgun": 2.4,
	"pawn_reload_pistol":  1.1,
	// minigun has no reload clip and uses NoAnimReloadDuration
}
