package messages

// HitEvent is broadcast when an authoritative shot damages a pawn
type HitEvent struct {
	AttackerID uint // NetworkId of attacker pawn
	TargetID   uint // NetworkId of target pawn
	Weapon     uint // NetworkId of the weapon
	Damage     int
	X, Y       float64 // impact point
}

// DeathEvent is broadcast when a pawn dies
type DeathEvent struct {
	VictimID uint // NetworkId of victim
	KillerID uint // NetworkId of killer (0 if environmental)
	Weapon   uint
}

// RespawnEvent is broadcast when a dead pawn is placed back in the level
type RespawnEvent struct {
	NetworkID uint
	X, Y      float64
}
