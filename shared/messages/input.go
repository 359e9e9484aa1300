package messages

// AimInput is sent from client to server whenever the local pawn's aim changes.
type AimInput struct {
	X, Y   float64 // muzzle origin
	DirX   float64 // normalized aim direction
	DirY   float64
	Moving bool
}

// EquipRequest asks the server to switch the sender's current weapon.
type EquipRequest struct {
	Weapon uint // weapon NetworkId; 0 with Step set cycles instead
	Step   int  // +1 next, -1 previous
}
