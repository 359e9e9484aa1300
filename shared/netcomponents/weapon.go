package netcomponents

import "github.com/yohamta/donburi"

// NetWeaponData identifies a weapon entity. The weapon's ledger and firing
// state travel as WeaponBatch patches, not in the snapshot.
type NetWeaponData struct {
	Type   string // catalog name
	Holder uint   // pawn NetworkId, 0 when dropped
	Slot   int    // position in the holder's inventory
}

var NetWeapon = donburi.NewComponentType[NetWeaponData]()
