package protocol

import (
	"github.com/leap-fish/necs/esync"

	"github.com/automoto/gunsync/shared/netcomponents"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetPosition  uint = 10
	SyncIDNetAim       uint = 11
	SyncIDNetPawn      uint = 12
	SyncIDNetWeapon    uint = 13
	SyncIDNetGameState uint = 15
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetPosition uint8 = 10
	InterpIDNetAim      uint8 = 11
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	// Register with interpolation for smooth client-side rendering
	if err := esync.RegisterComponent(
		SyncIDNetPosition,
		netcomponents.NetPositionData{},
		netcomponents.NetPosition,
		esync.WithInterpFn(InterpIDNetPosition, netcomponents.LerpNetPosition),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetAim,
		netcomponents.NetAimData{},
		netcomponents.NetAim,
		esync.WithInterpFn(InterpIDNetAim, netcomponents.LerpNetAim),
	); err != nil {
		return err
	}

	// Pawn and weapon identity: no interpolation (discrete state changes)
	if err := esync.RegisterComponent(
		SyncIDNetPawn,
		netcomponents.NetPawnData{},
		netcomponents.NetPawn,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetWeapon,
		netcomponents.NetWeaponData{},
		netcomponents.NetWeapon,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetGameState,
		netcomponents.NetGameStateData{},
		netcomponents.NetGameState,
	); err != nil {
		return err
	}

	return nil
}
