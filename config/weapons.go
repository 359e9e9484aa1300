package config

import (
	"sort"

	"github.com/automoto/gunsync/shared/netconfig"
	"github.com/automoto/gunsync/shared/weapon"
)

// impactFX maps the level's physical materials to impact effects.
var impactFX = map[string]string{
	"concrete": "fx_impact_dust",
	"metal":    "fx_impact_sparks",
	"wood":     "fx_impact_splinters",
	"flesh":    "fx_impact_blood",
}

func defaultWeapons() map[string]*weapon.Config {
	return map[string]*weapon.Config{
		"rifle": {
			Name:                 "rifle",
			AmmoPerClip:          30,
			MaxAmmo:              150,
			InitialClips:         3,
			AmmoType:             netconfig.AmmoBullet,
			TimeBetweenShots:     0.1,
			NoAnimReloadDuration: 1.5,
			MuzzleAttachPoint:    "Muzzle",
			AllowCatchup:         true,
			FireMode: weapon.FireMode{
				Kind:   weapon.FireHitscan,
				Range:  600,
				Damage: 12,
			},
			Cosmetics: weapon.Cosmetics{
				MuzzleFX:          "fx_muzzle_rifle",
				FireSound:         "snd_rifle_fire",
				OutOfAmmoSound:    "snd_dry_fire",
				ReloadSound:       "snd_rifle_reload",
				EquipSound:        "snd_equip",
				WeaponFireAnim:    "rifle_fire",
				WeaponReloadAnim:  "rifle_reload",
				PawnFireAnim:      "pawn_fire_rifle",
				PawnReloadAnim:    "pawn_reload_rifle",
				PawnEquipAnim:     "pawn_equip",
				FireCameraShake:   "shake_light",
				FireForceFeedback: "ff_light",
				ImpactFX:          impactFX,
			},
		},
		"shotgun": {
			Name:                 "shotgun",
			AmmoPerClip:          6,
			MaxAmmo:              36,
			InitialClips:         2,
			AmmoType:             netconfig.AmmoShell,
			TimeBetweenShots:     0.9,
			NoAnimReloadDuration: 2.2,
			MuzzleAttachPoint:    "Muzzle",
			AllowCatchup:         false,
			FireMode: weapon.FireMode{
				Kind:    weapon.FireSpread,
				Range:   250,
				Damage:  6,
				Pellets: 8,
				Spread:  0.35,
			},
			Cosmetics: weapon.Cosmetics{
				MuzzleFX:          "fx_muzzle_shotgun",
				FireSound:         "snd_shotgun_fire",
				OutOfAmmoSound:    "snd_dry_fire",
				ReloadSound:       "snd_shotgun_reload",
				EquipSound:        "snd_equip",
				WeaponFireAnim:    "shotgun_pump",
				WeaponReloadAnim:  "shotgun_reload",
				PawnFireAnim:      "pawn_fire_shotgun",
				PawnReloadAnim:    "pawn_reload_shotgun",
				PawnEquipAnim:     "pawn_equip",
				FireCameraShake:   "shake_heavy",
				FireForceFeedback: "ff_heavy",
				ImpactFX:          impactFX,
			},
		},
		"minigun": {
			Name:                 "minigun",
			AmmoPerClip:          100,
			MaxAmmo:              300,
			InitialClips:         1,
			AmmoType:             netconfig.AmmoBullet,
			TimeBetweenShots:     0.05,
			NoAnimReloadDuration: 3.0,
			MuzzleAttachPoint:    "Barrel",
			AllowCatchup:         true,
			FireMode: weapon.FireMode{
				Kind:   weapon.FireHitscan,
				Range:  500,
				Damage: 5,
			},
			Cosmetics: weapon.Cosmetics{
				MuzzleFX:          "fx_muzzle_minigun",
				LoopedMuzzleFX:    true,
				FireLoopSound:     "snd_minigun_loop",
				FireFinishSound:   "snd_minigun_spin_down",
				LoopedFireSound:   true,
				OutOfAmmoSound:    "snd_dry_fire",
				ReloadSound:       "snd_minigun_reload",
				EquipSound:        "snd_equip_heavy",
				WeaponFireAnim:    "minigun_spin",
				PawnFireAnim:      "pawn_fire_minigun",
				PawnEquipAnim:     "pawn_equip",
				LoopedFireAnim:    true,
				FireCameraShake:   "shake_light",
				FireForceFeedback: "ff_rumble",
				ImpactFX:          impactFX,
			},
		},
		"pistol": {
			Name:                 "pistol",
			AmmoPerClip:          12,
			MaxAmmo:              12,
			InitialClips:         1,
			AmmoType:             netconfig.AmmoBullet,
			TimeBetweenShots:     0.25,
			NoAnimReloadDuration: 1.0,
			MuzzleAttachPoint:    "Muzzle",
			InfiniteClip:         true,
			AllowCatchup:         true,
			FireMode: weapon.FireMode{
				Kind:   weapon.FireHitscan,
				Range:  400,
				Damage: 15,
			},
			Cosmetics: weapon.Cosmetics{
				MuzzleFX:         "fx_muzzle_pistol",
				FireSound:        "snd_pistol_fire",
				OutOfAmmoSound:   "snd_dry_fire",
				ReloadSound:      "snd_pistol_reload",
				EquipSound:       "snd_equip",
				WeaponReloadAnim: "pistol_reload",
				PawnFireAnim:     "pawn_fire_pistol",
				PawnReloadAnim:   "pawn_reload_pistol",
				PawnEquipAnim:    "pawn_equip",
				FireCameraShake:  "shake_light",
				ImpactFX:         impactFX,
			},
		},
	}
}

// WeaponNames returns the catalog names in a stable order.
func WeaponNames() []string {
	names := make([]string, 0, len(Weapons))
	for name := range Weapons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
