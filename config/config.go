// Package config holds the global tunables of the server and bot client.
// Every value has a default set in init(); Load overrides them from an
// optional gunsync.json.
package config

import "github.com/automoto/gunsync/shared/weapon"

// ServerConfig contains dedicated server settings
type ServerConfig struct {
	Name       string
	Port       uint
	TickRate   int    // ticks per second
	Version    string // required client version, empty accepts any
	Level      string // level stem under assets/levels
	MaxPlayers int

	// Combat
	PawnHealth   int
	RespawnDelay float64  // seconds
	AmmoOnKill   int      // rounds given to the killer's matching weapon
	Loadout      []string // weapon types every pawn spawns with, first is equipped

	// Stats
	StatsPath          string  // SQLite file, empty keeps stats in memory
	StatsFlushInterval float64 // seconds
	StatsAddr          string  // HTTP listen address for the stats API, empty disables it

	LogLevel string
}

// ClientConfig contains headless client settings
type ClientConfig struct {
	Address    string
	PlayerName string
	Difficulty BotDifficulty
	FrameRate  int // local simulation steps per second
}

// Global configuration instances
var Server ServerConfig
var Client ClientConfig

// Weapons is the catalog of weapon types keyed by name. Each Config is shared
// read-only by every weapon of that type.
var Weapons map[string]*weapon.Config

func init() {
	Server = ServerConfig{
		Name:       "Gunsync Server",
		Port:       7373,
		TickRate:   30,
		Version:    "",
		Level:      "arena",
		MaxPlayers: 8,

		PawnHealth:   100,
		RespawnDelay: 3.0,
		AmmoOnKill:   10,
		Loadout:      []string{"rifle", "shotgun", "pistol"},

		StatsPath:          "",
		StatsFlushInterval: 10.0,
		StatsAddr:          "",

		LogLevel: "info",
	}

	Client = ClientConfig{
		Address:    "localhost:7373",
		PlayerName: "bot",
		Difficulty: BotDifficultyNormal,
		FrameRate:  60,
	}

	Weapons = defaultWeapons()
}
