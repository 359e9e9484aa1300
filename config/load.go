package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the optional override file read by Load.
const FileName = "gunsync.json"

const configName = "gunsync"

// Load registers the current globals as defaults, reads FileName from dir if
// it exists, and copies the result back into the globals. Weapon overrides
// live under "weapons.<name>". Every weapon type is validated afterwards.
func Load(dir string) error {
	viper.SetDefault("server.name", Server.Name)
	viper.SetDefault("server.port", Server.Port)
	viper.SetDefault("server.tickRate", Server.TickRate)
	viper.SetDefault("server.version", Server.Version)
	viper.SetDefault("server.level", Server.Level)
	viper.SetDefault("server.maxPlayers", Server.MaxPlayers)
	viper.SetDefault("server.pawnHealth", Server.PawnHealth)
	viper.SetDefault("server.respawnDelay", Server.RespawnDelay)
	viper.SetDefault("server.ammoOnKill", Server.AmmoOnKill)
	viper.SetDefault("server.loadout", Server.Loadout)
	viper.SetDefault("server.statsPath", Server.StatsPath)
	viper.SetDefault("server.statsFlushInterval", Server.StatsFlushInterval)
	viper.SetDefault("server.statsAddr", Server.StatsAddr)
	viper.SetDefault("server.logLevel", Server.LogLevel)

	viper.SetDefault("client.address", Client.Address)
	viper.SetDefault("client.playerName", Client.PlayerName)
	viper.SetDefault("client.difficulty", Client.Difficulty.String())
	viper.SetDefault("client.frameRate", Client.FrameRate)

	viper.SetConfigName(configName)
	viper.AddConfigPath(dir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	Server.Name = viper.GetString("server.name")
	Server.Port = viper.GetUint("server.port")
	Server.TickRate = viper.GetInt("server.tickRate")
	Server.Version = viper.GetString("server.version")
	Server.Level = viper.GetString("server.level")
	Server.MaxPlayers = viper.GetInt("server.maxPlayers")
	Server.PawnHealth = viper.GetInt("server.pawnHealth")
	Server.RespawnDelay = viper.GetFloat64("server.respawnDelay")
	Server.AmmoOnKill = viper.GetInt("server.ammoOnKill")
	Server.Loadout = viper.GetStringSlice("server.loadout")
	Server.StatsPath = viper.GetString("server.statsPath")
	Server.StatsFlushInterval = viper.GetFloat64("server.statsFlushInterval")
	Server.StatsAddr = viper.GetString("server.statsAddr")
	Server.LogLevel = viper.GetString("server.logLevel")

	Client.Address = viper.GetString("client.address")
	Client.PlayerName = viper.GetString("client.playerName")
	Client.Difficulty = ParseBotDifficulty(viper.GetString("client.difficulty"))
	Client.FrameRate = viper.GetInt("client.frameRate")

	applyWeaponOverrides()
	return Validate()
}

func applyWeaponOverrides() {
	for name, w := range Weapons {
		prefix := "weapons." + name + "."
		if key := prefix + "ammoPerClip"; viper.IsSet(key) {
			w.AmmoPerClip = viper.GetInt(key)
		}
		if key := prefix + "maxAmmo"; viper.IsSet(key) {
			w.MaxAmmo = viper.GetInt(key)
		}
		if key := prefix + "initialClips"; viper.IsSet(key) {
			w.InitialClips = viper.GetInt(key)
		}
		if key := prefix + "timeBetweenShots"; viper.IsSet(key) {
			w.TimeBetweenShots = viper.GetFloat64(key)
		}
		if key := prefix + "noAnimReloadDuration"; viper.IsSet(key) {
			w.NoAnimReloadDuration = viper.GetFloat64(key)
		}
		if key := prefix + "infiniteAmmo"; viper.IsSet(key) {
			w.InfiniteAmmo = viper.GetBool(key)
		}
		if key := prefix + "infiniteClip"; viper.IsSet(key) {
			w.InfiniteClip = viper.GetBool(key)
		}
		if key := prefix + "allowCatchup"; viper.IsSet(key) {
			w.AllowCatchup = viper.GetBool(key)
		}
		if key := prefix + "damage"; viper.IsSet(key) {
			w.FireMode.Damage = viper.GetInt(key)
		}
		if key := prefix + "range"; viper.IsSet(key) {
			w.FireMode.Range = viper.GetFloat64(key)
		}
	}
}

var (
	ErrTickRate      = errors.New("tick rate must be positive")
	ErrUnknownWeapon = errors.New("unknown weapon in loadout")
	ErrEmptyLoadout  = errors.New("loadout is empty")
)

// Validate checks the server settings and every weapon type.
func Validate() error {
	if Server.TickRate <= 0 {
		return fmt.Errorf("server: %w", ErrTickRate)
	}
	if len(Server.Loadout) == 0 {
		return fmt.Errorf("server: %w", ErrEmptyLoadout)
	}
	for _, name := range Server.Loadout {
		if _, ok := Weapons[name]; !ok {
			return fmt.Errorf("server: %q: %w", name, ErrUnknownWeapon)
		}
	}
	for _, name := range WeaponNames() {
		if err := Weapons[name].Validate(); err != nil {
			return fmt.Errorf("weapon config: %w", err)
		}
	}
	return nil
}
