package config

import "strings"

// BotDifficulty affects reaction time and trigger discipline
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

var botDifficultyNames = map[BotDifficulty]string{
	BotDifficultyEasy:   "easy",
	BotDifficultyNormal: "normal",
	BotDifficultyHard:   "hard",
}

func (d BotDifficulty) String() string {
	if name, ok := botDifficultyNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseBotDifficulty maps a flag value to a difficulty. Unknown names map to normal.
func ParseBotDifficulty(name string) BotDifficulty {
	for d, n := range botDifficultyNames {
		if strings.EqualFold(n, name) {
			return d
		}
	}
	return BotDifficultyNormal
}

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay int     // Frames between seeing a target and pulling the trigger
	BurstFrames   int     // Frames the trigger is held per burst
	PauseFrames   int     // Frames between bursts
	ReloadBelow   float64 // Clip fraction under which the bot reloads while idle
	SwitchEvery   int     // Frames between weapon switches, 0 never switches
	AimJitter     float64 // Radians of random aim error
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulties map[BotDifficulty]BotDifficultyConfig
}

// Bot holds bot AI configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay: 30, // 0.5 second reaction time
				BurstFrames:   12,
				PauseFrames:   60,
				ReloadBelow:   0.0, // only reloads on empty
				SwitchEvery:   0,
				AimJitter:     0.25,
			},
			BotDifficultyNormal: {
				ReactionDelay: 15, // 0.25 second reaction time
				BurstFrames:   30,
				PauseFrames:   30,
				ReloadBelow:   0.2,
				SwitchEvery:   900,
				AimJitter:     0.1,
			},
			BotDifficultyHard: {
				ReactionDelay: 5, // Near-instant reaction
				BurstFrames:   45,
				PauseFrames:   10,
				ReloadBelow:   0.4,
				SwitchEvery:   600,
				AimJitter:     0.03,
			},
		},
	}
}
