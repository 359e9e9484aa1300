package netcomponents

import "github.com/yohamta/donburi"

type MatchState int

const (
	MatchStateWaiting MatchState = iota
	MatchStatePlaying
)

func (s MatchState) String() string {
	switch s {
	case MatchStateWaiting:
		return "waiting"
	case MatchStatePlaying:
		return "playing"
	}
	return "unknown"
}

type NetGameStateData struct {
	Scores     map[uint]int // pawn NetworkId -> kills
	Elapsed    float64      // seconds since the match started
	MatchState MatchState
	Players    int
}

var NetGameState = donburi.NewComponentType[NetGameStateData]()

// Leader returns the pawn with the most kills, lowest id on ties.
func (d NetGameStateData) Leader() (uint, int) {
	var best uint
	top := -1
	for id, score := range d.Scores {
		if score > top || (score == top && id < best) {
			best, top = id, score
		}
	}
	if top < 0 {
		return 0, 0
	}
	return best, top
}
