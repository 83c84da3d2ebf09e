package components

import (
	"github.com/automoto/gridduel/shared/sim"
	"github.com/yohamta/donburi"
)

// MatchData is what the match renderers read (singleton component). The
// scene refreshes it after every session tick.
type MatchData struct {
	State       *sim.State
	Arena       string
	LocalHandle int
	Running     bool // false until the session has synchronized
	Practice    bool
}

var Match = donburi.NewComponentType[MatchData]()
