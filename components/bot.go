package components

import (
	"github.com/automoto/gridduel/shared/input"
	"github.com/yohamta/donburi"
)

// BotData drives one player handle in practice matches.
type BotData struct {
	Handle   int
	Timer    int // frames until the next decision
	Decision input.Bits
	// Strafe alternates the sidestep direction between decisions.
	Strafe bool
}

var Bot = donburi.NewComponentType[BotData]()
