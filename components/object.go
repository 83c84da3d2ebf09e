package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

type ObjectData struct {
	*resolv.Object
}

// Object links a wall entity to its collision box in the bot's space.
var Object = donburi.NewComponentType[ObjectData]()

// Space is the wall collision space of the current arena (singleton).
var Space = donburi.NewComponentType[resolv.Space]()
