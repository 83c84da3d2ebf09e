package tags

import "github.com/yohamta/donburi"

var (
	Wall      = donburi.NewTag().SetName("Wall")
	Bot       = donburi.NewTag().SetName("Bot")
	Explosion = donburi.NewTag().SetName("Explosion")
	Toast     = donburi.NewTag().SetName("Toast")
)

// Resolv tags for collision
const (
	ResolvSolid = "solid"
)
