package components

import "github.com/yohamta/donburi"

// NetStatsData is the network overlay (singleton component).
type NetStatsData struct {
	Visible bool
	Timer   int // frames until the lines are refreshed
	Lines   []string
}

var NetStats = donburi.NewComponentType[NetStatsData]()
